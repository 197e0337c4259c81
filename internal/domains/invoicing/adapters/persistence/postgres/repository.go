package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists invoices in PostgreSQL using GORM. Header and line
// items are written inside one database transaction so readers see all of an
// invoice or none of it.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&invoiceRecord{}, &invoiceItemRecord{})
	}
	return repo
}

type invoiceRecord struct {
	ID         string          `gorm:"primaryKey;column:id;type:varchar(64)"`
	CustomerID string          `gorm:"column:customer_id;type:varchar(64);index"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(14,2)"`
	CreatedAt  time.Time       `gorm:"column:created_at;index"`
}

func (invoiceRecord) TableName() string { return "invoices" }

// invoiceItemRecord stores one line; position preserves caller-supplied order.
type invoiceItemRecord struct {
	InvoiceID string          `gorm:"primaryKey;column:invoice_id;type:varchar(64)"`
	Position  int             `gorm:"primaryKey;column:position"`
	ProductID string          `gorm:"column:product_id;type:varchar(64);index"`
	Quantity  int64           `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2)"`
}

func (invoiceItemRecord) TableName() string { return "invoice_items" }

// Create inserts the header and all items atomically.
func (r *Repository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, errors.New("invoice is nil")
	}
	header, items := toRecords(invoice)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&header).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, header.ID)
}

// Replace swaps the header and items of an existing invoice in one transaction.
func (r *Repository) Replace(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, errors.New("invoice is nil")
	}
	header, items := toRecords(invoice)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&invoiceRecord{}).
			Where("id = ?", header.ID).
			Updates(map[string]any{"customer_id": header.CustomerID, "total": header.Total})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		if err := tx.Delete(&invoiceItemRecord{}, "invoice_id = ?", header.ID).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, header.ID)
}

// GetByID loads the header and its ordered items.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var header invoiceRecord
	if err := r.db.WithContext(ctx).First(&header, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var items []invoiceItemRecord
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return toDomain(header, items), nil
}

// Delete removes the header and its items atomically.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&invoiceItemRecord{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&invoiceRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

// List returns all invoices with their items.
func (r *Repository) List(ctx context.Context) ([]*domain.Invoice, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var headers []invoiceRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&headers).Error; err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []*domain.Invoice{}, nil
	}
	ids := make([]string, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.ID)
	}
	var items []invoiceItemRecord
	if err := r.db.WithContext(ctx).
		Where("invoice_id IN ?", ids).
		Order("invoice_id, position ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	grouped := make(map[string][]invoiceItemRecord, len(headers))
	for _, item := range items {
		grouped[item.InvoiceID] = append(grouped[item.InvoiceID], item)
	}
	invoices := make([]*domain.Invoice, 0, len(headers))
	for _, header := range headers {
		invoices = append(invoices, toDomain(header, grouped[header.ID]))
	}
	return invoices, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres invoice repository not configured")
	}
	return nil
}

func toRecords(invoice *domain.Invoice) (invoiceRecord, []invoiceItemRecord) {
	header := invoiceRecord{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Total:      invoice.Total,
		CreatedAt:  invoice.CreatedAt,
	}
	items := make([]invoiceItemRecord, 0, len(invoice.Items))
	for i, item := range invoice.Items {
		items = append(items, invoiceItemRecord{
			InvoiceID: invoice.ID,
			Position:  i,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return header, items
}

func toDomain(header invoiceRecord, items []invoiceItemRecord) *domain.Invoice {
	invoice := &domain.Invoice{
		ID:         header.ID,
		CustomerID: header.CustomerID,
		Total:      header.Total,
		CreatedAt:  header.CreatedAt,
		Items:      make([]domain.LineItem, 0, len(items)),
	}
	for _, item := range items {
		invoice.Items = append(invoice.Items, domain.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return invoice
}
