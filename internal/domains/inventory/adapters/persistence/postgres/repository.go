package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists inventory records in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&inventoryRecord{})
	}
	return repo
}

// inventoryRecord maps the inventory aggregate to a relational table.
type inventoryRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	ProductID string    `gorm:"column:product_id;type:varchar(64);uniqueIndex"`
	Quantity  int64     `gorm:"column:quantity"`
	Version   int64     `gorm:"column:version"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (inventoryRecord) TableName() string { return "inventories" }

// Save inserts or updates a record. Updates bump the version so concurrent
// conditional writes observe the change.
func (r *Repository) Save(ctx context.Context, record *domain.Record) (*domain.Record, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("inventory record is nil")
	}
	rec := inventoryRecord{
		ID:        record.ID,
		ProductID: record.ProductID,
		Quantity:  record.Quantity,
		Version:   1,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   rec.Quantity,
				"version":    gorm.Expr("inventories.version + 1"),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrProductTracked
		}
		return nil, err
	}
	return r.GetByID(ctx, rec.ID)
}

// GetByID fetches a record by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec inventoryRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return rec.toDomain(), nil
}

// GetByProductID fetches the record tracking a product.
func (r *Repository) GetByProductID(ctx context.Context, productID string) (*domain.Record, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec inventoryRecord
	if err := r.db.WithContext(ctx).First(&rec, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return rec.toDomain(), nil
}

// AdjustQuantity applies delta in one conditional UPDATE. The version guard
// makes the write a compare-and-swap: zero rows affected with the row still
// present means a concurrent writer won.
func (r *Repository) AdjustQuantity(ctx context.Context, productID string, delta int64, expectedVersion int64) (*domain.Record, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Model(&inventoryRecord{}).
		Where("product_id = ? AND version = ? AND quantity + ? >= 0", productID, expectedVersion, delta).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"version":    gorm.Expr("version + 1"),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&inventoryRecord{}).
			Where("product_id = ?", productID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByProductID(ctx, productID)
}

// Delete removes a record by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&inventoryRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all records.
func (r *Repository) List(ctx context.Context) ([]*domain.Record, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var recs []inventoryRecord
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	records := make([]*domain.Record, 0, len(recs))
	for i := range recs {
		records = append(records, recs[i].toDomain())
	}
	return records, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres inventory repository not configured")
	}
	return nil
}

func (rec inventoryRecord) toDomain() *domain.Record {
	return &domain.Record{
		ID:        rec.ID,
		ProductID: rec.ProductID,
		Quantity:  rec.Quantity,
		Version:   rec.Version,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
