package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&inventoryRecord{},
		&invoiceRecord{},
		&invoiceItemRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(14,2)"`
	Category    string          `gorm:"column:category;index"`
	Images      pq.StringArray  `gorm:"column:images;type:text[]"`
	QRCode      string          `gorm:"column:qr_code;type:varchar(128);uniqueIndex"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Inventory schema mirrors the inventory Postgres adapter.
type inventoryRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	ProductID string    `gorm:"column:product_id;type:varchar(64);uniqueIndex"`
	Quantity  int64     `gorm:"column:quantity"`
	Version   int64     `gorm:"column:version"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (inventoryRecord) TableName() string { return "inventories" }

// Invoice header schema mirrors the invoicing Postgres adapter.
type invoiceRecord struct {
	ID         string          `gorm:"primaryKey;column:id;type:varchar(64)"`
	CustomerID string          `gorm:"column:customer_id;type:varchar(64);index"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(14,2)"`
	CreatedAt  time.Time       `gorm:"column:created_at;index"`
}

func (invoiceRecord) TableName() string { return "invoices" }

// Invoice line schema; position preserves caller-supplied item order.
type invoiceItemRecord struct {
	InvoiceID string          `gorm:"primaryKey;column:invoice_id;type:varchar(64)"`
	Position  int             `gorm:"primaryKey;column:position"`
	ProductID string          `gorm:"column:product_id;type:varchar(64);index"`
	Quantity  int64           `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2)"`
}

func (invoiceItemRecord) TableName() string { return "invoice_items" }
