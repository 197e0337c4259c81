package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName     = errors.New("product name is required")
	ErrEmptyCategory = errors.New("product category is required")
	ErrEmptyQRCode   = errors.New("product qr code is required")
	ErrNegativePrice = errors.New("product price must not be negative")
)

// Product models a catalog entry. Its price feeds invoice line items at
// fulfillment time; later price changes never touch already-issued invoices.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Images      []string
	QRCode      string
}

// NewProduct validates and constructs a new Product aggregate.
func NewProduct(id, name, description string, price decimal.Decimal, category, qrCode string, images []string) (*Product, error) {
	product := &Product{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Category:    strings.TrimSpace(category),
		Images:      append([]string{}, images...),
		QRCode:      strings.TrimSpace(qrCode),
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Category == "" {
		return ErrEmptyCategory
	}
	if p.QRCode == "" {
		return ErrEmptyQRCode
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Rename trims and validates the product name.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// ChangePrice sets a new unit price. Invoices issued before the change keep
// the price captured when they were fulfilled.
func (p *Product) ChangePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}

// ReplaceImages swaps the image URL list.
func (p *Product) ReplaceImages(images []string) {
	p.Images = append([]string{}, images...)
}
