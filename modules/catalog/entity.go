package catalog

import (
	"time"

	domain "github.com/0x-70da/horus-shop/domain/catalog"
)

// Document kinds stored in the documents table.
const (
	kindCategory  = "category"
	kindBrand     = "brand"
	kindReview    = "review"
	kindOrder     = "order"
	kindBanner    = "banner"
	kindFlashDeal = "flash_deal"
)

// ProductRecord stores a product with its lookup columns broken out.
// Position keeps the fixture order, which listing ties fall back to.
type ProductRecord struct {
	ID        string         `gorm:"primarykey;size:64"`
	Slug      string         `gorm:"uniqueIndex;size:128;not null"`
	Category  string         `gorm:"index;size:64"`
	Position  int            `gorm:"index;not null"`
	Price     float64        `gorm:"not null"`
	Product   domain.Product `gorm:"serializer:json;type:text;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for ProductRecord.
func (ProductRecord) TableName() string {
	return "products"
}

// DocumentRecord stores any other catalog collection entry as JSON.
type DocumentRecord struct {
	Kind     string `gorm:"primarykey;size:32"`
	ID       string `gorm:"primarykey;size:64"`
	Position int    `gorm:"index;not null"`
	Body     string `gorm:"type:text;not null"`
}

// TableName returns the table name for DocumentRecord.
func (DocumentRecord) TableName() string {
	return "catalog_documents"
}
