package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductType classifies merchandise in the catalog.
type ProductType string

const (
	ProductTypeJersey      ProductType = "jersey"
	ProductTypeCap         ProductType = "cap"
	ProductTypeFlag        ProductType = "flag"
	ProductTypeAccessory   ProductType = "accessory"
	ProductTypeMemorabilia ProductType = "memorabilia"
)

// ParseProductType validates a product type coming from a request.
func ParseProductType(s string) (ProductType, error) {
	switch t := ProductType(s); t {
	case ProductTypeJersey, ProductTypeCap, ProductTypeFlag, ProductTypeAccessory, ProductTypeMemorabilia:
		return t, nil
	}
	return "", fmt.Errorf("unknown product type: %s", s)
}

// Product represents a product in the store.
// StockQuantity is only decremented through ProductRepository.TryDecrementStock
// while an order is being placed.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string          `json:"name" gorm:"type:varchar(200);not null" validate:"required,min=3,max=200"`
	Description   string          `json:"description" validate:"omitempty,max=1000"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Type          ProductType     `json:"type" gorm:"type:varchar(20);index" validate:"required,oneof=jersey cap flag accessory memorabilia"`
	ImageURL      string          `json:"image_url" validate:"omitempty,url"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0;check:stock_quantity >= 0" validate:"gte=0"`
	IsAvailable   bool            `json:"is_available" gorm:"not null"`
	Size          string          `json:"size" gorm:"type:varchar(20)"`
	Color         string          `json:"color" gorm:"type:varchar(50)"`
	FranchiseID   string          `json:"franchise_id" gorm:"type:varchar(36);index" validate:"required"`
	Franchise     *Franchise      `json:"franchise,omitempty" validate:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}
