package model

import (
	"time"

	"github.com/google/uuid"
)

// Derived stock status labels. Never persisted — recomputed on every read.
const (
	StockIn  = "Stock-in"
	StockOut = "Stock-out"
)

// Product is an inventory record scoped by (org_id, store_id). Quantity is the
// only field the order/return flows mutate; everything else changes through
// product CRUD. Rows are deleted hard so the sequential ID generator sees the
// true remaining maximum.
type Product struct {
	ID                       uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ProductID                string     `gorm:"type:varchar(30);not null;uniqueIndex:idx_products_store_product" json:"product_id"`
	StoreID                  string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_store_product;index" json:"store_id"`
	OrgID                    string     `gorm:"type:varchar(50);index" json:"org_id"`
	ProductName              string     `gorm:"type:varchar(255);not null" json:"product_name"`
	IsConsumerReturnable     bool       `gorm:"default:false" json:"is_consumer_returnable"`
	ConsumerReturnConditions StringList `gorm:"type:jsonb" json:"consumer_return_conditions"`
	IsSellerReturnable       bool       `gorm:"default:false" json:"is_seller_returnable"`
	SellerReturnConditions   StringList `gorm:"type:jsonb" json:"seller_return_conditions"`
	UnitPrice                string     `gorm:"type:varchar(30);not null;default:'0'" json:"unit_price"` // decimal kept as string at rest
	Unit                     string     `gorm:"type:varchar(20)" json:"unit"`
	Quantity                 int        `gorm:"type:int;not null;default:0" json:"quantity"`
	Category                 string     `gorm:"type:varchar(100)" json:"category"`
	SubCategory              string     `gorm:"type:varchar(100)" json:"sub_category"`
	Tags                     StringList `gorm:"type:jsonb" json:"tags"`
	Tax                      float64    `gorm:"type:decimal(10,2);default:0" json:"tax"`
	HasWarranty              bool       `gorm:"default:false" json:"has_warranty"`
	WarrantyTenure           int        `gorm:"type:int;default:0" json:"warranty_tenure"`
	WarrantyUnit             string     `gorm:"type:varchar(20)" json:"warranty_unit"`
	LastUpdated              time.Time  `gorm:"autoUpdateTime" json:"last_updated"`
	CreatedAt                time.Time  `json:"-"`
}

// StockStatus derives the display status from the current quantity.
func (p *Product) StockStatus() string {
	if p.Quantity > 0 {
		return StockIn
	}
	return StockOut
}

// Movement direction constants
const (
	MovementIn  = "IN"
	MovementOut = "OUT"
)

// StockMovement records every quantity change applied to a product, with the
// resulting stock level. Written in the same transaction as the change itself.
type StockMovement struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID       string    `gorm:"type:varchar(30);not null;index" json:"product_id"`
	StoreID         string    `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Reference       string    `gorm:"type:varchar(50);index" json:"reference"` // order/return/purchase business id
	MovementType    string    `gorm:"type:varchar(10);not null" json:"movement_type"`
	QuantityChanged int       `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int       `gorm:"type:int;not null" json:"stock_after"`
	CreatedAt       time.Time `json:"created_at"`
}
