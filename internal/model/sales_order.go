package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle states, stored as the original wire codes.
const (
	OrderStatusReceived = "0"
	OrderStatusSold     = "1"
)

// OrderStatusText maps a stored status code to its display form.
func OrderStatusText(status string) string {
	switch status {
	case OrderStatusReceived:
		return "received"
	case OrderStatusSold:
		return "sold"
	}
	return status
}

// SalesOrder is a customer order. The total is derived from the lines and is
// never edited independently; line unit_price/tax are snapshots captured at
// pricing time, not live references to inventory.
type SalesOrder struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	OrderID         string           `gorm:"type:varchar(30);not null;uniqueIndex:idx_orders_store_order" json:"order_id"`
	CustomerID      string           `gorm:"type:varchar(30)" json:"customer_id"`
	StoreID         string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_orders_store_order;index" json:"store_id"`
	CustomerName    string           `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone   string           `gorm:"type:varchar(20)" json:"customer_phone"`
	CustomerEmail   string           `gorm:"type:varchar(255)" json:"customer_email"`
	OrderDate       time.Time        `json:"order_date"`
	DeliveryAddress string           `gorm:"type:text" json:"delivery_address"`
	DeliveryDate    time.Time        `json:"delivery_date"`
	GSTNumber       string           `gorm:"type:varchar(30)" json:"gst_number"`
	Lines           []SalesOrderLine `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE" json:"products"`
	TotalOrderPrice decimal.Decimal  `gorm:"type:decimal(18,2)" json:"total_order_price"`
	OrderStatus     string           `gorm:"type:varchar(2);not null;default:'0'" json:"order_status"`
	CreatedAt       time.Time        `json:"-"`
	UpdatedAt       time.Time        `json:"-"`
}

// SalesOrderLine is one product entry within an order. InventoryQuantity is
// the stock level observed when the line was last priced; ProductStatus is
// derived per read and never stored.
type SalesOrderLine struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	SalesOrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ProductID         string          `gorm:"type:varchar(30);not null" json:"product_id"`
	ProductName       string          `gorm:"type:varchar(255)" json:"product_name"`
	Category          string          `gorm:"type:varchar(100)" json:"category"`
	Unit              string          `gorm:"type:varchar(20)" json:"unit"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,2)" json:"unit_price"`
	Tax               decimal.Decimal `gorm:"type:decimal(18,2)" json:"tax"`
	OrderQuantity     int             `gorm:"type:int;not null" json:"order_quantity"`
	InventoryQuantity int             `gorm:"type:int" json:"inventory_quantity"`
	ProductStatus     string          `gorm:"-" json:"product_status,omitempty"`
}
