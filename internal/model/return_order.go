package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SentToProcurement flag values. The flag is one-way: once a return is sent to
// procurement it disappears from the sales views.
const (
	ReturnWithSales       = 0
	ReturnWithProcurement = 1
)

// ReturnOrder is a customer return raised against a sold order. It is deleted
// once validated/dispositioned by procurement.
type ReturnOrder struct {
	ID                   uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ReturnID             string            `gorm:"type:varchar(30);not null;uniqueIndex:idx_returns_store_return" json:"return_id"`
	OrderID              string            `gorm:"type:varchar(30);not null;index" json:"order_id"`
	CustomerID           string            `gorm:"type:varchar(30)" json:"customer_id"`
	CustomerName         string            `gorm:"type:varchar(255)" json:"customer_name"`
	PhoneNo              string            `gorm:"type:varchar(20)" json:"phone_no"`
	Email                string            `gorm:"type:varchar(255)" json:"email"`
	Lines                []ReturnOrderLine `gorm:"foreignKey:ReturnOrderID;constraint:OnDelete:CASCADE" json:"product"`
	ReturnDate           string            `gorm:"type:varchar(10)" json:"return_date"` // YYYY-MM-DD
	IsCustomerReturnable bool              `gorm:"default:true" json:"is_customer_returnable"`
	Remarks              string            `gorm:"type:text" json:"remarks"`
	Reason               string            `gorm:"type:varchar(255)" json:"reason"`
	ReturnedAmount       decimal.Decimal   `gorm:"type:decimal(18,2)" json:"returned_amount"`
	SentToProcurement    int               `gorm:"type:smallint;not null;default:0" json:"sent_to_procurement"`
	StoreID              string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_returns_store_return;index" json:"store_id"`
	OrgID                string            `gorm:"type:varchar(50);index" json:"org_id"`
	CreatedAt            time.Time         `json:"-"`
}

// ReturnOrderLine carries the returned quantity plus the price/tax snapshot
// and the returnability metadata copied from inventory at validation time.
type ReturnOrderLine struct {
	ID                       uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ReturnOrderID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ProductID                string          `gorm:"type:varchar(30);not null" json:"product_id"`
	ProductName              string          `gorm:"type:varchar(255)" json:"product_name"`
	ReturnQuantity           int             `gorm:"type:int;not null" json:"return_quantity"`
	UnitPrice                decimal.Decimal `gorm:"type:decimal(18,2)" json:"unit_price"`
	Tax                      decimal.Decimal `gorm:"type:decimal(18,2)" json:"tax"`
	IsCustomerReturnable     bool            `gorm:"default:false" json:"is_customer_returnable"`
	ConsumerReturnConditions StringList      `gorm:"type:jsonb" json:"consumer_return_conditions"`
	IsSellerReturnable       bool            `gorm:"default:false" json:"is_seller_returnable"`
	SellerReturnConditions   StringList      `gorm:"type:jsonb" json:"seller_return_conditions"`
	Category                 string          `gorm:"type:varchar(100)" json:"category"`
	SubCategory              string          `gorm:"type:varchar(100)" json:"sub_category"`
	Unit                     string          `gorm:"type:varchar(20)" json:"unit"`
}
