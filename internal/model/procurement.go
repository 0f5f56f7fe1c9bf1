package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor return status codes and their display mapping.
const (
	VendorReturnReturned = 0
	VendorReturnDisabled = 1
	VendorReturnPending  = 2
)

// VendorReturnStatusText maps a stored status code to its display form.
func VendorReturnStatusText(status int) string {
	switch status {
	case VendorReturnDisabled:
		return "Disabled"
	case VendorReturnPending:
		return "Pending"
	}
	return "Returned"
}

// ReturnToVendor is a terminal record produced when a damaged-but-returnable
// customer return or a mismatched delivery is routed back to the supplier.
type ReturnToVendor struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ReturnID         string          `gorm:"type:varchar(30);not null;index" json:"return_id"`
	OrderID          string          `gorm:"type:varchar(30)" json:"order_id"`
	StoreID          string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	OrgID            string          `gorm:"type:varchar(50);index" json:"org_id"`
	VendorName       string          `gorm:"type:varchar(255)" json:"vendor_name"`
	ProductName      string          `gorm:"type:varchar(255)" json:"product_name"`
	DeliveryDate     string          `gorm:"type:varchar(10)" json:"delivery_date"`
	Status           int             `gorm:"type:smallint;not null;default:0" json:"status"`
	ReturnAmount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"return_amount"`
	OriginalQuantity int             `gorm:"type:int" json:"original_quantity"`
	ReturnQuantity   int             `gorm:"type:int;not null" json:"return_quantity"`
	Unit             string          `gorm:"type:varchar(20)" json:"unit"`
	ContractID       string          `gorm:"type:varchar(30)" json:"contract_id"`
	PurchaseDate     string          `gorm:"type:varchar(10)" json:"purchase_date"`
	ProductCondition string          `gorm:"type:varchar(100)" json:"product_condition"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_price"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2)" json:"unit_price"`
	ReturnReason     string          `gorm:"type:varchar(255)" json:"return_reason"`
	CreatedAt        time.Time       `json:"-"`
}

// LossOrder is a terminal write-off record. Loss value is
// quantity_lost x unit_price, aggregated per category for reporting.
type LossOrder struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ProductID    string          `gorm:"type:varchar(30);index" json:"product_id"`
	OrgID        string          `gorm:"type:varchar(50);index" json:"org_id"`
	StoreID      string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	ProductName  string          `gorm:"type:varchar(255)" json:"product_name"`
	Category     string          `gorm:"type:varchar(100)" json:"category"`
	DateReported string          `gorm:"type:varchar(10)" json:"date_reported"`
	QuantityLost int             `gorm:"type:int;not null" json:"quantity_lost"`
	Unit         string          `gorm:"type:varchar(20)" json:"unit"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2)" json:"unit_price"`
	Reason       string          `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt    time.Time       `json:"-"`
}

// RequestedOrder is a procurement request auto-raised when an ordered
// quantity exceeds the on-hand inventory.
type RequestedOrder struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	RequestID        string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_requests_store_request" json:"request_id"`
	OrgID            string    `gorm:"type:varchar(50);index" json:"org_id"`
	StoreID          string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_requests_store_request;index" json:"store_id"`
	ProductName      string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity         int       `gorm:"type:int;not null" json:"quantity"`
	Unit             string    `gorm:"type:varchar(20)" json:"unit"`
	Category         string    `gorm:"type:varchar(100)" json:"category"`
	EstimateDate     string    `gorm:"type:varchar(10)" json:"estimate_date"`
	RequestedByID    string    `gorm:"type:varchar(50)" json:"requested_by_id"`
	RequestedByName  string    `gorm:"type:varchar(255)" json:"requested_by_name"`
	RequestedByEmail string    `gorm:"type:varchar(255)" json:"requested_by_email"`
	Status           string    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// Purchase order status codes, normalized to text at read time.
const (
	ReceivedStatusWaiting  = 0
	ReceivedStatusReceived = 1

	ValidationStatusPending   = 0
	ValidationStatusCompleted = 1
)

// ReceivedStatusText maps the inbound delivery code to its display form.
func ReceivedStatusText(status int) string {
	if status == ReceivedStatusReceived {
		return "Received"
	}
	return "Waiting"
}

// ValidationStatusText maps the validation code to its display form.
func ValidationStatusText(status int) string {
	if status == ValidationStatusCompleted {
		return "Completed"
	}
	return "Pending"
}

// PurchaseOrder is procurement's inbound delivery record. Validation is
// terminal: once completed it is not reversible through this path.
type PurchaseOrder struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	OrderID          string          `gorm:"type:varchar(30);not null;uniqueIndex:idx_po_store_order" json:"order_id"`
	ContractID       string          `gorm:"type:varchar(30)" json:"contract_id"`
	Supplier         string          `gorm:"type:varchar(255)" json:"supplier"`
	DeliveryDate     string          `gorm:"type:varchar(10)" json:"delivery_date"`
	ReceivedStatus   int             `gorm:"type:smallint;not null;default:0" json:"-"`
	ValidationStatus int             `gorm:"type:smallint;not null;default:0" json:"-"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	StoreID          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_po_store_order;index" json:"store_id"`
	OrgID            string          `gorm:"type:varchar(50);index" json:"org_id"`
	CreatedAt        time.Time       `json:"-"`
	UpdatedAt        time.Time       `json:"-"`
}

// Contract holds the vendor agreement a purchase order is raised against.
type Contract struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ContractID       string          `gorm:"type:varchar(30);not null;uniqueIndex" json:"contract_id"`
	RequestID        string          `gorm:"type:varchar(30)" json:"request_id"`
	VendorName       string          `gorm:"type:varchar(255);not null" json:"vendor_name"`
	VendorEmail      string          `gorm:"type:varchar(255)" json:"vendor_email"`
	Phone            string          `gorm:"type:varchar(20)" json:"phone"`
	Address          string          `gorm:"type:text" json:"address"`
	Pincode          string          `gorm:"type:varchar(10)" json:"pincode"`
	BusinessType     string          `gorm:"type:varchar(100)" json:"business_type"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2)" json:"unit_price"`
	GSTNumber        string          `gorm:"type:varchar(30)" json:"gst_number"`
	Tax              float64         `gorm:"type:decimal(10,2);default:0" json:"tax"`
	ProductName      string          `gorm:"type:varchar(255)" json:"product_name"`
	Quantity         int             `gorm:"type:int" json:"quantity"`
	Unit             string          `gorm:"type:varchar(20)" json:"unit"`
	Category         string          `gorm:"type:varchar(100)" json:"category"`
	SubCategory      string          `gorm:"type:varchar(100)" json:"sub_category"`
	Tags             StringList      `gorm:"type:jsonb" json:"tags"`
	WarrantyTenure   int             `gorm:"type:int;default:0" json:"warranty_tenure"`
	WarrantyUnit     string          `gorm:"type:varchar(20)" json:"warranty_unit"`
	DateOfDelivery   string          `gorm:"type:varchar(10)" json:"date_of_delivery"`
	Returnable       bool            `gorm:"default:false" json:"returnable"`
	ReturnConditions StringList      `gorm:"type:jsonb" json:"return_conditions"`
	Status           string          `gorm:"type:varchar(20);default:'pending'" json:"status"`
	StoreID          string          `gorm:"type:varchar(50);not null;index" json:"store_id"`
	OrgID            string          `gorm:"type:varchar(50);index" json:"org_id"`
	CreatedAt        time.Time       `json:"-"`
	UpdatedAt        time.Time       `json:"-"`
}
