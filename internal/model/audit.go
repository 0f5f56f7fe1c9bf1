package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateProduct = "CREATE_PRODUCT"
	ActionUpdateProduct = "UPDATE_PRODUCT"
	ActionDeleteProduct = "DELETE_PRODUCT"

	ActionCreateSalesOrder = "CREATE_SALES_ORDER"
	ActionEditSalesOrder   = "EDIT_SALES_ORDER"
	ActionSellOrder        = "SELL_ORDER"
	ActionDeleteSalesOrder = "DELETE_SALES_ORDER"

	ActionCreateReturn      = "CREATE_RETURN"
	ActionSendToProcurement = "SEND_RETURN_TO_PROCUREMENT"
	ActionValidateReturn    = "VALIDATE_RETURN"

	ActionRaiseRequest     = "RAISE_REQUEST_ORDER"
	ActionValidatePurchase = "VALIDATE_PURCHASE_ORDER"
	ActionMarkPOReceived   = "MARK_PURCHASE_ORDER_RECEIVED"
	ActionCreateContract   = "CREATE_CONTRACT"

	ActionCreateUser = "CREATE_USER"
)

// AuditLog tracks who did what and when for every mutating flow. Written
// inside the same transaction as the mutation it records.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	StoreID    string     `gorm:"type:varchar(50);index" json:"store_id"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"` // business id (ORD001, RET002, ...)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized request payload
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
