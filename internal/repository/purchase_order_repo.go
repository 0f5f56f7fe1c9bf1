package repository

import (
	"context"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"gorm.io/gorm"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *model.PurchaseOrder) error
	FindByOrderID(ctx context.Context, storeID, orderID string) (*model.PurchaseOrder, error)
	List(ctx context.Context, storeID string) ([]model.PurchaseOrder, error)
	MarkReceived(ctx context.Context, storeID, orderID string) (int64, error)
	CompleteValidation(ctx context.Context, storeID, orderID string) (int64, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *purchaseOrderRepository) FindByOrderID(ctx context.Context, storeID, orderID string) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Where("store_id = ? AND order_id = ?", storeID, orderID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, storeID string) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Where("store_id = ?", storeID).
		Order("order_id").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *purchaseOrderRepository) MarkReceived(ctx context.Context, storeID, orderID string) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Where("store_id = ? AND order_id = ?", storeID, orderID).
		Update("received_status", model.ReceivedStatusReceived)
	return res.RowsAffected, res.Error
}

// CompleteValidation is terminal: both statuses move to their final values.
func (r *purchaseOrderRepository) CompleteValidation(ctx context.Context, storeID, orderID string) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Where("store_id = ? AND order_id = ?", storeID, orderID).
		Updates(map[string]interface{}{
			"validation_status": model.ValidationStatusCompleted,
			"received_status":   model.ReceivedStatusReceived,
		})
	return res.RowsAffected, res.Error
}
