package repository

import (
	"context"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesOrderRepository interface {
	Create(ctx context.Context, order *model.SalesOrder) error
	FindByOrderID(ctx context.Context, storeID, orderID string) (*model.SalesOrder, error)
	FindByOrderIDAndStatus(ctx context.Context, storeID, orderID, status string) (*model.SalesOrder, error)
	ListByStatus(ctx context.Context, storeID, status string, page, limit int) ([]model.SalesOrder, int64, error)
	MarkSold(ctx context.Context, storeID, orderID string) (int64, error)
	Save(ctx context.Context, order *model.SalesOrder) error
	ReplaceLines(ctx context.Context, orderUUID uuid.UUID, lines []model.SalesOrderLine) error
	Delete(ctx context.Context, storeID, orderID string) (int64, error)
}

type salesOrderRepository struct {
	db *gorm.DB
}

func NewSalesOrderRepository(db *gorm.DB) SalesOrderRepository {
	return &salesOrderRepository{db: db}
}

func (r *salesOrderRepository) Create(ctx context.Context, order *model.SalesOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *salesOrderRepository) FindByOrderID(ctx context.Context, storeID, orderID string) (*model.SalesOrder, error) {
	var order model.SalesOrder
	if err := GetDB(ctx, r.db).Preload("Lines").
		Where("store_id = ? AND order_id = ?", storeID, orderID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *salesOrderRepository) FindByOrderIDAndStatus(ctx context.Context, storeID, orderID, status string) (*model.SalesOrder, error) {
	var order model.SalesOrder
	if err := GetDB(ctx, r.db).Preload("Lines").
		Where("store_id = ? AND order_id = ? AND order_status = ?", storeID, orderID, status).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *salesOrderRepository) ListByStatus(ctx context.Context, storeID, status string, page, limit int) ([]model.SalesOrder, int64, error) {
	var orders []model.SalesOrder
	var total int64

	db := GetDB(ctx, r.db).Model(&model.SalesOrder{}).
		Where("store_id = ? AND order_status = ?", storeID, status)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Lines").
		Order("order_id").Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// MarkSold transitions Received -> Sold with a conditional update; zero rows
// affected means the order is absent or already sold (idempotency guard).
func (r *salesOrderRepository) MarkSold(ctx context.Context, storeID, orderID string) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.SalesOrder{}).
		Where("store_id = ? AND order_id = ? AND order_status = ?", storeID, orderID, model.OrderStatusReceived).
		Update("order_status", model.OrderStatusSold)
	return res.RowsAffected, res.Error
}

func (r *salesOrderRepository) Save(ctx context.Context, order *model.SalesOrder) error {
	return GetDB(ctx, r.db).Omit("Lines").Save(order).Error
}

// ReplaceLines swaps an order's line set wholesale (edit re-pricing, return trim)
func (r *salesOrderRepository) ReplaceLines(ctx context.Context, orderUUID uuid.UUID, lines []model.SalesOrderLine) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("sales_order_id = ?", orderUUID).Delete(&model.SalesOrderLine{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].ID = uuid.Nil
		lines[i].SalesOrderID = orderUUID
	}
	if len(lines) == 0 {
		return nil
	}
	return db.Create(&lines).Error
}

func (r *salesOrderRepository) Delete(ctx context.Context, storeID, orderID string) (int64, error) {
	db := GetDB(ctx, r.db)
	var order model.SalesOrder
	if err := db.Where("store_id = ? AND order_id = ?", storeID, orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	if err := db.Where("sales_order_id = ?", order.ID).Delete(&model.SalesOrderLine{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id = ?", order.ID).Delete(&model.SalesOrder{})
	return res.RowsAffected, res.Error
}
