package repository

import (
	"context"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"gorm.io/gorm"
)

type RequestedOrderRepository interface {
	Create(ctx context.Context, order *model.RequestedOrder) error
	List(ctx context.Context, storeID string) ([]model.RequestedOrder, error)
}

type requestedOrderRepository struct {
	db *gorm.DB
}

func NewRequestedOrderRepository(db *gorm.DB) RequestedOrderRepository {
	return &requestedOrderRepository{db: db}
}

func (r *requestedOrderRepository) Create(ctx context.Context, order *model.RequestedOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *requestedOrderRepository) List(ctx context.Context, storeID string) ([]model.RequestedOrder, error) {
	var orders []model.RequestedOrder
	if err := GetDB(ctx, r.db).
		Where("store_id = ?", storeID).
		Order("request_id").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
