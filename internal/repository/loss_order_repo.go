package repository

import (
	"context"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"gorm.io/gorm"
)

type LossOrderRepository interface {
	Create(ctx context.Context, loss *model.LossOrder) error
	List(ctx context.Context, storeID, orgID string) ([]model.LossOrder, error)
}

type lossOrderRepository struct {
	db *gorm.DB
}

func NewLossOrderRepository(db *gorm.DB) LossOrderRepository {
	return &lossOrderRepository{db: db}
}

func (r *lossOrderRepository) Create(ctx context.Context, loss *model.LossOrder) error {
	return GetDB(ctx, r.db).Create(loss).Error
}

func (r *lossOrderRepository) List(ctx context.Context, storeID, orgID string) ([]model.LossOrder, error) {
	var losses []model.LossOrder
	db := GetDB(ctx, r.db).Where("store_id = ?", storeID)
	if orgID != "" {
		db = db.Where("org_id = ?", orgID)
	}
	if err := db.Order("created_at").Find(&losses).Error; err != nil {
		return nil, err
	}
	return losses, nil
}
