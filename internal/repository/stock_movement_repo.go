package repository

import (
	"context"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(ctx context.Context, movement *model.StockMovement) error
	ListByProduct(ctx context.Context, storeID, productID string) ([]model.StockMovement, error)
}

type stockMovementRepository struct {
	db *gorm.DB
}

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *stockMovementRepository) ListByProduct(ctx context.Context, storeID, productID string) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	if err := GetDB(ctx, r.db).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Order("created_at").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
