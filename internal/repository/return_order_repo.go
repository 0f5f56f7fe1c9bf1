package repository

import (
	"context"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"gorm.io/gorm"
)

type ReturnOrderRepository interface {
	Create(ctx context.Context, order *model.ReturnOrder) error
	FindByReturnID(ctx context.Context, storeID, returnID string) (*model.ReturnOrder, error)
	// List filters by the sent_to_procurement flag when sent is non-nil.
	List(ctx context.Context, storeID string, sent *int) ([]model.ReturnOrder, error)
	MarkSentToProcurement(ctx context.Context, storeID, returnID string) (int64, error)
	Delete(ctx context.Context, storeID, returnID string) (int64, error)
}

type returnOrderRepository struct {
	db *gorm.DB
}

func NewReturnOrderRepository(db *gorm.DB) ReturnOrderRepository {
	return &returnOrderRepository{db: db}
}

func (r *returnOrderRepository) Create(ctx context.Context, order *model.ReturnOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *returnOrderRepository) FindByReturnID(ctx context.Context, storeID, returnID string) (*model.ReturnOrder, error) {
	var order model.ReturnOrder
	if err := GetDB(ctx, r.db).Preload("Lines").
		Where("store_id = ? AND return_id = ?", storeID, returnID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *returnOrderRepository) List(ctx context.Context, storeID string, sent *int) ([]model.ReturnOrder, error) {
	var orders []model.ReturnOrder
	db := GetDB(ctx, r.db).Preload("Lines").Where("store_id = ?", storeID)
	if sent != nil {
		db = db.Where("sent_to_procurement = ?", *sent)
	}
	if err := db.Order("return_id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *returnOrderRepository) MarkSentToProcurement(ctx context.Context, storeID, returnID string) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.ReturnOrder{}).
		Where("store_id = ? AND return_id = ?", storeID, returnID).
		Update("sent_to_procurement", model.ReturnWithProcurement)
	return res.RowsAffected, res.Error
}

func (r *returnOrderRepository) Delete(ctx context.Context, storeID, returnID string) (int64, error) {
	db := GetDB(ctx, r.db)
	var order model.ReturnOrder
	if err := db.Where("store_id = ? AND return_id = ?", storeID, returnID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	if err := db.Where("return_order_id = ?", order.ID).Delete(&model.ReturnOrderLine{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id = ?", order.ID).Delete(&model.ReturnOrder{})
	return res.RowsAffected, res.Error
}
