package repository

import (
	"context"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"gorm.io/gorm"
)

type VendorReturnRepository interface {
	Create(ctx context.Context, ret *model.ReturnToVendor) error
	FindByReturnID(ctx context.Context, storeID, returnID string) (*model.ReturnToVendor, error)
	List(ctx context.Context, storeID string) ([]model.ReturnToVendor, error)
	LastReturnID(ctx context.Context, storeID string) (string, error)
}

type vendorReturnRepository struct {
	db  *gorm.DB
	seq SequenceRepository
}

func NewVendorReturnRepository(db *gorm.DB, seq SequenceRepository) VendorReturnRepository {
	return &vendorReturnRepository{db: db, seq: seq}
}

func (r *vendorReturnRepository) Create(ctx context.Context, ret *model.ReturnToVendor) error {
	return GetDB(ctx, r.db).Create(ret).Error
}

func (r *vendorReturnRepository) FindByReturnID(ctx context.Context, storeID, returnID string) (*model.ReturnToVendor, error) {
	var ret model.ReturnToVendor
	if err := GetDB(ctx, r.db).
		Where("store_id = ? AND return_id = ?", storeID, returnID).
		First(&ret).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *vendorReturnRepository) List(ctx context.Context, storeID string) ([]model.ReturnToVendor, error) {
	var returns []model.ReturnToVendor
	if err := GetDB(ctx, r.db).
		Where("store_id = ?", storeID).
		Order("return_id").
		Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

func (r *vendorReturnRepository) LastReturnID(ctx context.Context, storeID string) (string, error) {
	return r.seq.LastID(ctx, "return_to_vendors", "return_id", "RV", storeID)
}
