package repository

import (
	"context"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"gorm.io/gorm"
)

type ContractRepository interface {
	Create(ctx context.Context, contract *model.Contract) error
	FindByContractID(ctx context.Context, storeID, contractID string) (*model.Contract, error)
	List(ctx context.Context, storeID string) ([]model.Contract, error)
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *model.Contract) error {
	return GetDB(ctx, r.db).Create(contract).Error
}

func (r *contractRepository) FindByContractID(ctx context.Context, storeID, contractID string) (*model.Contract, error) {
	var contract model.Contract
	if err := GetDB(ctx, r.db).
		Where("store_id = ? AND contract_id = ?", storeID, contractID).
		First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) List(ctx context.Context, storeID string) ([]model.Contract, error) {
	var contracts []model.Contract
	if err := GetDB(ctx, r.db).
		Where("store_id = ?", storeID).
		Order("contract_id").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}
