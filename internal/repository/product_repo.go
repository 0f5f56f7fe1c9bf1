package repository

import (
	"context"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository is the authoritative store of stock levels. Every query is
// scoped by store_id; omitting the scope would leak data across tenants.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	UpdateFields(ctx context.Context, storeID, productID string, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, storeID, productID string) (int64, error)
	FindByProductID(ctx context.Context, storeID, productID string) (*model.Product, error)
	FindByProductIDForUpdate(ctx context.Context, storeID, productID string) (*model.Product, error)
	FindByName(ctx context.Context, storeID, productName string) (*model.Product, error)
	List(ctx context.Context, storeID string, page, limit int) ([]model.Product, int64, error)
	UpdateQuantity(ctx context.Context, storeID, productID string, quantity int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) UpdateFields(ctx context.Context, storeID, productID string, fields map[string]interface{}) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Product{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *productRepository) Delete(ctx context.Context, storeID, productID string) (int64, error) {
	res := GetDB(ctx, r.db).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Delete(&model.Product{})
	return res.RowsAffected, res.Error
}

func (r *productRepository) FindByProductID(ctx context.Context, storeID, productID string) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByProductIDForUpdate(ctx context.Context, storeID, productID string) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByName(ctx context.Context, storeID, productName string) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).
		Where("store_id = ? AND product_name = ?", storeID, productName).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, storeID string, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Product{}).Where("store_id = ?", storeID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("product_id").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) UpdateQuantity(ctx context.Context, storeID, productID string, quantity int) error {
	return GetDB(ctx, r.db).Model(&model.Product{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Update("quantity", quantity).Error
}
