package service

import (
	"context"
	"time"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/internal/repository"
	"github.com/mansij47/Optiven-Backend/pkg/apperror"
	"github.com/mansij47/Optiven-Backend/pkg/sequence"

	"gorm.io/gorm"
)

// --- DTOs ---

type CreateProductRequest struct {
	ProductName              string   `json:"product_name" binding:"required"`
	UnitPrice                string   `json:"unit_price" binding:"required"`
	Quantity                 int      `json:"quantity" binding:"gte=0"`
	Unit                     string   `json:"unit"`
	Category                 string   `json:"category"`
	SubCategory              string   `json:"sub_category"`
	Tags                     []string `json:"tags"`
	Tax                      float64  `json:"tax"`
	IsConsumerReturnable     bool     `json:"is_consumer_returnable"`
	ConsumerReturnConditions []string `json:"consumer_return_conditions"`
	IsSellerReturnable       bool     `json:"is_seller_returnable"`
	SellerReturnConditions   []string `json:"seller_return_conditions"`
	HasWarranty              bool     `json:"has_warranty"`
	WarrantyTenure           int      `json:"warranty_tenure"`
	WarrantyUnit             string   `json:"warranty_unit"`
}

// UpdateProductRequest patches only the fields present in the payload.
type UpdateProductRequest struct {
	ProductName              *string   `json:"product_name"`
	UnitPrice                *string   `json:"unit_price"`
	Quantity                 *int      `json:"quantity"`
	Unit                     *string   `json:"unit"`
	Category                 *string   `json:"category"`
	SubCategory              *string   `json:"sub_category"`
	Tags                     *[]string `json:"tags"`
	Tax                      *float64  `json:"tax"`
	IsConsumerReturnable     *bool     `json:"is_consumer_returnable"`
	ConsumerReturnConditions *[]string `json:"consumer_return_conditions"`
	IsSellerReturnable       *bool     `json:"is_seller_returnable"`
	SellerReturnConditions   *[]string `json:"seller_return_conditions"`
	HasWarranty              *bool     `json:"has_warranty"`
	WarrantyTenure           *int      `json:"warranty_tenure"`
	WarrantyUnit             *string   `json:"warranty_unit"`
}

// ProductResponse is the product row plus its derived stock status.
type ProductResponse struct {
	model.Product
	StockStatus string `json:"stock_status"`
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, principal middleware.Principal, req CreateProductRequest) (ProductResponse, error)
	GetProduct(ctx context.Context, principal middleware.Principal, productID string) (ProductResponse, error)
	ListProducts(ctx context.Context, principal middleware.Principal, page, limit int) ([]ProductResponse, int64, error)
	UpdateProduct(ctx context.Context, principal middleware.Principal, productID string, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, principal middleware.Principal, productID string) error
	ListMovements(ctx context.Context, principal middleware.Principal, productID string) ([]model.StockMovement, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	seqRepo      repository.SequenceRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewProductService(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	seqRepo repository.SequenceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		seqRepo:      seqRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *productService) CreateProduct(ctx context.Context, principal middleware.Principal, req CreateProductRequest) (ProductResponse, error) {
	if err := validatePrice(req.UnitPrice); err != nil {
		return ProductResponse{}, err
	}

	var created model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		last, err := s.seqRepo.LastID(txCtx, "products", "product_id", sequence.PrefixProduct, principal.StoreID)
		if err != nil {
			return apperror.Internal("failed to derive product id", err)
		}

		created = model.Product{
			ProductID:                sequence.Next(last, sequence.PrefixProduct),
			StoreID:                  principal.StoreID,
			OrgID:                    principal.OrgID,
			ProductName:              req.ProductName,
			UnitPrice:                req.UnitPrice,
			Quantity:                 req.Quantity,
			Unit:                     req.Unit,
			Category:                 req.Category,
			SubCategory:              req.SubCategory,
			Tags:                     req.Tags,
			Tax:                      req.Tax,
			IsConsumerReturnable:     req.IsConsumerReturnable,
			ConsumerReturnConditions: req.ConsumerReturnConditions,
			IsSellerReturnable:       req.IsSellerReturnable,
			SellerReturnConditions:   req.SellerReturnConditions,
			HasWarranty:              req.HasWarranty,
			WarrantyTenure:           req.WarrantyTenure,
			WarrantyUnit:             req.WarrantyUnit,
			LastUpdated:              time.Now(),
		}
		if err := s.productRepo.Create(txCtx, &created); err != nil {
			return apperror.Internal("failed to create product", err)
		}

		if created.Quantity > 0 {
			movement := model.StockMovement{
				ProductID:       created.ProductID,
				StoreID:         principal.StoreID,
				Reference:       created.ProductID,
				MovementType:    model.MovementIn,
				QuantityChanged: created.Quantity,
				StockAfter:      created.Quantity,
			}
			if err := s.movementRepo.Create(txCtx, &movement); err != nil {
				return apperror.Internal("failed to record stock movement", err)
			}
		}

		return s.audit(txCtx, principal, model.ActionCreateProduct, created.ProductID, created.ProductName, req)
	})
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(created), nil
}

func (s *productService) GetProduct(ctx context.Context, principal middleware.Principal, productID string) (ProductResponse, error) {
	product, err := s.productRepo.FindByProductID(ctx, principal.StoreID, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ProductResponse{}, apperror.NotFound("ProductNotFound")
		}
		return ProductResponse{}, apperror.Internal("failed to load product", err)
	}
	return toProductResponse(*product), nil
}

func (s *productService) ListProducts(ctx context.Context, principal middleware.Principal, page, limit int) ([]ProductResponse, int64, error) {
	products, total, err := s.productRepo.List(ctx, principal.StoreID, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list products", err)
	}
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}
	return responses, total, nil
}

func (s *productService) UpdateProduct(ctx context.Context, principal middleware.Principal, productID string, req UpdateProductRequest) (ProductResponse, error) {
	if req.UnitPrice != nil {
		if err := validatePrice(*req.UnitPrice); err != nil {
			return ProductResponse{}, err
		}
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return ProductResponse{}, apperror.Validation("quantity cannot be negative")
	}

	var updated model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.productRepo.FindByProductIDForUpdate(txCtx, principal.StoreID, productID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperror.NotFound("ProductNotFound")
			}
			return apperror.Internal("failed to load product", err)
		}

		fields := buildProductPatch(req)
		if len(fields) == 0 {
			updated = *current
			return nil
		}
		fields["last_updated"] = time.Now()

		if _, err := s.productRepo.UpdateFields(txCtx, principal.StoreID, productID, fields); err != nil {
			return apperror.Internal("failed to update product", err)
		}

		if req.Quantity != nil && *req.Quantity != current.Quantity {
			movement := model.StockMovement{
				ProductID:       productID,
				StoreID:         principal.StoreID,
				Reference:       productID,
				MovementType:    model.MovementIn,
				QuantityChanged: *req.Quantity - current.Quantity,
				StockAfter:      *req.Quantity,
			}
			if *req.Quantity < current.Quantity {
				movement.MovementType = model.MovementOut
			}
			if err := s.movementRepo.Create(txCtx, &movement); err != nil {
				return apperror.Internal("failed to record stock movement", err)
			}
		}

		reloaded, err := s.productRepo.FindByProductID(txCtx, principal.StoreID, productID)
		if err != nil {
			return apperror.Internal("failed to reload product", err)
		}
		updated = *reloaded

		return s.audit(txCtx, principal, model.ActionUpdateProduct, productID, updated.ProductName, req)
	})
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(updated), nil
}

func (s *productService) DeleteProduct(ctx context.Context, principal middleware.Principal, productID string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rows, err := s.productRepo.Delete(txCtx, principal.StoreID, productID)
		if err != nil {
			return apperror.Internal("failed to delete product", err)
		}
		if rows == 0 {
			return apperror.NotFound("ProductNotFound")
		}
		return s.audit(txCtx, principal, model.ActionDeleteProduct, productID, "", nil)
	})
}

func (s *productService) ListMovements(ctx context.Context, principal middleware.Principal, productID string) ([]model.StockMovement, error) {
	movements, err := s.movementRepo.ListByProduct(ctx, principal.StoreID, productID)
	if err != nil {
		return nil, apperror.Internal("failed to list stock movements", err)
	}
	return movements, nil
}

// --- helpers ---

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{Product: p, StockStatus: p.StockStatus()}
}

func validatePrice(raw string) error {
	if _, err := parsePrice(raw); err != nil {
		return apperror.Validation("unit_price must be a valid decimal number")
	}
	return nil
}

func buildProductPatch(req UpdateProductRequest) map[string]interface{} {
	fields := map[string]interface{}{}
	if req.ProductName != nil {
		fields["product_name"] = *req.ProductName
	}
	if req.UnitPrice != nil {
		fields["unit_price"] = *req.UnitPrice
	}
	if req.Quantity != nil {
		fields["quantity"] = *req.Quantity
	}
	if req.Unit != nil {
		fields["unit"] = *req.Unit
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.SubCategory != nil {
		fields["sub_category"] = *req.SubCategory
	}
	if req.Tags != nil {
		fields["tags"] = model.StringList(*req.Tags)
	}
	if req.Tax != nil {
		fields["tax"] = *req.Tax
	}
	if req.IsConsumerReturnable != nil {
		fields["is_consumer_returnable"] = *req.IsConsumerReturnable
	}
	if req.ConsumerReturnConditions != nil {
		fields["consumer_return_conditions"] = model.StringList(*req.ConsumerReturnConditions)
	}
	if req.IsSellerReturnable != nil {
		fields["is_seller_returnable"] = *req.IsSellerReturnable
	}
	if req.SellerReturnConditions != nil {
		fields["seller_return_conditions"] = model.StringList(*req.SellerReturnConditions)
	}
	if req.HasWarranty != nil {
		fields["has_warranty"] = *req.HasWarranty
	}
	if req.WarrantyTenure != nil {
		fields["warranty_tenure"] = *req.WarrantyTenure
	}
	if req.WarrantyUnit != nil {
		fields["warranty_unit"] = *req.WarrantyUnit
	}
	return fields
}

func (s *productService) audit(ctx context.Context, principal middleware.Principal, action, entityID, entityName string, payload interface{}) error {
	entry := auditEntry(principal, action, entityID, entityName, payload)
	return s.auditRepo.Log(ctx, &entry)
}
