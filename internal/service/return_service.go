package service

import (
	"context"
	"time"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/internal/repository"
	"github.com/mansij47/Optiven-Backend/pkg/apperror"
	"github.com/mansij47/Optiven-Backend/pkg/sequence"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type ReturnLineRequest struct {
	ProductID      string `json:"product_id" binding:"required"`
	ReturnQuantity int    `json:"return_quantity" binding:"required,gt=0"`
}

type CreateReturnRequest struct {
	OrderID    string              `json:"order_id" binding:"required"`
	Reason     string              `json:"reason" binding:"required"`
	Remarks    string              `json:"remarks"`
	ReturnDate string              `json:"return_date"` // YYYY-MM-DD, defaults to today
	Products   []ReturnLineRequest `json:"products" binding:"required,min=1,dive"`
}

// CreateReturnResponse reports what was accepted and what was silently
// skipped for ineligibility, plus the sales-order side effect.
type CreateReturnResponse struct {
	ReturnID        string   `json:"return_id"`
	ReturnedAmount  string   `json:"returned_amount"`
	SkippedProducts []string `json:"skipped_products"`
	OrderDeleted    bool     `json:"order_deleted"`
}

// --- Interface ---

type ReturnService interface {
	CreateReturn(ctx context.Context, principal middleware.Principal, req CreateReturnRequest) (CreateReturnResponse, error)
	ListReturns(ctx context.Context, principal middleware.Principal) ([]model.ReturnOrder, error)
	GetReturn(ctx context.Context, principal middleware.Principal, returnID string) (*model.ReturnOrder, error)
	DeleteReturn(ctx context.Context, principal middleware.Principal, returnID string) error
	MarkSentToProcurement(ctx context.Context, principal middleware.Principal, returnID string) error
}

type returnService struct {
	returnRepo  repository.ReturnOrderRepository
	orderRepo   repository.SalesOrderRepository
	productRepo repository.ProductRepository
	seqRepo     repository.SequenceRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewReturnService(
	returnRepo repository.ReturnOrderRepository,
	orderRepo repository.SalesOrderRepository,
	productRepo repository.ProductRepository,
	seqRepo repository.SequenceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ReturnService {
	return &returnService{
		returnRepo:  returnRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		seqRepo:     seqRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

// CreateReturn validates a customer return against a sold order. Each line is
// eligible only when the product is consumer-returnable and the stated reason
// appears in its consumer_return_conditions; ineligible lines are skipped and
// reported, not rejected. Eligible lines trim the original sales order's
// remaining quantities; when nothing remains the order is deleted.
func (s *returnService) CreateReturn(ctx context.Context, principal middleware.Principal, req CreateReturnRequest) (CreateReturnResponse, error) {
	var result CreateReturnResponse
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByOrderIDAndStatus(txCtx, principal.StoreID, req.OrderID, model.OrderStatusSold)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperror.InvalidState("OnlyFulfilledOrdersReturnable")
			}
			return apperror.Internal("failed to load order", err)
		}

		enriched := make([]model.ReturnOrderLine, 0, len(req.Products))
		skipped := make([]string, 0)
		totalReturned := decimal.Zero
		remaining := make([]model.SalesOrderLine, 0, len(order.Lines))
		consumed := map[string]int{}

		for _, lr := range req.Products {
			line := findOrderLine(order.Lines, lr.ProductID)
			if line == nil {
				skipped = append(skipped, lr.ProductID)
				continue
			}
			product, err := s.productRepo.FindByProductID(txCtx, principal.StoreID, lr.ProductID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					skipped = append(skipped, lr.ProductID)
					continue
				}
				return apperror.Internal("failed to load product", err)
			}
			if !product.IsConsumerReturnable || !product.ConsumerReturnConditions.Contains(req.Reason) {
				skipped = append(skipped, lr.ProductID)
				continue
			}

			enriched = append(enriched, model.ReturnOrderLine{
				ProductID:                product.ProductID,
				ProductName:              product.ProductName,
				ReturnQuantity:           lr.ReturnQuantity,
				UnitPrice:                line.UnitPrice,
				Tax:                      line.Tax,
				IsCustomerReturnable:     product.IsConsumerReturnable,
				ConsumerReturnConditions: product.ConsumerReturnConditions,
				IsSellerReturnable:       product.IsSellerReturnable,
				SellerReturnConditions:   product.SellerReturnConditions,
				Category:                 product.Category,
				SubCategory:              product.SubCategory,
				Unit:                     product.Unit,
			})
			totalReturned = totalReturned.Add(returnedAmount(line.UnitPrice, line.Tax, lr.ReturnQuantity))
			consumed[lr.ProductID] = lr.ReturnQuantity
		}

		if len(enriched) == 0 {
			return apperror.Validation("no products on this order are eligible for return")
		}

		// Trim the sales order: a fully-returned line disappears, a partial
		// return reduces the remaining quantity. Total is left untouched.
		for _, line := range order.Lines {
			returnedQty, ok := consumed[line.ProductID]
			if !ok {
				remaining = append(remaining, line)
				continue
			}
			if returnedQty >= line.OrderQuantity {
				continue
			}
			line.OrderQuantity -= returnedQty
			remaining = append(remaining, line)
		}

		last, err := s.seqRepo.LastID(txCtx, "return_orders", "return_id", sequence.PrefixReturn, "")
		if err != nil {
			return apperror.Internal("failed to derive return id", err)
		}

		returnDate := req.ReturnDate
		if returnDate == "" {
			returnDate = time.Now().Format("2006-01-02")
		}

		returnOrder := model.ReturnOrder{
			ReturnID:       sequence.Next(last, sequence.PrefixReturn),
			OrderID:        order.OrderID,
			CustomerID:     order.CustomerID,
			CustomerName:   order.CustomerName,
			PhoneNo:        order.CustomerPhone,
			Email:          order.CustomerEmail,
			Lines:          enriched,
			ReturnDate:     returnDate,
			Remarks:        req.Remarks,
			Reason:         req.Reason,
			ReturnedAmount: totalReturned.Round(2),
			StoreID:        principal.StoreID,
			OrgID:          principal.OrgID,
		}
		if err := s.returnRepo.Create(txCtx, &returnOrder); err != nil {
			return apperror.Internal("failed to create return order", err)
		}

		if len(remaining) == 0 {
			if _, err := s.orderRepo.Delete(txCtx, principal.StoreID, order.OrderID); err != nil {
				return apperror.Internal("failed to delete fully-returned order", err)
			}
			result.OrderDeleted = true
		} else if err := s.orderRepo.ReplaceLines(txCtx, order.ID, remaining); err != nil {
			return apperror.Internal("failed to trim order lines", err)
		}

		result.ReturnID = returnOrder.ReturnID
		result.ReturnedAmount = returnOrder.ReturnedAmount.StringFixed(2)
		result.SkippedProducts = skipped

		entry := auditEntry(principal, model.ActionCreateReturn, returnOrder.ReturnID, order.CustomerName, req)
		return s.auditRepo.Log(txCtx, &entry)
	})
	if err != nil {
		return CreateReturnResponse{}, err
	}
	return result, nil
}

// ListReturns shows the returns still with sales (not yet sent to procurement).
func (s *returnService) ListReturns(ctx context.Context, principal middleware.Principal) ([]model.ReturnOrder, error) {
	withSales := model.ReturnWithSales
	returns, err := s.returnRepo.List(ctx, principal.StoreID, &withSales)
	if err != nil {
		return nil, apperror.Internal("failed to list return orders", err)
	}
	return returns, nil
}

func (s *returnService) GetReturn(ctx context.Context, principal middleware.Principal, returnID string) (*model.ReturnOrder, error) {
	returnOrder, err := s.returnRepo.FindByReturnID(ctx, principal.StoreID, returnID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("ReturnOrderNotFound")
		}
		return nil, apperror.Internal("failed to load return order", err)
	}
	return returnOrder, nil
}

func (s *returnService) DeleteReturn(ctx context.Context, principal middleware.Principal, returnID string) error {
	rows, err := s.returnRepo.Delete(ctx, principal.StoreID, returnID)
	if err != nil {
		return apperror.Internal("failed to delete return order", err)
	}
	if rows == 0 {
		return apperror.NotFound("ReturnOrderNotFound")
	}
	return nil
}

// MarkSentToProcurement flips the one-way visibility flag. After this the
// return disappears from sales views and shows up for procurement validation.
func (s *returnService) MarkSentToProcurement(ctx context.Context, principal middleware.Principal, returnID string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rows, err := s.returnRepo.MarkSentToProcurement(txCtx, principal.StoreID, returnID)
		if err != nil {
			return apperror.Internal("failed to flag return order", err)
		}
		if rows == 0 {
			return apperror.NotFound("ReturnOrderNotFound")
		}
		entry := auditEntry(principal, model.ActionSendToProcurement, returnID, "", nil)
		return s.auditRepo.Log(txCtx, &entry)
	})
}

func findOrderLine(lines []model.SalesOrderLine, productID string) *model.SalesOrderLine {
	for i := range lines {
		if lines[i].ProductID == productID {
			return &lines[i]
		}
	}
	return nil
}
