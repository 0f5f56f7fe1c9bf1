package service

import (
	"context"
	"time"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/internal/repository"
	"github.com/mansij47/Optiven-Backend/internal/websocket"
	"github.com/mansij47/Optiven-Backend/pkg/apperror"
	"github.com/mansij47/Optiven-Backend/pkg/sequence"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type OrderLineRequest struct {
	ProductID     string `json:"product_id" binding:"required"`
	OrderQuantity int    `json:"order_quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerEmail   string             `json:"customer_email"`
	OrderDate       string             `json:"order_date"`    // YYYY-MM-DD, defaults to today
	DeliveryDate    string             `json:"delivery_date"` // YYYY-MM-DD
	DeliveryAddress string             `json:"delivery_address"`
	GSTNumber       string             `json:"gst_number"`
	Products        []OrderLineRequest `json:"products" binding:"required,min=1,dive"`
}

// EditOrderRequest patches an order. Every existing line survives the edit:
// lines named in products take the new quantity, omitted lines keep their
// current one, and all of them are re-priced against live inventory.
type EditOrderRequest struct {
	CustomerName    *string            `json:"customer_name"`
	CustomerPhone   *string            `json:"customer_phone"`
	CustomerEmail   *string            `json:"customer_email"`
	DeliveryDate    *string            `json:"delivery_date"`
	DeliveryAddress *string            `json:"delivery_address"`
	GSTNumber       *string            `json:"gst_number"`
	Products        []OrderLineRequest `json:"products" binding:"omitempty,dive"`
}

type RaiseRequestRequest struct {
	OrderID      string `json:"order_id" binding:"required"`
	ProductID    string `json:"product_id" binding:"required"`
	EstimateDate string `json:"estimate_date"`
}

// OrderResponse is the order row plus the display form of its status. Line
// product_status fields are refreshed from live inventory before returning.
type OrderResponse struct {
	model.SalesOrder
	OrderStatusLabel string `json:"order_status_text"`
}

// --- Interface ---

type OrderService interface {
	CreateOrder(ctx context.Context, principal middleware.Principal, req CreateOrderRequest) (OrderResponse, error)
	ListReceived(ctx context.Context, principal middleware.Principal, page, limit int) ([]OrderResponse, int64, error)
	ListSold(ctx context.Context, principal middleware.Principal, page, limit int) ([]OrderResponse, int64, error)
	GetOrder(ctx context.Context, principal middleware.Principal, orderID string) (OrderResponse, error)
	EditOrder(ctx context.Context, principal middleware.Principal, orderID string, req EditOrderRequest) (OrderResponse, error)
	SellOrder(ctx context.Context, principal middleware.Principal, orderID string) (OrderResponse, error)
	DeleteOrder(ctx context.Context, principal middleware.Principal, orderID string) error
	RaiseRequest(ctx context.Context, principal middleware.Principal, req RaiseRequestRequest) (model.RequestedOrder, error)
}

type orderService struct {
	orderRepo     repository.SalesOrderRepository
	productRepo   repository.ProductRepository
	requestedRepo repository.RequestedOrderRepository
	movementRepo  repository.StockMovementRepository
	seqRepo       repository.SequenceRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           *websocket.Hub
}

func NewOrderService(
	orderRepo repository.SalesOrderRepository,
	productRepo repository.ProductRepository,
	requestedRepo repository.RequestedOrderRepository,
	movementRepo repository.StockMovementRepository,
	seqRepo repository.SequenceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		requestedRepo: requestedRepo,
		movementRepo:  movementRepo,
		seqRepo:       seqRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

// --- Implementation ---

// CreateOrder prices every requested line against current inventory and
// persists the order in Received state. Inventory is not touched here; stock
// is only consumed when the order is sold.
func (s *orderService) CreateOrder(ctx context.Context, principal middleware.Principal, req CreateOrderRequest) (OrderResponse, error) {
	var created model.SalesOrder
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		lines, total, err := s.priceLines(txCtx, principal.StoreID, req.Products)
		if err != nil {
			return err
		}

		lastOrder, err := s.seqRepo.LastID(txCtx, "sales_orders", "order_id", sequence.PrefixOrder, "")
		if err != nil {
			return apperror.Internal("failed to derive order id", err)
		}
		lastCustomer, err := s.seqRepo.LastID(txCtx, "sales_orders", "customer_id", sequence.PrefixCustomer, "")
		if err != nil {
			return apperror.Internal("failed to derive customer id", err)
		}

		created = model.SalesOrder{
			OrderID:         sequence.Next(lastOrder, sequence.PrefixOrder),
			CustomerID:      sequence.Next(lastCustomer, sequence.PrefixCustomer),
			StoreID:         principal.StoreID,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			OrderDate:       parseDateOr(req.OrderDate, time.Now()),
			DeliveryDate:    parseDateOr(req.DeliveryDate, time.Time{}),
			DeliveryAddress: req.DeliveryAddress,
			GSTNumber:       req.GSTNumber,
			Lines:           lines,
			TotalOrderPrice: total,
			OrderStatus:     model.OrderStatusReceived,
		}
		if err := s.orderRepo.Create(txCtx, &created); err != nil {
			return apperror.Internal("failed to create order", err)
		}

		entry := auditEntry(principal, model.ActionCreateSalesOrder, created.OrderID, created.CustomerName, req)
		return s.auditRepo.Log(txCtx, &entry)
	})
	if err != nil {
		return OrderResponse{}, err
	}
	return s.toOrderResponse(ctx, principal.StoreID, created), nil
}

func (s *orderService) ListReceived(ctx context.Context, principal middleware.Principal, page, limit int) ([]OrderResponse, int64, error) {
	return s.listByStatus(ctx, principal, model.OrderStatusReceived, page, limit)
}

func (s *orderService) ListSold(ctx context.Context, principal middleware.Principal, page, limit int) ([]OrderResponse, int64, error) {
	return s.listByStatus(ctx, principal, model.OrderStatusSold, page, limit)
}

func (s *orderService) listByStatus(ctx context.Context, principal middleware.Principal, status string, page, limit int) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.ListByStatus(ctx, principal.StoreID, status, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list orders", err)
	}
	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, s.toOrderResponse(ctx, principal.StoreID, order))
	}
	return responses, total, nil
}

func (s *orderService) GetOrder(ctx context.Context, principal middleware.Principal, orderID string) (OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, principal.StoreID, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return OrderResponse{}, apperror.NotFound("OrderNotFound")
		}
		return OrderResponse{}, apperror.Internal("failed to load order", err)
	}
	return s.toOrderResponse(ctx, principal.StoreID, *order), nil
}

// EditOrder rebuilds every existing line against current inventory price/tax,
// taking quantities from the request where given and keeping the current ones
// otherwise. Products in the payload that are not on the order are ignored.
func (s *orderService) EditOrder(ctx context.Context, principal middleware.Principal, orderID string, req EditOrderRequest) (OrderResponse, error) {
	var updated model.SalesOrder
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByOrderID(txCtx, principal.StoreID, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperror.NotFound("OrderNotFound")
			}
			return apperror.Internal("failed to load order", err)
		}
		if order.OrderStatus != model.OrderStatusReceived {
			return apperror.InvalidState("only received orders can be edited")
		}

		lines, total, err := s.priceLines(txCtx, principal.StoreID, mergeLineQuantities(order.Lines, req.Products))
		if err != nil {
			return err
		}

		applyCustomerPatch(order, req)
		order.TotalOrderPrice = total
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return apperror.Internal("failed to save order", err)
		}
		if err := s.orderRepo.ReplaceLines(txCtx, order.ID, lines); err != nil {
			return apperror.Internal("failed to replace order lines", err)
		}
		order.Lines = lines
		updated = *order

		entry := auditEntry(principal, model.ActionEditSalesOrder, orderID, order.CustomerName, req)
		return s.auditRepo.Log(txCtx, &entry)
	})
	if err != nil {
		return OrderResponse{}, err
	}
	return s.toOrderResponse(ctx, principal.StoreID, updated), nil
}

// SellOrder transitions Received -> Sold and consumes inventory for each line,
// clamped so stock never goes negative. Re-invoking on a sold or absent order
// fails with OrderNotFoundOrAlreadySold instead of double-decrementing.
func (s *orderService) SellOrder(ctx context.Context, principal middleware.Principal, orderID string) (OrderResponse, error) {
	var sold model.SalesOrder
	var events []websocket.StockEvent
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rows, err := s.orderRepo.MarkSold(txCtx, principal.StoreID, orderID)
		if err != nil {
			return apperror.Internal("failed to mark order sold", err)
		}
		if rows == 0 {
			return apperror.InvalidState("OrderNotFoundOrAlreadySold")
		}

		order, err := s.orderRepo.FindByOrderID(txCtx, principal.StoreID, orderID)
		if err != nil {
			return apperror.Internal("failed to load order", err)
		}

		for _, line := range order.Lines {
			product, err := s.productRepo.FindByProductIDForUpdate(txCtx, principal.StoreID, line.ProductID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					// Line references a product deleted since pricing; nothing to consume.
					continue
				}
				return apperror.Internal("failed to lock product", err)
			}

			newQuantity := product.Quantity - line.OrderQuantity
			if newQuantity < 0 {
				newQuantity = 0
			}
			if err := s.productRepo.UpdateQuantity(txCtx, principal.StoreID, line.ProductID, newQuantity); err != nil {
				return apperror.Internal("failed to decrement stock", err)
			}

			movement := model.StockMovement{
				ProductID:       line.ProductID,
				StoreID:         principal.StoreID,
				Reference:       orderID,
				MovementType:    model.MovementOut,
				QuantityChanged: newQuantity - product.Quantity,
				StockAfter:      newQuantity,
			}
			if err := s.movementRepo.Create(txCtx, &movement); err != nil {
				return apperror.Internal("failed to record stock movement", err)
			}

			events = append(events, websocket.StockEvent{
				Event:     "stock_decremented",
				StoreID:   principal.StoreID,
				ProductID: line.ProductID,
				Quantity:  newQuantity,
				Status:    stockStatusFor(newQuantity),
			})
		}

		sold = *order
		sold.OrderStatus = model.OrderStatusSold

		entry := auditEntry(principal, model.ActionSellOrder, orderID, order.CustomerName, nil)
		return s.auditRepo.Log(txCtx, &entry)
	})
	if err != nil {
		return OrderResponse{}, err
	}
	// Broadcast only after the transaction committed.
	if s.hub != nil {
		for _, event := range events {
			s.hub.BroadcastStockEvent(event)
		}
	}
	return s.toOrderResponse(ctx, principal.StoreID, sold), nil
}

func (s *orderService) DeleteOrder(ctx context.Context, principal middleware.Principal, orderID string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rows, err := s.orderRepo.Delete(txCtx, principal.StoreID, orderID)
		if err != nil {
			return apperror.Internal("failed to delete order", err)
		}
		if rows == 0 {
			return apperror.NotFound("OrderNotFound")
		}
		entry := auditEntry(principal, model.ActionDeleteSalesOrder, orderID, "", nil)
		return s.auditRepo.Log(txCtx, &entry)
	})
}

// RaiseRequest creates a procurement request for the shortfall between an
// ordered quantity and the on-hand stock.
func (s *orderService) RaiseRequest(ctx context.Context, principal middleware.Principal, req RaiseRequestRequest) (model.RequestedOrder, error) {
	var created model.RequestedOrder
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByOrderID(txCtx, principal.StoreID, req.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperror.NotFound("OrderNotFound")
			}
			return apperror.Internal("failed to load order", err)
		}

		var line *model.SalesOrderLine
		for i := range order.Lines {
			if order.Lines[i].ProductID == req.ProductID {
				line = &order.Lines[i]
				break
			}
		}
		if line == nil {
			return apperror.NotFound("product not present on order")
		}

		product, err := s.productRepo.FindByProductID(txCtx, principal.StoreID, req.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperror.NotFound("ProductNotFound")
			}
			return apperror.Internal("failed to load product", err)
		}

		shortfall := line.OrderQuantity - product.Quantity
		if shortfall <= 0 {
			return apperror.Validation("ordered quantity is covered by current stock")
		}

		last, err := s.seqRepo.LastID(txCtx, "requested_orders", "request_id", sequence.PrefixRequest, principal.StoreID)
		if err != nil {
			return apperror.Internal("failed to derive request id", err)
		}

		created = model.RequestedOrder{
			RequestID:        sequence.Next(last, sequence.PrefixRequest),
			OrgID:            principal.OrgID,
			StoreID:          principal.StoreID,
			ProductName:      product.ProductName,
			Quantity:         shortfall,
			Unit:             product.Unit,
			Category:         product.Category,
			EstimateDate:     req.EstimateDate,
			RequestedByID:    principal.ID,
			RequestedByEmail: principal.Email,
			Status:           "pending",
		}
		if err := s.requestedRepo.Create(txCtx, &created); err != nil {
			return apperror.Internal("failed to create requested order", err)
		}

		entry := auditEntry(principal, model.ActionRaiseRequest, created.RequestID, product.ProductName, req)
		return s.auditRepo.Log(txCtx, &entry)
	})
	if err != nil {
		return model.RequestedOrder{}, err
	}
	return created, nil
}

// --- helpers ---

// priceLines loads each referenced product and prices the line against its
// current unit_price/tax. The order total is rounded once, here.
func (s *orderService) priceLines(ctx context.Context, storeID string, requests []OrderLineRequest) ([]model.SalesOrderLine, decimal.Decimal, error) {
	lines := make([]model.SalesOrderLine, 0, len(requests))
	sum := decimal.Zero
	for _, lr := range requests {
		product, err := s.productRepo.FindByProductID(ctx, storeID, lr.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, decimal.Zero, apperror.NotFound("ProductNotFound: " + lr.ProductID)
			}
			return nil, decimal.Zero, apperror.Internal("failed to load product", err)
		}
		line, lineWithTax, err := priceLine(product, lr.OrderQuantity)
		if err != nil {
			return nil, decimal.Zero, err
		}
		lines = append(lines, line)
		sum = sum.Add(lineWithTax)
	}
	return lines, orderTotal(sum), nil
}

// toOrderResponse refreshes each line's derived stock flag from live inventory.
func (s *orderService) toOrderResponse(ctx context.Context, storeID string, order model.SalesOrder) OrderResponse {
	for i := range order.Lines {
		inventoryQuantity := 0
		if product, err := s.productRepo.FindByProductID(ctx, storeID, order.Lines[i].ProductID); err == nil {
			inventoryQuantity = product.Quantity
		}
		order.Lines[i].ProductStatus = lineStockStatus(inventoryQuantity, order.Lines[i].OrderQuantity)
	}
	return OrderResponse{
		SalesOrder:       order,
		OrderStatusLabel: model.OrderStatusText(order.OrderStatus),
	}
}

// mergeLineQuantities folds requested quantity changes onto the order's
// existing line set. Lines absent from the request keep their quantity.
func mergeLineQuantities(existing []model.SalesOrderLine, updates []OrderLineRequest) []OrderLineRequest {
	requested := make(map[string]int, len(updates))
	for _, update := range updates {
		requested[update.ProductID] = update.OrderQuantity
	}
	merged := make([]OrderLineRequest, 0, len(existing))
	for _, line := range existing {
		quantity := line.OrderQuantity
		if q, ok := requested[line.ProductID]; ok {
			quantity = q
		}
		merged = append(merged, OrderLineRequest{ProductID: line.ProductID, OrderQuantity: quantity})
	}
	return merged
}

func applyCustomerPatch(order *model.SalesOrder, req EditOrderRequest) {
	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		order.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		order.CustomerEmail = *req.CustomerEmail
	}
	if req.DeliveryDate != nil {
		order.DeliveryDate = parseDateOr(*req.DeliveryDate, order.DeliveryDate)
	}
	if req.DeliveryAddress != nil {
		order.DeliveryAddress = *req.DeliveryAddress
	}
	if req.GSTNumber != nil {
		order.GSTNumber = *req.GSTNumber
	}
}

func parseDateOr(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed
	}
	return fallback
}

func stockStatusFor(quantity int) string {
	if quantity > 0 {
		return model.StockIn
	}
	return model.StockOut
}
