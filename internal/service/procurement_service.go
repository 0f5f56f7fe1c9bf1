package service

import (
	"context"
	"strings"
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

// Disposition destinations for a validated return or delivery.
const (
	DispositionVendorReturn = "return_to_vendor"
	DispositionLoss         = "loss"
	DispositionInventory    = "inventory"
)

// Reason string that routes a return toward vendor-return or loss.
const reasonProductDamage = "Product Damage"

// Fixed loss reason for damaged, non-returnable stock.
const lossReasonDamaged = "Damaged and not returnable"

// Fixed product condition stamped on every vendor-return record.
const vendorReturnCondition = "Damaged and returnable"

// --- DTOs ---

type ValidateReturnOrderRequest struct {
	ReturnID string `json:"return_id" binding:"required"`
}

// DispositionResponse names the destination that received the record.
type DispositionResponse struct {
	ReturnID    string `json:"return_id"`
	Disposition string `json:"disposition"`
	RecordID    string `json:"record_id,omitempty"`
}

type ValidatePurchaseOrderRequest struct {
	OrderID          string   `json:"order_id" binding:"required"`
	ProductName      string   `json:"product_name" binding:"required"`
	Category         string   `json:"category"`
	SubCategory      string   `json:"sub_category"`
	Unit             string   `json:"unit"`
	ExpectedQuantity int      `json:"expected_quantity" binding:"required,gt=0"`
	ReceivedQuantity int      `json:"received_quantity" binding:"gte=0"`
	IsDamaged        bool     `json:"is_damaged"`
	IsReturnable     bool     `json:"is_returnable"`
	ReturnConditions []string `json:"return_conditions"`
	UnitPrice        string   `json:"unit_price" binding:"required"`
	Tax              float64  `json:"tax"`
	ContractID       string   `json:"contract_id"`
	Supplier         string   `json:"supplier"`
	Tags             []string `json:"tags"`
	HasWarranty      bool     `json:"has_warranty"`
	WarrantyTenure   int      `json:"warranty_tenure"`
	WarrantyUnit     string   `json:"warranty_unit"`
}

type ValidatePurchaseOrderResponse struct {
	OrderID     string `json:"order_id"`
	Disposition string `json:"disposition"`
	RecordID    string `json:"record_id,omitempty"`
}

// PurchaseOrderResponse exposes the numeric status columns in their display form.
type PurchaseOrderResponse struct {
	model.PurchaseOrder
	ReceivedStatus   string `json:"received_status"`
	ValidationStatus string `json:"validation_status"`
}

type VendorReturnResponse struct {
	model.ReturnToVendor
	StatusLabel string `json:"status_text"`
}

// LossMetrics aggregates write-off value across categories for reporting.
type LossMetrics struct {
	TotalLossValue       string            `json:"total_loss_value"`
	LossByCategory       map[string]string `json:"loss_by_category"`
	MostAffectedCategory string            `json:"most_affected_category"`
	MostAffectedPercent  string            `json:"most_affected_percent"`
}

type LossOrdersResponse struct {
	Losses  []model.LossOrder `json:"losses"`
	Metrics LossMetrics       `json:"metrics"`
}

type CreateContractRequest struct {
	RequestID        string   `json:"request_id"`
	VendorName       string   `json:"vendor_name" binding:"required"`
	VendorEmail      string   `json:"vendor_email"`
	Phone            string   `json:"phone"`
	Address          string   `json:"address"`
	Pincode          string   `json:"pincode"`
	BusinessType     string   `json:"business_type"`
	UnitPrice        string   `json:"unit_price" binding:"required"`
	GSTNumber        string   `json:"gst_number"`
	Tax              float64  `json:"tax"`
	ProductName      string   `json:"product_name" binding:"required"`
	Quantity         int      `json:"quantity" binding:"required,gt=0"`
	Unit             string   `json:"unit"`
	Category         string   `json:"category"`
	SubCategory      string   `json:"sub_category"`
	Tags             []string `json:"tags"`
	WarrantyTenure   int      `json:"warranty_tenure"`
	WarrantyUnit     string   `json:"warranty_unit"`
	DateOfDelivery   string   `json:"date_of_delivery"`
	Returnable       bool     `json:"returnable"`
	ReturnConditions []string `json:"return_conditions"`
}

// --- Interface ---

type ProcurementService interface {
	ListSentReturns(ctx context.Context, principal middleware.Principal) ([]model.ReturnOrder, error)
	GetSentReturn(ctx context.Context, principal middleware.Principal, returnID string) (*model.ReturnOrder, error)
	ValidateReturnOrder(ctx context.Context, principal middleware.Principal, req ValidateReturnOrderRequest) (DispositionResponse, error)

	ListPurchaseOrders(ctx context.Context, principal middleware.Principal) ([]PurchaseOrderResponse, error)
	MarkPurchaseOrderReceived(ctx context.Context, principal middleware.Principal, orderID string) error
	ValidatePurchaseOrder(ctx context.Context, principal middleware.Principal, req ValidatePurchaseOrderRequest) (ValidatePurchaseOrderResponse, error)

	ListVendorReturns(ctx context.Context, principal middleware.Principal) ([]VendorReturnResponse, error)
	GetVendorReturn(ctx context.Context, principal middleware.Principal, returnID string) (VendorReturnResponse, error)
	ListRequestedOrders(ctx context.Context, principal middleware.Principal) ([]model.RequestedOrder, error)
	ListLossOrders(ctx context.Context, principal middleware.Principal) (LossOrdersResponse, error)

	CreateContract(ctx context.Context, principal middleware.Principal, req CreateContractRequest) (model.Contract, error)
	ListContracts(ctx context.Context, principal middleware.Principal) ([]model.Contract, error)
}

type procurementService struct {
	returnRepo       repository.ReturnOrderRepository
	productRepo      repository.ProductRepository
	vendorReturnRepo repository.VendorReturnRepository
	lossRepo         repository.LossOrderRepository
	purchaseRepo     repository.PurchaseOrderRepository
	requestedRepo    repository.RequestedOrderRepository
	contractRepo     repository.ContractRepository
	movementRepo     repository.StockMovementRepository
	seqRepo          repository.SequenceRepository
	auditRepo        repository.AuditRepository
	txManager        repository.TransactionManager
	hub              *websocket.Hub
}

func NewProcurementService(
	returnRepo repository.ReturnOrderRepository,
	productRepo repository.ProductRepository,
	vendorReturnRepo repository.VendorReturnRepository,
	lossRepo repository.LossOrderRepository,
	purchaseRepo repository.PurchaseOrderRepository,
	requestedRepo repository.RequestedOrderRepository,
	contractRepo repository.ContractRepository,
	movementRepo repository.StockMovementRepository,
	seqRepo repository.SequenceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) ProcurementService {
	return &procurementService{
		returnRepo:       returnRepo,
		productRepo:      productRepo,
		vendorReturnRepo: vendorReturnRepo,
		lossRepo:         lossRepo,
		purchaseRepo:     purchaseRepo,
		requestedRepo:    requestedRepo,
		contractRepo:     contractRepo,
		movementRepo:     movementRepo,
		seqRepo:          seqRepo,
		auditRepo:        auditRepo,
		txManager:        txManager,
		hub:              hub,
	}
}

// --- Implementation ---

// ListSentReturns shows only returns flagged sent_to_procurement.
func (s *procurementService) ListSentReturns(ctx context.Context, principal middleware.Principal) ([]model.ReturnOrder, error) {
	sent := model.ReturnWithProcurement
	returns, err := s.returnRepo.List(ctx, principal.StoreID, &sent)
	if err != nil {
		return nil, apperror.Internal("failed to list return orders", err)
	}
	return returns, nil
}

func (s *procurementService) GetSentReturn(ctx context.Context, principal middleware.Principal, returnID string) (*model.ReturnOrder, error) {
	returnOrder, err := s.returnRepo.FindByReturnID(ctx, principal.StoreID, returnID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("ReturnOrderNotFound")
		}
		return nil, apperror.Internal("failed to load return order", err)
	}
	if returnOrder.SentToProcurement != model.ReturnWithProcurement {
		return nil, apperror.NotFound("ReturnOrderNotFound")
	}
	return returnOrder, nil
}

// ValidateReturnOrder routes a validated return into exactly one destination
// based on its reason and the first line's seller-returnability, then deletes
// the source return. Re-invoking after deletion yields ReturnOrderNotFound.
// Only the first product line of a multi-line return is dispositioned.
func (s *procurementService) ValidateReturnOrder(ctx context.Context, principal middleware.Principal, req ValidateReturnOrderRequest) (DispositionResponse, error) {
	var result DispositionResponse
	var event *websocket.StockEvent
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		returnOrder, err := s.returnRepo.FindByReturnID(txCtx, principal.StoreID, req.ReturnID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperror.NotFound("ReturnOrderNotFound")
			}
			return apperror.Internal("failed to load return order", err)
		}
		if len(returnOrder.Lines) == 0 {
			return apperror.Validation("return order has no product lines")
		}
		line := returnOrder.Lines[0]

		result.ReturnID = returnOrder.ReturnID

		// Strict if/elif precedence — first match wins.
		switch {
		case returnOrder.Reason == reasonProductDamage && line.IsSellerReturnable:
			vendorReturn, err := s.createVendorReturnFromLine(txCtx, principal, returnOrder, line)
			if err != nil {
				return err
			}
			result.Disposition = DispositionVendorReturn
			result.RecordID = vendorReturn.ReturnID

		case returnOrder.Reason == reasonProductDamage && !line.IsSellerReturnable:
			loss := model.LossOrder{
				ProductID:    line.ProductID,
				OrgID:        principal.OrgID,
				StoreID:      principal.StoreID,
				ProductName:  line.ProductName,
				Category:     line.Category,
				DateReported: time.Now().Format("2006-01-02"),
				QuantityLost: line.ReturnQuantity,
				Unit:         line.Unit,
				UnitPrice:    line.UnitPrice,
				Reason:       lossReasonDamaged,
			}
			if err := s.lossRepo.Create(txCtx, &loss); err != nil {
				return apperror.Internal("failed to create loss order", err)
			}
			result.Disposition = DispositionLoss

		default:
			newQuantity, err := s.restockFromReturnLine(txCtx, principal, returnOrder.ReturnID, line)
			if err != nil {
				return err
			}
			result.Disposition = DispositionInventory
			result.RecordID = line.ProductID
			event = &websocket.StockEvent{
				Event:     "stock_restocked",
				StoreID:   principal.StoreID,
				ProductID: line.ProductID,
				Quantity:  newQuantity,
				Status:    stockStatusFor(newQuantity),
			}
		}

		rows, err := s.returnRepo.Delete(txCtx, principal.StoreID, returnOrder.ReturnID)
		if err != nil {
			return apperror.Internal("failed to delete return order", err)
		}
		if rows == 0 {
			return apperror.NotFound("ReturnOrderNotFound")
		}

		entry := auditEntry(principal, model.ActionValidateReturn, returnOrder.ReturnID, line.ProductName, result)
		return s.auditRepo.Log(txCtx, &entry)
	})
	if err != nil {
		return DispositionResponse{}, err
	}
	if s.hub != nil && event != nil {
		s.hub.BroadcastStockEvent(*event)
	}
	return result, nil
}

func (s *procurementService) ListPurchaseOrders(ctx context.Context, principal middleware.Principal) ([]PurchaseOrderResponse, error) {
	orders, err := s.purchaseRepo.List(ctx, principal.StoreID)
	if err != nil {
		return nil, apperror.Internal("failed to list purchase orders", err)
	}
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toPurchaseOrderResponse(order))
	}
	return responses, nil
}

func (s *procurementService) MarkPurchaseOrderReceived(ctx context.Context, principal middleware.Principal, orderID string) error {
	rows, err := s.purchaseRepo.MarkReceived(ctx, principal.StoreID, orderID)
	if err != nil {
		return apperror.Internal("failed to mark purchase order received", err)
	}
	if rows == 0 {
		return apperror.NotFound("PurchaseOrderNotFound")
	}
	return nil
}

// ValidatePurchaseOrder classifies an inbound delivery. Branch order matters:
// a quantity mismatch combined with damage takes the vendor-return path, not
// an independent evaluation of both conditions.
func (s *procurementService) ValidatePurchaseOrder(ctx context.Context, principal middleware.Principal, req ValidatePurchaseOrderRequest) (ValidatePurchaseOrderResponse, error) {
	unitPrice, err := parsePrice(req.UnitPrice)
	if err != nil {
		return ValidatePurchaseOrderResponse{}, apperror.Validation("unit_price must be a valid decimal number")
	}

	var result ValidatePurchaseOrderResponse
	var event *websocket.StockEvent
	txErr := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		purchaseOrder, err := s.purchaseRepo.FindByOrderID(txCtx, principal.StoreID, req.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperror.NotFound("PurchaseOrderNotFound")
			}
			return apperror.Internal("failed to load purchase order", err)
		}
		if purchaseOrder.ValidationStatus == model.ValidationStatusCompleted {
			return apperror.InvalidState("purchase order already validated")
		}

		result.OrderID = purchaseOrder.OrderID
		shortfall := req.ExpectedQuantity - req.ReceivedQuantity

		switch {
		case req.ReceivedQuantity == req.ExpectedQuantity && !req.IsDamaged:
			productID, newQuantity, err := s.acceptDelivery(txCtx, principal, purchaseOrder.OrderID, req)
			if err != nil {
				return err
			}
			result.Disposition = DispositionInventory
			result.RecordID = productID
			event = &websocket.StockEvent{
				Event:     "stock_received",
				StoreID:   principal.StoreID,
				ProductID: result.RecordID,
				Quantity:  newQuantity,
				Status:    stockStatusFor(newQuantity),
			}

		case req.ReceivedQuantity != req.ExpectedQuantity || (req.IsDamaged && req.IsReturnable):
			last, err := s.vendorReturnRepo.LastReturnID(txCtx, principal.StoreID)
			if err != nil {
				return apperror.Internal("failed to derive vendor return id", err)
			}
			shortfallDecimal := decimal.NewFromInt(int64(shortfall))
			vendorReturn := model.ReturnToVendor{
				ReturnID:         sequence.Next(last, sequence.PrefixVendorReturn),
				OrderID:          purchaseOrder.OrderID,
				StoreID:          principal.StoreID,
				OrgID:            principal.OrgID,
				VendorName:       supplierOr(req.Supplier, purchaseOrder.Supplier),
				ProductName:      req.ProductName,
				DeliveryDate:     purchaseOrder.DeliveryDate,
				Status:           model.VendorReturnReturned,
				ReturnAmount:     unitPrice.Mul(shortfallDecimal).Round(2),
				OriginalQuantity: req.ExpectedQuantity,
				ReturnQuantity:   shortfall,
				Unit:             req.Unit,
				ContractID:       contractIDOr(req.ContractID, purchaseOrder.ContractID),
				PurchaseDate:     purchaseOrder.DeliveryDate,
				ProductCondition: vendorReturnCondition,
				// return_amount covers only the shortfall; total_price is the
				// full expected delivery.
				TotalPrice:   unitPrice.Mul(decimal.NewFromInt(int64(req.ExpectedQuantity))).Round(2),
				UnitPrice:    unitPrice,
				ReturnReason: joinedOr(req.ReturnConditions, "Mismatch or damaged"),
			}
			if err := s.vendorReturnRepo.Create(txCtx, &vendorReturn); err != nil {
				return apperror.Internal("failed to create vendor return", err)
			}
			result.Disposition = DispositionVendorReturn
			result.RecordID = vendorReturn.ReturnID

		case req.IsDamaged && !req.IsReturnable:
			loss := model.LossOrder{
				OrgID:        principal.OrgID,
				StoreID:      principal.StoreID,
				ProductName:  req.ProductName,
				Category:     req.Category,
				DateReported: time.Now().Format("2006-01-02"),
				QuantityLost: shortfall,
				Unit:         req.Unit,
				UnitPrice:    unitPrice,
				Reason:       lossReasonDamaged,
			}
			if err := s.lossRepo.Create(txCtx, &loss); err != nil {
				return apperror.Internal("failed to create loss order", err)
			}
			result.Disposition = DispositionLoss
		}

		// Regardless of route the purchase order is terminally completed.
		if _, err := s.purchaseRepo.CompleteValidation(txCtx, principal.StoreID, purchaseOrder.OrderID); err != nil {
			return apperror.Internal("failed to complete purchase order", err)
		}

		entry := auditEntry(principal, model.ActionValidatePurchase, purchaseOrder.OrderID, req.ProductName, result)
		return s.auditRepo.Log(txCtx, &entry)
	})
	if txErr != nil {
		return ValidatePurchaseOrderResponse{}, txErr
	}
	if s.hub != nil && event != nil {
		s.hub.BroadcastStockEvent(*event)
	}
	return result, nil
}

func (s *procurementService) ListVendorReturns(ctx context.Context, principal middleware.Principal) ([]VendorReturnResponse, error) {
	returns, err := s.vendorReturnRepo.List(ctx, principal.StoreID)
	if err != nil {
		return nil, apperror.Internal("failed to list vendor returns", err)
	}
	responses := make([]VendorReturnResponse, 0, len(returns))
	for _, ret := range returns {
		responses = append(responses, VendorReturnResponse{ReturnToVendor: ret, StatusLabel: model.VendorReturnStatusText(ret.Status)})
	}
	return responses, nil
}

func (s *procurementService) GetVendorReturn(ctx context.Context, principal middleware.Principal, returnID string) (VendorReturnResponse, error) {
	ret, err := s.vendorReturnRepo.FindByReturnID(ctx, principal.StoreID, returnID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return VendorReturnResponse{}, apperror.NotFound("VendorReturnNotFound")
		}
		return VendorReturnResponse{}, apperror.Internal("failed to load vendor return", err)
	}
	return VendorReturnResponse{ReturnToVendor: *ret, StatusLabel: model.VendorReturnStatusText(ret.Status)}, nil
}

func (s *procurementService) ListRequestedOrders(ctx context.Context, principal middleware.Principal) ([]model.RequestedOrder, error) {
	orders, err := s.requestedRepo.List(ctx, principal.StoreID)
	if err != nil {
		return nil, apperror.Internal("failed to list requested orders", err)
	}
	return orders, nil
}

// ListLossOrders returns the write-offs plus their aggregated metrics.
func (s *procurementService) ListLossOrders(ctx context.Context, principal middleware.Principal) (LossOrdersResponse, error) {
	losses, err := s.lossRepo.List(ctx, principal.StoreID, principal.OrgID)
	if err != nil {
		return LossOrdersResponse{}, apperror.Internal("failed to list loss orders", err)
	}
	return LossOrdersResponse{Losses: losses, Metrics: computeLossMetrics(losses)}, nil
}

// CreateContract records the vendor agreement and raises the matching
// purchase order in Waiting state.
func (s *procurementService) CreateContract(ctx context.Context, principal middleware.Principal, req CreateContractRequest) (model.Contract, error) {
	unitPrice, err := parsePrice(req.UnitPrice)
	if err != nil {
		return model.Contract{}, apperror.Validation("unit_price must be a valid decimal number")
	}

	var created model.Contract
	txErr := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		lastContract, err := s.seqRepo.LastID(txCtx, "contracts", "contract_id", sequence.PrefixContract, "")
		if err != nil {
			return apperror.Internal("failed to derive contract id", err)
		}

		created = model.Contract{
			ContractID:       sequence.Next(lastContract, sequence.PrefixContract),
			RequestID:        req.RequestID,
			VendorName:       req.VendorName,
			VendorEmail:      req.VendorEmail,
			Phone:            req.Phone,
			Address:          req.Address,
			Pincode:          req.Pincode,
			BusinessType:     req.BusinessType,
			UnitPrice:        unitPrice,
			GSTNumber:        req.GSTNumber,
			Tax:              req.Tax,
			ProductName:      req.ProductName,
			Quantity:         req.Quantity,
			Unit:             req.Unit,
			Category:         req.Category,
			SubCategory:      req.SubCategory,
			Tags:             req.Tags,
			WarrantyTenure:   req.WarrantyTenure,
			WarrantyUnit:     req.WarrantyUnit,
			DateOfDelivery:   req.DateOfDelivery,
			Returnable:       req.Returnable,
			ReturnConditions: req.ReturnConditions,
			Status:           "pending",
			StoreID:          principal.StoreID,
			OrgID:            principal.OrgID,
		}
		if err := s.contractRepo.Create(txCtx, &created); err != nil {
			return apperror.Internal("failed to create contract", err)
		}

		lastOrder, err := s.seqRepo.LastID(txCtx, "purchase_orders", "order_id", sequence.PrefixOrder, "")
		if err != nil {
			return apperror.Internal("failed to derive purchase order id", err)
		}
		purchaseOrder := model.PurchaseOrder{
			OrderID:          sequence.Next(lastOrder, sequence.PrefixOrder),
			ContractID:       created.ContractID,
			Supplier:         req.VendorName,
			DeliveryDate:     req.DateOfDelivery,
			ReceivedStatus:   model.ReceivedStatusWaiting,
			ValidationStatus: model.ValidationStatusPending,
			Amount:           unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2),
			StoreID:          principal.StoreID,
			OrgID:            principal.OrgID,
		}
		if err := s.purchaseRepo.Create(txCtx, &purchaseOrder); err != nil {
			return apperror.Internal("failed to create purchase order", err)
		}

		entry := auditEntry(principal, model.ActionCreateContract, created.ContractID, req.VendorName, req)
		return s.auditRepo.Log(txCtx, &entry)
	})
	if txErr != nil {
		return model.Contract{}, txErr
	}
	return created, nil
}

func (s *procurementService) ListContracts(ctx context.Context, principal middleware.Principal) ([]model.Contract, error) {
	contracts, err := s.contractRepo.List(ctx, principal.StoreID)
	if err != nil {
		return nil, apperror.Internal("failed to list contracts", err)
	}
	return contracts, nil
}

// --- helpers ---

// createVendorReturnFromLine builds the vendor-return record for a damaged,
// seller-returnable customer return. Vendor metadata falls back to defaults
// when no contract is known for the product.
func (s *procurementService) createVendorReturnFromLine(ctx context.Context, principal middleware.Principal, returnOrder *model.ReturnOrder, line model.ReturnOrderLine) (model.ReturnToVendor, error) {
	last, err := s.vendorReturnRepo.LastReturnID(ctx, principal.StoreID)
	if err != nil {
		return model.ReturnToVendor{}, apperror.Internal("failed to derive vendor return id", err)
	}

	amount := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.ReturnQuantity))).Round(2)
	vendorReturn := model.ReturnToVendor{
		ReturnID:         sequence.Next(last, sequence.PrefixVendorReturn),
		OrderID:          returnOrder.OrderID,
		StoreID:          principal.StoreID,
		OrgID:            principal.OrgID,
		VendorName:       "Unknown",
		ProductName:      line.ProductName,
		DeliveryDate:     time.Now().Format("2006-01-02"),
		Status:           model.VendorReturnReturned,
		ReturnAmount:     amount,
		OriginalQuantity: line.ReturnQuantity,
		ReturnQuantity:   line.ReturnQuantity,
		Unit:             line.Unit,
		PurchaseDate:     returnOrder.ReturnDate,
		ProductCondition: vendorReturnCondition,
		TotalPrice:       amount,
		UnitPrice:        line.UnitPrice,
		ReturnReason:     firstOr(line.SellerReturnConditions, "Unknown"),
	}
	if err := s.vendorReturnRepo.Create(ctx, &vendorReturn); err != nil {
		return model.ReturnToVendor{}, apperror.Internal("failed to create vendor return", err)
	}
	return vendorReturn, nil
}

// restockFromReturnLine puts a non-damage return back into inventory. An
// existing product is incremented in place; a product deleted since the sale
// is recreated from the line's snapshot metadata.
func (s *procurementService) restockFromReturnLine(ctx context.Context, principal middleware.Principal, reference string, line model.ReturnOrderLine) (int, error) {
	product, err := s.productRepo.FindByProductIDForUpdate(ctx, principal.StoreID, line.ProductID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return 0, apperror.Internal("failed to lock product", err)
	}

	var newQuantity int
	if err == gorm.ErrRecordNotFound {
		newQuantity = line.ReturnQuantity
		recreated := model.Product{
			ProductID:                line.ProductID,
			StoreID:                  principal.StoreID,
			OrgID:                    principal.OrgID,
			ProductName:              line.ProductName,
			IsConsumerReturnable:     line.IsCustomerReturnable,
			ConsumerReturnConditions: line.ConsumerReturnConditions,
			IsSellerReturnable:       line.IsSellerReturnable,
			SellerReturnConditions:   line.SellerReturnConditions,
			UnitPrice:                line.UnitPrice.String(),
			Unit:                     line.Unit,
			Quantity:                 newQuantity,
			Category:                 line.Category,
			SubCategory:              line.SubCategory,
			Tax:                      taxAsFloat(line.Tax),
			LastUpdated:              time.Now(),
		}
		if err := s.productRepo.Create(ctx, &recreated); err != nil {
			return 0, apperror.Internal("failed to recreate product", err)
		}
	} else {
		newQuantity = product.Quantity + line.ReturnQuantity
		fields := map[string]interface{}{
			"quantity":                   newQuantity,
			"is_consumer_returnable":     line.IsCustomerReturnable,
			"consumer_return_conditions": line.ConsumerReturnConditions,
			"is_seller_returnable":       line.IsSellerReturnable,
			"seller_return_conditions":   line.SellerReturnConditions,
			"last_updated":               time.Now(),
		}
		if _, err := s.productRepo.UpdateFields(ctx, principal.StoreID, line.ProductID, fields); err != nil {
			return 0, apperror.Internal("failed to restock product", err)
		}
	}

	movement := model.StockMovement{
		ProductID:       line.ProductID,
		StoreID:         principal.StoreID,
		Reference:       reference,
		MovementType:    model.MovementIn,
		QuantityChanged: line.ReturnQuantity,
		StockAfter:      newQuantity,
	}
	if err := s.movementRepo.Create(ctx, &movement); err != nil {
		return 0, apperror.Internal("failed to record stock movement", err)
	}
	return newQuantity, nil
}

// acceptDelivery folds a clean delivery into inventory, incrementing an
// existing product by name or creating a fresh one.
func (s *procurementService) acceptDelivery(ctx context.Context, principal middleware.Principal, orderID string, req ValidatePurchaseOrderRequest) (string, int, error) {
	existing, err := s.productRepo.FindByName(ctx, principal.StoreID, req.ProductName)
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", 0, apperror.Internal("failed to look up product", err)
	}

	var productID string
	var newQuantity int
	if err == gorm.ErrRecordNotFound {
		last, err := s.seqRepo.LastID(ctx, "products", "product_id", sequence.PrefixProduct, principal.StoreID)
		if err != nil {
			return "", 0, apperror.Internal("failed to derive product id", err)
		}
		productID = sequence.Next(last, sequence.PrefixProduct)
		newQuantity = req.ReceivedQuantity
		product := model.Product{
			ProductID:              productID,
			StoreID:                principal.StoreID,
			OrgID:                  principal.OrgID,
			ProductName:            req.ProductName,
			IsSellerReturnable:     req.IsReturnable,
			SellerReturnConditions: req.ReturnConditions,
			UnitPrice:              req.UnitPrice,
			Unit:                   req.Unit,
			Quantity:               newQuantity,
			Category:               req.Category,
			SubCategory:            req.SubCategory,
			Tags:                   req.Tags,
			Tax:                    req.Tax,
			HasWarranty:            req.HasWarranty,
			WarrantyTenure:         req.WarrantyTenure,
			WarrantyUnit:           req.WarrantyUnit,
			LastUpdated:            time.Now(),
		}
		if err := s.productRepo.Create(ctx, &product); err != nil {
			return "", 0, apperror.Internal("failed to create product", err)
		}
	} else {
		productID = existing.ProductID
		newQuantity = existing.Quantity + req.ReceivedQuantity
		fields := map[string]interface{}{
			"quantity":     newQuantity,
			"unit_price":   req.UnitPrice,
			"tax":          req.Tax,
			"last_updated": time.Now(),
		}
		if _, err := s.productRepo.UpdateFields(ctx, principal.StoreID, productID, fields); err != nil {
			return "", 0, apperror.Internal("failed to increment stock", err)
		}
	}

	movement := model.StockMovement{
		ProductID:       productID,
		StoreID:         principal.StoreID,
		Reference:       orderID,
		MovementType:    model.MovementIn,
		QuantityChanged: req.ReceivedQuantity,
		StockAfter:      newQuantity,
	}
	if err := s.movementRepo.Create(ctx, &movement); err != nil {
		return "", 0, apperror.Internal("failed to record stock movement", err)
	}
	return productID, newQuantity, nil
}

func toPurchaseOrderResponse(order model.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		PurchaseOrder:    order,
		ReceivedStatus:   model.ReceivedStatusText(order.ReceivedStatus),
		ValidationStatus: model.ValidationStatusText(order.ValidationStatus),
	}
}

func computeLossMetrics(losses []model.LossOrder) LossMetrics {
	total := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	for _, loss := range losses {
		value := loss.UnitPrice.Mul(decimal.NewFromInt(int64(loss.QuantityLost)))
		total = total.Add(value)
		category := loss.Category
		if category == "" {
			category = "Uncategorized"
		}
		byCategory[category] = byCategory[category].Add(value)
	}

	metrics := LossMetrics{
		TotalLossValue: total.Round(2).StringFixed(2),
		LossByCategory: map[string]string{},
	}
	mostAffected := decimal.Zero
	for category, value := range byCategory {
		metrics.LossByCategory[category] = value.Round(2).StringFixed(2)
		if value.GreaterThan(mostAffected) {
			mostAffected = value
			metrics.MostAffectedCategory = category
		}
	}
	if total.IsPositive() {
		metrics.MostAffectedPercent = mostAffected.Div(total).Mul(decimal.NewFromInt(100)).Round(2).StringFixed(2)
	}
	return metrics
}

func taxAsFloat(tax decimal.Decimal) float64 {
	f, _ := tax.Float64()
	return f
}

func supplierOr(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	if fallback != "" {
		return fallback
	}
	return "Unknown"
}

func contractIDOr(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	return fallback
}

func firstOr(list []string, fallback string) string {
	if len(list) > 0 {
		return list[0]
	}
	return fallback
}

func joinedOr(list []string, fallback string) string {
	if len(list) > 0 {
		return strings.Join(list, ", ")
	}
	return fallback
}
