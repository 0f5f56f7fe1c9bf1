package service

import (
	"context"
	"testing"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type procurementFixture struct {
	service       ProcurementService
	returns       *fakeReturnOrderRepo
	products      *fakeProductRepo
	vendorReturns *fakeVendorReturnRepo
	losses        *fakeLossOrderRepo
	purchases     *fakePurchaseOrderRepo
	contracts     *fakeContractRepo
	movements     *fakeStockMovementRepo
	principal     middleware.Principal
}

func newProcurementFixture() *procurementFixture {
	returns := newFakeReturnOrderRepo()
	products := newFakeProductRepo()
	vendorReturns := newFakeVendorReturnRepo()
	losses := &fakeLossOrderRepo{}
	purchases := newFakePurchaseOrderRepo()
	contracts := newFakeContractRepo()
	movements := &fakeStockMovementRepo{}

	return &procurementFixture{
		service: NewProcurementService(
			returns, products, vendorReturns, losses, purchases,
			&fakeRequestedOrderRepo{}, contracts, movements,
			newFakeSequenceRepo(), &fakeAuditRepo{}, &fakeTxManager{}, nil,
		),
		returns:       returns,
		products:      products,
		vendorReturns: vendorReturns,
		losses:        losses,
		purchases:     purchases,
		contracts:     contracts,
		movements:     movements,
		principal: middleware.Principal{
			ID:      "3f1a6f07-9d42-47f9-9a41-6f2f7f3d9b55",
			Role:    model.RoleProcurement,
			StoreID: "store-1",
			OrgID:   "org-1",
		},
	}
}

func (f *procurementFixture) seedSentReturn(reason string, sellerReturnable bool, extraLines ...model.ReturnOrderLine) {
	lines := append([]model.ReturnOrderLine{{
		ProductID:              "P001",
		ProductName:            "Steel Bolt",
		ReturnQuantity:         2,
		UnitPrice:              decimal.NewFromInt(100),
		Tax:                    decimal.NewFromInt(5),
		IsSellerReturnable:     sellerReturnable,
		SellerReturnConditions: model.StringList{"Factory defect", "Broken on arrival"},
		Category:               "Hardware",
		Unit:                   "pcs",
	}}, extraLines...)

	returnOrder := model.ReturnOrder{
		ReturnID:          "RET001",
		OrderID:           "ORD001",
		StoreID:           "store-1",
		OrgID:             "org-1",
		Reason:            reason,
		ReturnDate:        "2026-08-30",
		Lines:             lines,
		SentToProcurement: model.ReturnWithProcurement,
	}
	_ = f.returns.Create(context.Background(), &returnOrder)
}

// --- return disposition ---

func TestValidateReturnDamagedReturnableGoesToVendor(t *testing.T) {
	f := newProcurementFixture()
	f.seedSentReturn("Product Damage", true)

	resp, err := f.service.ValidateReturnOrder(context.Background(), f.principal, ValidateReturnOrderRequest{ReturnID: "RET001"})
	require.NoError(t, err)
	require.Equal(t, DispositionVendorReturn, resp.Disposition)
	require.Equal(t, "RV001", resp.RecordID)

	vendorReturn, err := f.vendorReturns.FindByReturnID(context.Background(), "store-1", "RV001")
	require.NoError(t, err)
	// No contract reference on the line, so vendor metadata falls back.
	require.Equal(t, "Unknown", vendorReturn.VendorName)
	require.Equal(t, 2, vendorReturn.ReturnQuantity)
	require.Equal(t, "200.00", vendorReturn.ReturnAmount.StringFixed(2))
	require.Equal(t, "Damaged and returnable", vendorReturn.ProductCondition)
	// Reason is the first seller return condition on the line.
	require.Equal(t, "Factory defect", vendorReturn.ReturnReason)

	// Exactly one destination received the record.
	require.Empty(t, f.losses.losses)
	require.Empty(t, f.movements.movements)
}

func TestValidateReturnDamagedNotReturnableIsLoss(t *testing.T) {
	f := newProcurementFixture()
	f.seedSentReturn("Product Damage", false)

	resp, err := f.service.ValidateReturnOrder(context.Background(), f.principal, ValidateReturnOrderRequest{ReturnID: "RET001"})
	require.NoError(t, err)
	require.Equal(t, DispositionLoss, resp.Disposition)

	require.Len(t, f.losses.losses, 1)
	loss := f.losses.losses[0]
	require.Equal(t, "Damaged and not returnable", loss.Reason)
	require.Equal(t, "P001", loss.ProductID)
	require.Equal(t, 2, loss.QuantityLost)

	returns, err := f.vendorReturns.List(context.Background(), "store-1")
	require.NoError(t, err)
	require.Empty(t, returns)
}

func TestValidateReturnOtherReasonRestocks(t *testing.T) {
	f := newProcurementFixture()
	f.seedSentReturn("Defective", true)
	product := model.Product{ProductID: "P001", StoreID: "store-1", ProductName: "Steel Bolt", UnitPrice: "100", Quantity: 5}
	_ = f.products.Create(context.Background(), &product)

	resp, err := f.service.ValidateReturnOrder(context.Background(), f.principal, ValidateReturnOrderRequest{ReturnID: "RET001"})
	require.NoError(t, err)
	require.Equal(t, DispositionInventory, resp.Disposition)
	require.Equal(t, "P001", resp.RecordID)

	restocked, err := f.products.FindByProductID(context.Background(), "store-1", "P001")
	require.NoError(t, err)
	require.Equal(t, 7, restocked.Quantity)

	require.Empty(t, f.losses.losses)
	require.Len(t, f.movements.movements, 1)
	require.Equal(t, model.MovementIn, f.movements.movements[0].MovementType)
}

func TestValidateReturnRestockRecreatesDeletedProduct(t *testing.T) {
	f := newProcurementFixture()
	f.seedSentReturn("Defective", false)

	resp, err := f.service.ValidateReturnOrder(context.Background(), f.principal, ValidateReturnOrderRequest{ReturnID: "RET001"})
	require.NoError(t, err)
	require.Equal(t, DispositionInventory, resp.Disposition)

	recreated, err := f.products.FindByProductID(context.Background(), "store-1", "P001")
	require.NoError(t, err)
	require.Equal(t, 2, recreated.Quantity)
	require.Equal(t, "Steel Bolt", recreated.ProductName)
}

func TestValidateReturnIsExactlyOnce(t *testing.T) {
	f := newProcurementFixture()
	f.seedSentReturn("Product Damage", false)

	_, err := f.service.ValidateReturnOrder(context.Background(), f.principal, ValidateReturnOrderRequest{ReturnID: "RET001"})
	require.NoError(t, err)

	_, err = f.service.ValidateReturnOrder(context.Background(), f.principal, ValidateReturnOrderRequest{ReturnID: "RET001"})
	require.Error(t, err)
	require.Equal(t, "ReturnOrderNotFound", err.Error())
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	// The first pass recorded exactly one loss; the failed retry added nothing.
	require.Len(t, f.losses.losses, 1)
}

func TestValidateReturnUsesFirstLineOnly(t *testing.T) {
	f := newProcurementFixture()
	f.seedSentReturn("Product Damage", false, model.ReturnOrderLine{
		ProductID:          "P002",
		ProductName:        "Hex Nut",
		ReturnQuantity:     4,
		UnitPrice:          decimal.NewFromInt(10),
		IsSellerReturnable: true,
	})

	resp, err := f.service.ValidateReturnOrder(context.Background(), f.principal, ValidateReturnOrderRequest{ReturnID: "RET001"})
	require.NoError(t, err)
	require.Equal(t, DispositionLoss, resp.Disposition)

	require.Len(t, f.losses.losses, 1)
	require.Equal(t, "P001", f.losses.losses[0].ProductID)

	// Trailing lines are not dispositioned anywhere.
	returns, err := f.vendorReturns.List(context.Background(), "store-1")
	require.NoError(t, err)
	require.Empty(t, returns)
	require.Empty(t, f.movements.movements)
}

// --- purchase order validation ---

func (f *procurementFixture) seedPurchaseOrder() {
	order := model.PurchaseOrder{
		OrderID:      "ORD001",
		ContractID:   "CON001",
		Supplier:     "Acme Supplies",
		DeliveryDate: "2026-08-28",
		StoreID:      "store-1",
		OrgID:        "org-1",
	}
	_ = f.purchases.Create(context.Background(), &order)
}

func TestValidatePurchaseOrderCleanDelivery(t *testing.T) {
	f := newProcurementFixture()
	f.seedPurchaseOrder()

	resp, err := f.service.ValidatePurchaseOrder(context.Background(), f.principal, ValidatePurchaseOrderRequest{
		OrderID:          "ORD001",
		ProductName:      "Hex Nut",
		ExpectedQuantity: 10,
		ReceivedQuantity: 10,
		UnitPrice:        "4.50",
	})
	require.NoError(t, err)
	require.Equal(t, DispositionInventory, resp.Disposition)
	require.Equal(t, "P001", resp.RecordID)

	product, err := f.products.FindByProductID(context.Background(), "store-1", "P001")
	require.NoError(t, err)
	require.Equal(t, 10, product.Quantity)
	require.Equal(t, "Hex Nut", product.ProductName)

	order, err := f.purchases.FindByOrderID(context.Background(), "store-1", "ORD001")
	require.NoError(t, err)
	require.Equal(t, model.ValidationStatusCompleted, order.ValidationStatus)
	require.Equal(t, model.ReceivedStatusReceived, order.ReceivedStatus)
}

func TestValidatePurchaseOrderCleanDeliveryIncrementsExisting(t *testing.T) {
	f := newProcurementFixture()
	f.seedPurchaseOrder()
	product := model.Product{ProductID: "P042", StoreID: "store-1", ProductName: "Hex Nut", UnitPrice: "4.00", Quantity: 3}
	_ = f.products.Create(context.Background(), &product)

	resp, err := f.service.ValidatePurchaseOrder(context.Background(), f.principal, ValidatePurchaseOrderRequest{
		OrderID:          "ORD001",
		ProductName:      "Hex Nut",
		ExpectedQuantity: 10,
		ReceivedQuantity: 10,
		UnitPrice:        "4.50",
	})
	require.NoError(t, err)
	require.Equal(t, "P042", resp.RecordID)

	updated, err := f.products.FindByProductID(context.Background(), "store-1", "P042")
	require.NoError(t, err)
	require.Equal(t, 13, updated.Quantity)
	// Price refreshes to the latest delivery.
	require.Equal(t, "4.50", updated.UnitPrice)
}

func TestValidatePurchaseOrderShortfallGoesToVendor(t *testing.T) {
	f := newProcurementFixture()
	f.seedPurchaseOrder()

	resp, err := f.service.ValidatePurchaseOrder(context.Background(), f.principal, ValidatePurchaseOrderRequest{
		OrderID:          "ORD001",
		ProductName:      "Hex Nut",
		ExpectedQuantity: 10,
		ReceivedQuantity: 7,
		UnitPrice:        "4.50",
	})
	require.NoError(t, err)
	require.Equal(t, DispositionVendorReturn, resp.Disposition)

	vendorReturn, err := f.vendorReturns.FindByReturnID(context.Background(), "store-1", resp.RecordID)
	require.NoError(t, err)
	require.Equal(t, 3, vendorReturn.ReturnQuantity)
	// return_amount covers the 3 missing units; total_price the full expected 10.
	require.Equal(t, "13.50", vendorReturn.ReturnAmount.StringFixed(2))
	require.Equal(t, "45.00", vendorReturn.TotalPrice.StringFixed(2))
	require.Equal(t, "Acme Supplies", vendorReturn.VendorName)
	require.Equal(t, "CON001", vendorReturn.ContractID)
	require.Equal(t, "Damaged and returnable", vendorReturn.ProductCondition)
	require.Equal(t, "Mismatch or damaged", vendorReturn.ReturnReason)
}

func TestValidatePurchaseOrderMismatchAndDamagedPrefersVendorReturn(t *testing.T) {
	f := newProcurementFixture()
	f.seedPurchaseOrder()

	// Mismatch plus damage takes the vendor-return branch even when the
	// stock is not returnable; the loss branch never evaluates.
	resp, err := f.service.ValidatePurchaseOrder(context.Background(), f.principal, ValidatePurchaseOrderRequest{
		OrderID:          "ORD001",
		ProductName:      "Hex Nut",
		ExpectedQuantity: 10,
		ReceivedQuantity: 6,
		IsDamaged:        true,
		IsReturnable:     false,
		ReturnConditions: []string{"Crushed packaging", "Rust"},
		UnitPrice:        "4.50",
	})
	require.NoError(t, err)
	require.Equal(t, DispositionVendorReturn, resp.Disposition)
	require.Empty(t, f.losses.losses)

	vendorReturn, err := f.vendorReturns.FindByReturnID(context.Background(), "store-1", resp.RecordID)
	require.NoError(t, err)
	require.Equal(t, "Crushed packaging, Rust", vendorReturn.ReturnReason)
}

func TestValidatePurchaseOrderDamagedNotReturnableIsLoss(t *testing.T) {
	f := newProcurementFixture()
	f.seedPurchaseOrder()

	resp, err := f.service.ValidatePurchaseOrder(context.Background(), f.principal, ValidatePurchaseOrderRequest{
		OrderID:          "ORD001",
		ProductName:      "Hex Nut",
		ExpectedQuantity: 10,
		ReceivedQuantity: 10,
		IsDamaged:        true,
		IsReturnable:     false,
		UnitPrice:        "4.50",
	})
	require.NoError(t, err)
	require.Equal(t, DispositionLoss, resp.Disposition)
	require.Len(t, f.losses.losses, 1)
	require.Equal(t, "Damaged and not returnable", f.losses.losses[0].Reason)
}

func TestValidatePurchaseOrderIsTerminal(t *testing.T) {
	f := newProcurementFixture()
	f.seedPurchaseOrder()

	req := ValidatePurchaseOrderRequest{
		OrderID:          "ORD001",
		ProductName:      "Hex Nut",
		ExpectedQuantity: 10,
		ReceivedQuantity: 10,
		UnitPrice:        "4.50",
	}
	_, err := f.service.ValidatePurchaseOrder(context.Background(), f.principal, req)
	require.NoError(t, err)

	_, err = f.service.ValidatePurchaseOrder(context.Background(), f.principal, req)
	require.Error(t, err)
	require.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
}

func TestValidatePurchaseOrderMalformedPrice(t *testing.T) {
	f := newProcurementFixture()
	f.seedPurchaseOrder()

	_, err := f.service.ValidatePurchaseOrder(context.Background(), f.principal, ValidatePurchaseOrderRequest{
		OrderID:          "ORD001",
		ProductName:      "Hex Nut",
		ExpectedQuantity: 10,
		ReceivedQuantity: 10,
		UnitPrice:        "four-fifty",
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	// Nothing was touched; the order is still pending validation.
	order, findErr := f.purchases.FindByOrderID(context.Background(), "store-1", "ORD001")
	require.NoError(t, findErr)
	require.Equal(t, model.ValidationStatusPending, order.ValidationStatus)
}

// --- contracts ---

func TestCreateContractRaisesPurchaseOrder(t *testing.T) {
	f := newProcurementFixture()

	contract, err := f.service.CreateContract(context.Background(), f.principal, CreateContractRequest{
		VendorName:  "Acme Supplies",
		ProductName: "Hex Nut",
		Quantity:    20,
		UnitPrice:   "4.50",
	})
	require.NoError(t, err)
	require.Equal(t, "CON001", contract.ContractID)

	orders, err := f.purchases.List(context.Background(), "store-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "ORD001", orders[0].OrderID)
	require.Equal(t, "CON001", orders[0].ContractID)
	require.Equal(t, model.ReceivedStatusWaiting, orders[0].ReceivedStatus)
	require.Equal(t, model.ValidationStatusPending, orders[0].ValidationStatus)
	require.Equal(t, "90.00", orders[0].Amount.StringFixed(2))
}

// --- loss metrics ---

func TestComputeLossMetrics(t *testing.T) {
	losses := []model.LossOrder{
		{Category: "Hardware", QuantityLost: 2, UnitPrice: decimal.NewFromInt(100)},
		{Category: "Hardware", QuantityLost: 1, UnitPrice: decimal.NewFromInt(50)},
		{Category: "", QuantityLost: 5, UnitPrice: decimal.NewFromInt(10)},
	}

	metrics := computeLossMetrics(losses)
	require.Equal(t, "300.00", metrics.TotalLossValue)
	require.Equal(t, "250.00", metrics.LossByCategory["Hardware"])
	require.Equal(t, "50.00", metrics.LossByCategory["Uncategorized"])
	require.Equal(t, "Hardware", metrics.MostAffectedCategory)
	require.Equal(t, "83.33", metrics.MostAffectedPercent)
}

func TestComputeLossMetricsEmpty(t *testing.T) {
	metrics := computeLossMetrics(nil)
	require.Equal(t, "0.00", metrics.TotalLossValue)
	require.Empty(t, metrics.LossByCategory)
	require.Empty(t, metrics.MostAffectedCategory)
}
