package service

import (
	"context"
	"testing"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/pkg/apperror"

	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	service   OrderService
	products  *fakeProductRepo
	orders    *fakeSalesOrderRepo
	requested *fakeRequestedOrderRepo
	movements *fakeStockMovementRepo
	audit     *fakeAuditRepo
	principal middleware.Principal
}

func newOrderFixture() *orderFixture {
	products := newFakeProductRepo()
	orders := newFakeSalesOrderRepo()
	requested := &fakeRequestedOrderRepo{}
	movements := &fakeStockMovementRepo{}
	audit := &fakeAuditRepo{}

	return &orderFixture{
		service: NewOrderService(
			orders, products, requested, movements,
			newFakeSequenceRepo(), audit, &fakeTxManager{}, nil,
		),
		products:  products,
		orders:    orders,
		requested: requested,
		movements: movements,
		audit:     audit,
		principal: middleware.Principal{
			ID:      "8e5c8f79-4b77-4a9a-9f3e-0f6f4f8a2a11",
			Role:    model.RoleSales,
			StoreID: "store-1",
			OrgID:   "org-1",
		},
	}
}

func (f *orderFixture) seedProduct(quantity int) {
	product := model.Product{
		ProductID:                "P001",
		StoreID:                  "store-1",
		OrgID:                    "org-1",
		ProductName:              "Steel Bolt",
		UnitPrice:                "100",
		Tax:                      5,
		Quantity:                 quantity,
		Unit:                     "pcs",
		Category:                 "Hardware",
		IsConsumerReturnable:     true,
		ConsumerReturnConditions: model.StringList{"Defective"},
	}
	_ = f.products.Create(context.Background(), &product)
}

func TestCreateOrderPricesAgainstInventory(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(10)

	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)

	require.Equal(t, "ORD001", order.OrderID)
	require.Equal(t, "CUST001", order.CustomerID)
	require.Equal(t, model.OrderStatusReceived, order.OrderStatus)
	require.Equal(t, "315.00", order.TotalOrderPrice.StringFixed(2))
	require.Len(t, order.Lines, 1)
	require.Equal(t, 3, order.Lines[0].OrderQuantity)
	require.Equal(t, model.StockIn, order.Lines[0].ProductStatus)

	// Creation reserves nothing; stock is untouched until the sale.
	product, err := f.products.FindByProductID(context.Background(), "store-1", "P001")
	require.NoError(t, err)
	require.Equal(t, 10, product.Quantity)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	f := newOrderFixture()

	_, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P404", OrderQuantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreateOrderMalformedPriceIsFatal(t *testing.T) {
	f := newOrderFixture()
	product := model.Product{ProductID: "P001", StoreID: "store-1", ProductName: "Broken", UnitPrice: "oops", Quantity: 5}
	_ = f.products.Create(context.Background(), &product)

	_, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSellOrderDecrementsStockOnce(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(10)
	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)

	sold, err := f.service.SellOrder(context.Background(), f.principal, order.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusSold, sold.OrderStatus)

	product, err := f.products.FindByProductID(context.Background(), "store-1", "P001")
	require.NoError(t, err)
	require.Equal(t, 7, product.Quantity)

	// Re-invoking must error, not decrement again.
	_, err = f.service.SellOrder(context.Background(), f.principal, order.OrderID)
	require.Error(t, err)
	require.Equal(t, "OrderNotFoundOrAlreadySold", err.Error())

	product, err = f.products.FindByProductID(context.Background(), "store-1", "P001")
	require.NoError(t, err)
	require.Equal(t, 7, product.Quantity)
}

func TestSellOrderClampsAtZero(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(2)
	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 5}},
	})
	require.NoError(t, err)

	_, err = f.service.SellOrder(context.Background(), f.principal, order.OrderID)
	require.NoError(t, err)

	product, err := f.products.FindByProductID(context.Background(), "store-1", "P001")
	require.NoError(t, err)
	require.Equal(t, 0, product.Quantity)
}

func TestEditOrderRepricesEveryLine(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(10)
	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)

	// Inventory price changes between create and edit; the edit must pick
	// up the live price even though the quantity is unchanged.
	_, err = f.products.UpdateFields(context.Background(), "store-1", "P001", map[string]interface{}{"unit_price": "120"})
	require.NoError(t, err)

	edited, err := f.service.EditOrder(context.Background(), f.principal, order.OrderID, EditOrderRequest{
		Products: []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, "375.00", edited.TotalOrderPrice.StringFixed(2))
}

func TestEditOrderTotalIsIdempotent(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(10)
	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)

	first, err := f.service.EditOrder(context.Background(), f.principal, order.OrderID, EditOrderRequest{
		Products: []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)
	second, err := f.service.EditOrder(context.Background(), f.principal, order.OrderID, EditOrderRequest{
		Products: []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)

	require.True(t, first.TotalOrderPrice.Equal(second.TotalOrderPrice))
	require.Equal(t, "315.00", second.TotalOrderPrice.StringFixed(2))
}

func TestEditOrderKeepsOmittedLines(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(10)
	second := model.Product{ProductID: "P002", StoreID: "store-1", OrgID: "org-1", ProductName: "Hex Nut", UnitPrice: "40", Tax: 2, Quantity: 8}
	_ = f.products.Create(context.Background(), &second)

	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products: []OrderLineRequest{
			{ProductID: "P001", OrderQuantity: 3},
			{ProductID: "P002", OrderQuantity: 2},
		},
	})
	require.NoError(t, err)

	// Only P001 appears in the edit; P002 must survive at its current quantity.
	edited, err := f.service.EditOrder(context.Background(), f.principal, order.OrderID, EditOrderRequest{
		Products: []OrderLineRequest{{ProductID: "P001", OrderQuantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, edited.Lines, 2)
	require.Equal(t, "P001", edited.Lines[0].ProductID)
	require.Equal(t, 1, edited.Lines[0].OrderQuantity)
	require.Equal(t, "P002", edited.Lines[1].ProductID)
	require.Equal(t, 2, edited.Lines[1].OrderQuantity)
	// (100+5)*1 + (40+2)*2
	require.Equal(t, "189.00", edited.TotalOrderPrice.StringFixed(2))
}

func TestEditOrderIgnoresUnknownProducts(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(10)
	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)

	// A payload product that is not on the order adds nothing.
	edited, err := f.service.EditOrder(context.Background(), f.principal, order.OrderID, EditOrderRequest{
		Products: []OrderLineRequest{{ProductID: "P999", OrderQuantity: 5}},
	})
	require.NoError(t, err)
	require.Len(t, edited.Lines, 1)
	require.Equal(t, "P001", edited.Lines[0].ProductID)
	require.Equal(t, 3, edited.Lines[0].OrderQuantity)
	require.Equal(t, "315.00", edited.TotalOrderPrice.StringFixed(2))
}

func TestEditOrderWithoutProductsRepricesAll(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(10)
	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)

	_, err = f.products.UpdateFields(context.Background(), "store-1", "P001", map[string]interface{}{"unit_price": "200"})
	require.NoError(t, err)

	name := "Asha K"
	edited, err := f.service.EditOrder(context.Background(), f.principal, order.OrderID, EditOrderRequest{CustomerName: &name})
	require.NoError(t, err)
	require.Equal(t, "Asha K", edited.CustomerName)
	require.Equal(t, 3, edited.Lines[0].OrderQuantity)
	require.Equal(t, "615.00", edited.TotalOrderPrice.StringFixed(2))
}

func TestEditSoldOrderRejected(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(10)
	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)
	_, err = f.service.SellOrder(context.Background(), f.principal, order.OrderID)
	require.NoError(t, err)

	_, err = f.service.EditOrder(context.Background(), f.principal, order.OrderID, EditOrderRequest{
		Products: []OrderLineRequest{{ProductID: "P001", OrderQuantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
}

func TestDeleteOrderAnyState(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(10)
	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteOrder(context.Background(), f.principal, order.OrderID))

	err = f.service.DeleteOrder(context.Background(), f.principal, order.OrderID)
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestRaiseRequestForShortfall(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(2)
	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 5}},
	})
	require.NoError(t, err)

	requested, err := f.service.RaiseRequest(context.Background(), f.principal, RaiseRequestRequest{
		OrderID:   order.OrderID,
		ProductID: "P001",
	})
	require.NoError(t, err)
	require.Equal(t, "REQ001", requested.RequestID)
	require.Equal(t, 3, requested.Quantity)
	require.Equal(t, "store-1", requested.StoreID)
}

func TestRaiseRequestRejectedWhenStocked(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(10)
	order, err := f.service.CreateOrder(context.Background(), f.principal, CreateOrderRequest{
		CustomerName: "Asha",
		Products:     []OrderLineRequest{{ProductID: "P001", OrderQuantity: 3}},
	})
	require.NoError(t, err)

	_, err = f.service.RaiseRequest(context.Background(), f.principal, RaiseRequestRequest{
		OrderID:   order.OrderID,
		ProductID: "P001",
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
