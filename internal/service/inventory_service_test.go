package service

import (
	"context"
	"testing"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/pkg/apperror"

	"github.com/stretchr/testify/require"
)

type productFixture struct {
	service   ProductService
	products  *fakeProductRepo
	movements *fakeStockMovementRepo
	sequences *fakeSequenceRepo
	principal middleware.Principal
}

func newProductFixture() *productFixture {
	products := newFakeProductRepo()
	movements := &fakeStockMovementRepo{}
	sequences := newFakeSequenceRepo()

	return &productFixture{
		service:   NewProductService(products, movements, sequences, &fakeAuditRepo{}, &fakeTxManager{}),
		products:  products,
		movements: movements,
		sequences: sequences,
		principal: middleware.Principal{
			ID:      "5a7a1a54-6a4e-4b31-b1da-2a29a0f7c210",
			Role:    model.RoleAdmin,
			StoreID: "store-1",
			OrgID:   "org-1",
		},
	}
}

func TestCreateProductAssignsSequentialID(t *testing.T) {
	f := newProductFixture()
	f.sequences.add("products", "product_id", "P007")

	created, err := f.service.CreateProduct(context.Background(), f.principal, CreateProductRequest{
		ProductName: "Steel Bolt",
		UnitPrice:   "100",
		Quantity:    10,
	})
	require.NoError(t, err)
	require.Equal(t, "P008", created.ProductID)
	require.Equal(t, model.StockIn, created.StockStatus)

	// Initial stock lands in the movement ledger.
	movements, err := f.service.ListMovements(context.Background(), f.principal, "P008")
	require.NoError(t, err)
	require.Len(t, movements, 1)
	require.Equal(t, model.MovementIn, movements[0].MovementType)
	require.Equal(t, 10, movements[0].StockAfter)
}

func TestCreateProductZeroQuantity(t *testing.T) {
	f := newProductFixture()

	created, err := f.service.CreateProduct(context.Background(), f.principal, CreateProductRequest{
		ProductName: "Steel Bolt",
		UnitPrice:   "100",
	})
	require.NoError(t, err)
	require.Equal(t, "P001", created.ProductID)
	require.Equal(t, model.StockOut, created.StockStatus)
	require.Empty(t, f.movements.movements)
}

func TestCreateProductMalformedPrice(t *testing.T) {
	f := newProductFixture()

	_, err := f.service.CreateProduct(context.Background(), f.principal, CreateProductRequest{
		ProductName: "Steel Bolt",
		UnitPrice:   "1,00",
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateProductQuantityLogsMovement(t *testing.T) {
	f := newProductFixture()
	_, err := f.service.CreateProduct(context.Background(), f.principal, CreateProductRequest{
		ProductName: "Steel Bolt",
		UnitPrice:   "100",
		Quantity:    10,
	})
	require.NoError(t, err)

	quantity := 4
	updated, err := f.service.UpdateProduct(context.Background(), f.principal, "P001", UpdateProductRequest{Quantity: &quantity})
	require.NoError(t, err)
	require.Equal(t, 4, updated.Quantity)

	movements, err := f.service.ListMovements(context.Background(), f.principal, "P001")
	require.NoError(t, err)
	require.Len(t, movements, 2)
	require.Equal(t, model.MovementOut, movements[1].MovementType)
	require.Equal(t, -6, movements[1].QuantityChanged)
}

func TestUpdateProductRejectsNegativeQuantity(t *testing.T) {
	f := newProductFixture()

	quantity := -1
	_, err := f.service.UpdateProduct(context.Background(), f.principal, "P001", UpdateProductRequest{Quantity: &quantity})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestDeleteProduct(t *testing.T) {
	f := newProductFixture()
	_, err := f.service.CreateProduct(context.Background(), f.principal, CreateProductRequest{
		ProductName: "Steel Bolt",
		UnitPrice:   "100",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteProduct(context.Background(), f.principal, "P001"))

	err = f.service.DeleteProduct(context.Background(), f.principal, "P001")
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGetProductScopedToStore(t *testing.T) {
	f := newProductFixture()
	other := model.Product{ProductID: "P001", StoreID: "store-2", ProductName: "Other Store Item", UnitPrice: "10"}
	_ = f.products.Create(context.Background(), &other)

	_, err := f.service.GetProduct(context.Background(), f.principal, "P001")
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
