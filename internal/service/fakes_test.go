package service

import (
	"context"
	"sort"
	"strings"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes standing in for the gorm repositories. They keep just
// enough behavior (tenant scoping, conditional updates, record-not-found) for
// the service flows under test.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func key(storeID, id string) string { return storeID + "/" + id }

// --- products ---

type fakeProductRepo struct {
	products map[string]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*model.Product{}}
}

func (f *fakeProductRepo) Create(_ context.Context, product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	clone := *product
	f.products[key(product.StoreID, product.ProductID)] = &clone
	return nil
}

func (f *fakeProductRepo) UpdateFields(_ context.Context, storeID, productID string, fields map[string]interface{}) (int64, error) {
	product, ok := f.products[key(storeID, productID)]
	if !ok {
		return 0, nil
	}
	for name, value := range fields {
		switch name {
		case "quantity":
			product.Quantity = value.(int)
		case "unit_price":
			product.UnitPrice = value.(string)
		case "tax":
			product.Tax = value.(float64)
		case "product_name":
			product.ProductName = value.(string)
		case "is_consumer_returnable":
			product.IsConsumerReturnable = value.(bool)
		case "consumer_return_conditions":
			product.ConsumerReturnConditions = value.(model.StringList)
		case "is_seller_returnable":
			product.IsSellerReturnable = value.(bool)
		case "seller_return_conditions":
			product.SellerReturnConditions = value.(model.StringList)
		}
	}
	return 1, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, storeID, productID string) (int64, error) {
	if _, ok := f.products[key(storeID, productID)]; !ok {
		return 0, nil
	}
	delete(f.products, key(storeID, productID))
	return 1, nil
}

func (f *fakeProductRepo) FindByProductID(_ context.Context, storeID, productID string) (*model.Product, error) {
	product, ok := f.products[key(storeID, productID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *product
	return &clone, nil
}

func (f *fakeProductRepo) FindByProductIDForUpdate(ctx context.Context, storeID, productID string) (*model.Product, error) {
	return f.FindByProductID(ctx, storeID, productID)
}

func (f *fakeProductRepo) FindByName(_ context.Context, storeID, productName string) (*model.Product, error) {
	for _, product := range f.products {
		if product.StoreID == storeID && product.ProductName == productName {
			clone := *product
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) List(_ context.Context, storeID string, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	for _, product := range f.products {
		if product.StoreID == storeID {
			products = append(products, *product)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ProductID < products[j].ProductID })
	return products, int64(len(products)), nil
}

func (f *fakeProductRepo) UpdateQuantity(_ context.Context, storeID, productID string, quantity int) error {
	if product, ok := f.products[key(storeID, productID)]; ok {
		product.Quantity = quantity
	}
	return nil
}

// --- sales orders ---

type fakeSalesOrderRepo struct {
	orders map[string]*model.SalesOrder
}

func newFakeSalesOrderRepo() *fakeSalesOrderRepo {
	return &fakeSalesOrderRepo{orders: map[string]*model.SalesOrder{}}
}

func (f *fakeSalesOrderRepo) Create(_ context.Context, order *model.SalesOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	clone := *order
	f.orders[key(order.StoreID, order.OrderID)] = &clone
	return nil
}

func (f *fakeSalesOrderRepo) FindByOrderID(_ context.Context, storeID, orderID string) (*model.SalesOrder, error) {
	order, ok := f.orders[key(storeID, orderID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeSalesOrderRepo) FindByOrderIDAndStatus(ctx context.Context, storeID, orderID, status string) (*model.SalesOrder, error) {
	order, err := f.FindByOrderID(ctx, storeID, orderID)
	if err != nil || order.OrderStatus != status {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeSalesOrderRepo) ListByStatus(_ context.Context, storeID, status string, page, limit int) ([]model.SalesOrder, int64, error) {
	var orders []model.SalesOrder
	for _, order := range f.orders {
		if order.StoreID == storeID && order.OrderStatus == status {
			orders = append(orders, *order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderID < orders[j].OrderID })
	return orders, int64(len(orders)), nil
}

func (f *fakeSalesOrderRepo) MarkSold(_ context.Context, storeID, orderID string) (int64, error) {
	order, ok := f.orders[key(storeID, orderID)]
	if !ok || order.OrderStatus != model.OrderStatusReceived {
		return 0, nil
	}
	order.OrderStatus = model.OrderStatusSold
	return 1, nil
}

func (f *fakeSalesOrderRepo) Save(_ context.Context, order *model.SalesOrder) error {
	stored, ok := f.orders[key(order.StoreID, order.OrderID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	lines := stored.Lines
	clone := *order
	clone.Lines = lines
	f.orders[key(order.StoreID, order.OrderID)] = &clone
	return nil
}

func (f *fakeSalesOrderRepo) ReplaceLines(_ context.Context, orderUUID uuid.UUID, lines []model.SalesOrderLine) error {
	for _, order := range f.orders {
		if order.ID == orderUUID {
			order.Lines = append([]model.SalesOrderLine(nil), lines...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeSalesOrderRepo) Delete(_ context.Context, storeID, orderID string) (int64, error) {
	if _, ok := f.orders[key(storeID, orderID)]; !ok {
		return 0, nil
	}
	delete(f.orders, key(storeID, orderID))
	return 1, nil
}

// --- return orders ---

type fakeReturnOrderRepo struct {
	returns map[string]*model.ReturnOrder
}

func newFakeReturnOrderRepo() *fakeReturnOrderRepo {
	return &fakeReturnOrderRepo{returns: map[string]*model.ReturnOrder{}}
}

func (f *fakeReturnOrderRepo) Create(_ context.Context, order *model.ReturnOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	clone := *order
	f.returns[key(order.StoreID, order.ReturnID)] = &clone
	return nil
}

func (f *fakeReturnOrderRepo) FindByReturnID(_ context.Context, storeID, returnID string) (*model.ReturnOrder, error) {
	order, ok := f.returns[key(storeID, returnID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeReturnOrderRepo) List(_ context.Context, storeID string, sent *int) ([]model.ReturnOrder, error) {
	var orders []model.ReturnOrder
	for _, order := range f.returns {
		if order.StoreID != storeID {
			continue
		}
		if sent != nil && order.SentToProcurement != *sent {
			continue
		}
		orders = append(orders, *order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ReturnID < orders[j].ReturnID })
	return orders, nil
}

func (f *fakeReturnOrderRepo) MarkSentToProcurement(_ context.Context, storeID, returnID string) (int64, error) {
	order, ok := f.returns[key(storeID, returnID)]
	if !ok {
		return 0, nil
	}
	order.SentToProcurement = model.ReturnWithProcurement
	return 1, nil
}

func (f *fakeReturnOrderRepo) Delete(_ context.Context, storeID, returnID string) (int64, error) {
	if _, ok := f.returns[key(storeID, returnID)]; !ok {
		return 0, nil
	}
	delete(f.returns, key(storeID, returnID))
	return 1, nil
}

// --- vendor returns ---

type fakeVendorReturnRepo struct {
	returns map[string]*model.ReturnToVendor
}

func newFakeVendorReturnRepo() *fakeVendorReturnRepo {
	return &fakeVendorReturnRepo{returns: map[string]*model.ReturnToVendor{}}
}

func (f *fakeVendorReturnRepo) Create(_ context.Context, ret *model.ReturnToVendor) error {
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	clone := *ret
	f.returns[key(ret.StoreID, ret.ReturnID)] = &clone
	return nil
}

func (f *fakeVendorReturnRepo) FindByReturnID(_ context.Context, storeID, returnID string) (*model.ReturnToVendor, error) {
	ret, ok := f.returns[key(storeID, returnID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *ret
	return &clone, nil
}

func (f *fakeVendorReturnRepo) List(_ context.Context, storeID string) ([]model.ReturnToVendor, error) {
	var returns []model.ReturnToVendor
	for _, ret := range f.returns {
		if ret.StoreID == storeID {
			returns = append(returns, *ret)
		}
	}
	sort.Slice(returns, func(i, j int) bool { return returns[i].ReturnID < returns[j].ReturnID })
	return returns, nil
}

func (f *fakeVendorReturnRepo) LastReturnID(_ context.Context, storeID string) (string, error) {
	last := ""
	for _, ret := range f.returns {
		if ret.StoreID == storeID && ret.ReturnID > last {
			last = ret.ReturnID
		}
	}
	return last, nil
}

// --- loss orders ---

type fakeLossOrderRepo struct {
	losses []model.LossOrder
}

func (f *fakeLossOrderRepo) Create(_ context.Context, loss *model.LossOrder) error {
	if loss.ID == uuid.Nil {
		loss.ID = uuid.New()
	}
	f.losses = append(f.losses, *loss)
	return nil
}

func (f *fakeLossOrderRepo) List(_ context.Context, storeID, orgID string) ([]model.LossOrder, error) {
	var losses []model.LossOrder
	for _, loss := range f.losses {
		if loss.StoreID == storeID {
			losses = append(losses, loss)
		}
	}
	return losses, nil
}

// --- purchase orders ---

type fakePurchaseOrderRepo struct {
	orders map[string]*model.PurchaseOrder
}

func newFakePurchaseOrderRepo() *fakePurchaseOrderRepo {
	return &fakePurchaseOrderRepo{orders: map[string]*model.PurchaseOrder{}}
}

func (f *fakePurchaseOrderRepo) Create(_ context.Context, order *model.PurchaseOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	clone := *order
	f.orders[key(order.StoreID, order.OrderID)] = &clone
	return nil
}

func (f *fakePurchaseOrderRepo) FindByOrderID(_ context.Context, storeID, orderID string) (*model.PurchaseOrder, error) {
	order, ok := f.orders[key(storeID, orderID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakePurchaseOrderRepo) List(_ context.Context, storeID string) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	for _, order := range f.orders {
		if order.StoreID == storeID {
			orders = append(orders, *order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderID < orders[j].OrderID })
	return orders, nil
}

func (f *fakePurchaseOrderRepo) MarkReceived(_ context.Context, storeID, orderID string) (int64, error) {
	order, ok := f.orders[key(storeID, orderID)]
	if !ok {
		return 0, nil
	}
	order.ReceivedStatus = model.ReceivedStatusReceived
	return 1, nil
}

func (f *fakePurchaseOrderRepo) CompleteValidation(_ context.Context, storeID, orderID string) (int64, error) {
	order, ok := f.orders[key(storeID, orderID)]
	if !ok {
		return 0, nil
	}
	order.ValidationStatus = model.ValidationStatusCompleted
	order.ReceivedStatus = model.ReceivedStatusReceived
	return 1, nil
}

// --- requested orders ---

type fakeRequestedOrderRepo struct {
	orders []model.RequestedOrder
}

func (f *fakeRequestedOrderRepo) Create(_ context.Context, order *model.RequestedOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeRequestedOrderRepo) List(_ context.Context, storeID string) ([]model.RequestedOrder, error) {
	var orders []model.RequestedOrder
	for _, order := range f.orders {
		if order.StoreID == storeID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// --- contracts ---

type fakeContractRepo struct {
	contracts map[string]*model.Contract
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: map[string]*model.Contract{}}
}

func (f *fakeContractRepo) Create(_ context.Context, contract *model.Contract) error {
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	clone := *contract
	f.contracts[key(contract.StoreID, contract.ContractID)] = &clone
	return nil
}

func (f *fakeContractRepo) FindByContractID(_ context.Context, storeID, contractID string) (*model.Contract, error) {
	contract, ok := f.contracts[key(storeID, contractID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *contract
	return &clone, nil
}

func (f *fakeContractRepo) List(_ context.Context, storeID string) ([]model.Contract, error) {
	var contracts []model.Contract
	for _, contract := range f.contracts {
		if contract.StoreID == storeID {
			contracts = append(contracts, *contract)
		}
	}
	return contracts, nil
}

// --- stock movements ---

type fakeStockMovementRepo struct {
	movements []model.StockMovement
}

func (f *fakeStockMovementRepo) Create(_ context.Context, movement *model.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	f.movements = append(f.movements, *movement)
	return nil
}

func (f *fakeStockMovementRepo) ListByProduct(_ context.Context, storeID, productID string) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	for _, movement := range f.movements {
		if movement.StoreID == storeID && movement.ProductID == productID {
			movements = append(movements, movement)
		}
	}
	return movements, nil
}

// --- audit ---

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, storeID string, page, limit int) ([]model.AuditLog, int64, error) {
	var entries []model.AuditLog
	for _, entry := range f.entries {
		if entry.StoreID == storeID {
			entries = append(entries, entry)
		}
	}
	return entries, int64(len(entries)), nil
}

// --- sequences ---

// fakeSequenceRepo scans the registered id sets the way the real repository
// scans tables, so freshly created records advance the sequence.
type fakeSequenceRepo struct {
	ids map[string][]string // "table/field" -> existing identifiers
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{ids: map[string][]string{}}
}

func (f *fakeSequenceRepo) add(table, field, id string) {
	f.ids[table+"/"+field] = append(f.ids[table+"/"+field], id)
}

func (f *fakeSequenceRepo) LastID(_ context.Context, table, field, prefix, storeID string) (string, error) {
	best := ""
	bestN := -1
	for _, id := range f.ids[table+"/"+field] {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if n := parseSuffix(id, prefix); n > bestN {
			bestN = n
			best = id
		}
	}
	return best, nil
}

func parseSuffix(id, prefix string) int {
	n := 0
	for _, r := range id[len(prefix):] {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
