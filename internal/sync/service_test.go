package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"fireworks-wms-api-server/internal/models"
	"fireworks-wms-api-server/internal/shopify"

	"go.uber.org/zap"
)

// --- fakes ---

type fakeShop struct {
	configuredErr error
	pages         [][]shopify.Product
	failPage      int // 1-based page number that returns an error, 0 = none
	levels        map[int64]int
	levelsErr     error
	orders        []shopify.Order
	ordersErr     error
}

func (f *fakeShop) Configured() error { return f.configuredErr }

func (f *fakeShop) ProductsPage(ctx context.Context, limit int, pageInfo string) ([]shopify.Product, string, error) {
	page := 1
	if pageInfo != "" {
		fmt.Sscanf(pageInfo, "page-%d", &page)
	}
	if f.failPage != 0 && page == f.failPage {
		return nil, "", &shopify.APIError{Status: 500}
	}
	if page > len(f.pages) {
		return nil, "", nil
	}
	next := ""
	if page < len(f.pages) {
		next = fmt.Sprintf("page-%d", page+1)
	}
	return f.pages[page-1], next, nil
}

func (f *fakeShop) InventoryLevels(ctx context.Context, ids []int64) ([]shopify.InventoryLevel, error) {
	if f.levelsErr != nil {
		return nil, f.levelsErr
	}
	result := []shopify.InventoryLevel{}
	for _, id := range ids {
		if available, ok := f.levels[id]; ok {
			a := available
			result = append(result, shopify.InventoryLevel{InventoryItemID: id, Available: &a})
		}
	}
	return result, nil
}

func (f *fakeShop) Orders(ctx context.Context, createdAtMin time.Time, limit int) ([]shopify.Order, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return f.orders, nil
}

type fakeProductStore struct {
	nextID   int64
	products []*models.Product
	failSKU  string
}

func (f *fakeProductStore) FindByShopifyVariantID(ctx context.Context, variantID int64) (*models.Product, error) {
	for _, p := range f.products {
		if p.ShopifyVariantID != nil && *p.ShopifyVariantID == variantID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductStore) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductStore) Create(ctx context.Context, p *models.Product) error {
	if p.SKU == f.failSKU {
		return errors.New("insert rejected")
	}
	f.nextID++
	p.ID = f.nextID
	f.products = append(f.products, p)
	return nil
}

func (f *fakeProductStore) Update(ctx context.Context, p *models.Product) error {
	if p.SKU == f.failSKU {
		return errors.New("update rejected")
	}
	return nil
}

type fakeSyncOrderStore struct {
	nextID        int64
	nextItemID    int64
	orders        map[int64]*models.Order // keyed by shopify id
	items         map[int64][]models.OrderItem
	failShopifyID int64
	itemUpdates   int
	itemCreates   int
	itemDeletes   int
}

func newFakeSyncOrderStore() *fakeSyncOrderStore {
	return &fakeSyncOrderStore{
		orders: map[int64]*models.Order{},
		items:  map[int64][]models.OrderItem{},
	}
}

func (f *fakeSyncOrderStore) FindByShopifyID(ctx context.Context, shopifyID int64) (*models.Order, error) {
	if o, ok := f.orders[shopifyID]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeSyncOrderStore) Create(ctx context.Context, o *models.Order) error {
	if o.ShopifyID == f.failShopifyID {
		return errors.New("insert rejected")
	}
	f.nextID++
	o.ID = f.nextID
	copied := *o
	f.orders[o.ShopifyID] = &copied
	return nil
}

func (f *fakeSyncOrderStore) Update(ctx context.Context, o *models.Order) error {
	copied := *o
	f.orders[o.ShopifyID] = &copied
	return nil
}

func (f *fakeSyncOrderStore) ItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return append([]models.OrderItem{}, f.items[orderID]...), nil
}

func (f *fakeSyncOrderStore) CreateItem(ctx context.Context, item *models.OrderItem) error {
	f.nextItemID++
	item.ID = f.nextItemID
	f.items[item.OrderID] = append(f.items[item.OrderID], *item)
	f.itemCreates++
	return nil
}

func (f *fakeSyncOrderStore) UpdateItem(ctx context.Context, item *models.OrderItem) error {
	for i, existing := range f.items[item.OrderID] {
		if existing.ID == item.ID {
			f.items[item.OrderID][i] = *item
			f.itemUpdates++
			return nil
		}
	}
	return errors.New("item not found")
}

func (f *fakeSyncOrderStore) DeleteItem(ctx context.Context, id int64) error {
	for orderID, items := range f.items {
		for i, item := range items {
			if item.ID == id {
				f.items[orderID] = append(items[:i], items[i+1:]...)
				f.itemDeletes++
				return nil
			}
		}
	}
	return errors.New("item not found")
}

func newTestService(shop *fakeShop, products *fakeProductStore, orders *fakeSyncOrderStore) *Service {
	return NewService(shop, products, orders, zap.NewNop())
}

// --- product sync ---

func catalogPage() []shopify.Product {
	return []shopify.Product{
		{
			ID: 100, Title: "Rocket Set", Vendor: "PyroCorp", ProductType: "Rockets",
			Images: []shopify.Image{{Src: "https://cdn.example.com/rocket.jpg"}},
			Variants: []shopify.Variant{
				{ID: 1001, ProductID: 100, Title: "Default", SKU: "FW-100", Price: "29.99",
					InventoryItemID: 501, InventoryQuantity: 3, Barcode: "4001234500017"},
			},
		},
		{
			ID: 200, Title: "Fountain", Vendor: "PyroCorp", ProductType: "Fountains",
			Variants: []shopify.Variant{
				{ID: 2001, ProductID: 200, Title: "Small", SKU: "FW-200", Price: "9.99",
					InventoryItemID: 502, InventoryQuantity: 8},
				{ID: 2002, ProductID: 200, Title: "Large", SKU: "", Price: "19.99",
					InventoryItemID: 503, InventoryQuantity: 2},
			},
		},
	}
}

func TestSyncProductsMissingCredentials(t *testing.T) {
	shop := &fakeShop{configuredErr: shopify.ErrMissingCredentials}
	service := newTestService(shop, &fakeProductStore{}, newFakeSyncOrderStore())

	_, err := service.SyncProducts(context.Background())
	if !errors.Is(err, shopify.ErrMissingCredentials) {
		t.Fatalf("Expected ErrMissingCredentials, got %v", err)
	}
}

func TestSyncProductsCreatesVariants(t *testing.T) {
	shop := &fakeShop{
		pages:  [][]shopify.Product{catalogPage()},
		levels: map[int64]int{501: 12},
	}
	products := &fakeProductStore{}
	service := newTestService(shop, products, newFakeSyncOrderStore())

	summary, err := service.SyncProducts(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.Created != 3 || summary.Updated != 0 || summary.Errors != 0 || summary.Total != 3 {
		t.Fatalf("Expected 3 creates, got %+v", summary)
	}

	rocket, _ := products.FindBySKU(context.Background(), "FW-100")
	if rocket == nil {
		t.Fatalf("Expected FW-100 to exist")
	}
	// Inventory-levels map wins over the embedded quantity.
	if rocket.CurrentStock != 12 {
		t.Errorf("Expected stock 12 from inventory levels, got %d", rocket.CurrentStock)
	}

	fountain, _ := products.FindBySKU(context.Background(), "FW-200")
	if fountain == nil || fountain.CurrentStock != 8 {
		t.Errorf("Expected FW-200 stock 8 from embedded quantity, got %+v", fountain)
	}

	// Blank upstream SKU falls back to "{productID}-{variantID}".
	large, _ := products.FindBySKU(context.Background(), "200-2002")
	if large == nil {
		t.Errorf("Expected fallback SKU 200-2002 to exist")
	}
}

func TestSyncProductsIdempotent(t *testing.T) {
	shop := &fakeShop{pages: [][]shopify.Product{catalogPage()}}
	products := &fakeProductStore{}
	service := newTestService(shop, products, newFakeSyncOrderStore())

	if _, err := service.SyncProducts(context.Background()); err != nil {
		t.Fatalf("Expected no error on first run, got %v", err)
	}

	summary, err := service.SyncProducts(context.Background())
	if err != nil {
		t.Fatalf("Expected no error on second run, got %v", err)
	}
	if summary.Created != 0 {
		t.Errorf("Expected zero creates on second run, got %d", summary.Created)
	}
	if summary.Updated != 3 {
		t.Errorf("Expected 3 updates on second run, got %d", summary.Updated)
	}
	if len(products.products) != 3 {
		t.Errorf("Expected 3 products after two runs, got %d", len(products.products))
	}
}

func TestSyncProductsKeepsWarehouseFields(t *testing.T) {
	shop := &fakeShop{pages: [][]shopify.Product{catalogPage()}}
	products := &fakeProductStore{}
	service := newTestService(shop, products, newFakeSyncOrderStore())

	if _, err := service.SyncProducts(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rocket, _ := products.FindBySKU(context.Background(), "FW-100")
	location := "A-01-1-1"
	rocket.MinStock = 5
	rocket.StorageLocation = &location

	if _, err := service.SyncProducts(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rocket, _ = products.FindBySKU(context.Background(), "FW-100")
	if rocket.MinStock != 5 {
		t.Errorf("Expected min stock to survive sync, got %d", rocket.MinStock)
	}
	if rocket.StorageLocation == nil || *rocket.StorageLocation != "A-01-1-1" {
		t.Errorf("Expected storage location to survive sync, got %v", rocket.StorageLocation)
	}
}

func TestSyncProductsSecondPageFailureKeepsFirstPage(t *testing.T) {
	shop := &fakeShop{
		pages: [][]shopify.Product{
			catalogPage(),
			{{ID: 300, Title: "Battery", Variants: []shopify.Variant{{ID: 3001, SKU: "FW-300"}}}},
			{{ID: 400, Title: "Finale", Variants: []shopify.Variant{{ID: 4001, SKU: "FW-400"}}}},
		},
		failPage: 2,
	}
	products := &fakeProductStore{}
	service := newTestService(shop, products, newFakeSyncOrderStore())

	summary, err := service.SyncProducts(context.Background())
	if err != nil {
		t.Fatalf("Expected partial success without error, got %v", err)
	}
	if summary.Created != 3 || summary.Total != 3 {
		t.Errorf("Expected only page 1 processed, got %+v", summary)
	}
	if p, _ := products.FindBySKU(context.Background(), "FW-300"); p != nil {
		t.Errorf("Expected page 2 product to be absent")
	}
}

func TestSyncProductsFirstPageFailure(t *testing.T) {
	shop := &fakeShop{pages: [][]shopify.Product{catalogPage()}, failPage: 1}
	service := newTestService(shop, &fakeProductStore{}, newFakeSyncOrderStore())

	if _, err := service.SyncProducts(context.Background()); err == nil {
		t.Fatalf("Expected hard error when the first page fails")
	}
}

func TestSyncProductsCountsRecordErrors(t *testing.T) {
	shop := &fakeShop{pages: [][]shopify.Product{catalogPage()}}
	products := &fakeProductStore{failSKU: "FW-200"}
	service := newTestService(shop, products, newFakeSyncOrderStore())

	summary, err := service.SyncProducts(context.Background())
	if err != nil {
		t.Fatalf("Expected batch to continue past record failure, got %v", err)
	}
	if summary.Errors != 1 {
		t.Errorf("Expected 1 record error, got %d", summary.Errors)
	}
	if summary.Created != 2 {
		t.Errorf("Expected the other 2 variants created, got %d", summary.Created)
	}
}

// --- order sync ---

func remoteOrder() shopify.Order {
	return shopify.Order{
		ID: 9001, OrderNumber: 1001, Email: "anna@example.com",
		FinancialStatus: "paid", TotalPrice: "49.98",
		Customer:        &shopify.Customer{FirstName: "Anna", LastName: "Berger"},
		ShippingAddress: &shopify.ShippingAddress{City: "Hamburg"},
		LineItems: []shopify.LineItem{
			{ID: 1, SKU: "FW-100", Title: "Rocket Set", Quantity: 2, Price: "29.99"},
			{ID: 2, SKU: "UNKNOWN-999", Title: "Mystery", Quantity: 1, Price: "5.00"},
		},
		CreatedAt: time.Now().Add(-24 * time.Hour),
		UpdatedAt: time.Now(),
	}
}

func TestSyncOrdersCreatesOrderWithItems(t *testing.T) {
	products := &fakeProductStore{}
	fw100 := &models.Product{ID: 7, SKU: "FW-100"}
	products.products = append(products.products, fw100)

	shop := &fakeShop{orders: []shopify.Order{remoteOrder()}}
	orders := newFakeSyncOrderStore()
	service := newTestService(shop, products, orders)

	summary, err := service.SyncOrders(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Created != 1 || summary.Errors != 0 {
		t.Fatalf("Expected 1 created order, got %+v", summary)
	}

	local := orders.orders[9001]
	if local == nil {
		t.Fatalf("Expected order to exist")
	}
	if local.OrderNumber != "1001" {
		t.Errorf("Expected order number 1001, got %q", local.OrderNumber)
	}
	if local.CustomerName != "Anna Berger" {
		t.Errorf("Expected customer name from first/last, got %q", local.CustomerName)
	}
	if local.FulfillmentStatus != models.FulfillmentUnfulfilled {
		t.Errorf("Expected null upstream status to map to unfulfilled, got %q", local.FulfillmentStatus)
	}

	items := orders.items[local.ID]
	if len(items) != 2 {
		t.Fatalf("Expected 2 line items, got %d", len(items))
	}
	if items[0].ProductID == nil || *items[0].ProductID != 7 {
		t.Errorf("Expected FW-100 resolved to product 7, got %v", items[0].ProductID)
	}
	// SKU misses stay importable, just unresolved.
	if items[1].ProductID != nil {
		t.Errorf("Expected UNKNOWN-999 to stay unresolved, got %v", items[1].ProductID)
	}
}

func TestSyncOrdersDiffsLineItems(t *testing.T) {
	shop := &fakeShop{orders: []shopify.Order{remoteOrder()}}
	orders := newFakeSyncOrderStore()
	service := newTestService(shop, &fakeProductStore{}, orders)

	if _, err := service.SyncOrders(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	firstRunItems := orders.items[orders.orders[9001].ID]
	keptItemID := firstRunItems[0].ID

	// Upstream changed: line 1 quantity bumped, line 2 removed, line 3 new.
	changed := remoteOrder()
	changed.LineItems = []shopify.LineItem{
		{ID: 1, SKU: "FW-100", Title: "Rocket Set", Quantity: 5, Price: "29.99"},
		{ID: 3, SKU: "FW-300", Title: "Battery", Quantity: 1, Price: "39.99"},
	}
	shop.orders = []shopify.Order{changed}
	orders.itemCreates, orders.itemUpdates, orders.itemDeletes = 0, 0, 0

	summary, err := service.SyncOrders(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Updated != 1 || summary.Created != 0 {
		t.Fatalf("Expected 1 updated order, got %+v", summary)
	}

	if orders.itemUpdates != 1 || orders.itemCreates != 1 || orders.itemDeletes != 1 {
		t.Errorf("Expected update/insert/delete of 1 each, got updates=%d creates=%d deletes=%d",
			orders.itemUpdates, orders.itemCreates, orders.itemDeletes)
	}

	items := orders.items[orders.orders[9001].ID]
	if len(items) != 2 {
		t.Fatalf("Expected 2 items after diff, got %d", len(items))
	}
	// The changed row kept its local identity instead of being re-inserted.
	if items[0].ID != keptItemID {
		t.Errorf("Expected line 1 to keep its row id %d, got %d", keptItemID, items[0].ID)
	}
	if items[0].Quantity != 5 {
		t.Errorf("Expected updated quantity 5, got %d", items[0].Quantity)
	}
}

func TestSyncOrdersUnchangedItemsAreNotRewritten(t *testing.T) {
	shop := &fakeShop{orders: []shopify.Order{remoteOrder()}}
	orders := newFakeSyncOrderStore()
	service := newTestService(shop, &fakeProductStore{}, orders)

	if _, err := service.SyncOrders(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	orders.itemCreates, orders.itemUpdates, orders.itemDeletes = 0, 0, 0
	if _, err := service.SyncOrders(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if orders.itemCreates != 0 || orders.itemUpdates != 0 || orders.itemDeletes != 0 {
		t.Errorf("Expected no item writes on unchanged resync, got creates=%d updates=%d deletes=%d",
			orders.itemCreates, orders.itemUpdates, orders.itemDeletes)
	}
}

func TestSyncOrdersCountsPerOrderErrors(t *testing.T) {
	bad := remoteOrder()
	good := remoteOrder()
	good.ID = 9002
	good.OrderNumber = 1002

	shop := &fakeShop{orders: []shopify.Order{bad, good}}
	orders := newFakeSyncOrderStore()
	orders.failShopifyID = 9001
	service := newTestService(shop, &fakeProductStore{}, orders)

	summary, err := service.SyncOrders(context.Background())
	if err != nil {
		t.Fatalf("Expected batch to continue past order failure, got %v", err)
	}
	if summary.Errors != 1 || summary.Created != 1 || summary.Total != 2 {
		t.Errorf("Expected 1 error and 1 create, got %+v", summary)
	}
}

func TestSyncOrdersFetchFailure(t *testing.T) {
	shop := &fakeShop{ordersErr: &shopify.APIError{Status: 503}}
	service := newTestService(shop, &fakeProductStore{}, newFakeSyncOrderStore())

	if _, err := service.SyncOrders(context.Background()); err == nil {
		t.Fatalf("Expected hard error when the order fetch fails")
	}
}
