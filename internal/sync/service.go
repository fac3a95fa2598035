// Package sync reconciles the local product and order tables against the
// shop system's current state.
package sync

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fireworks-wms-api-server/internal/models"
	"fireworks-wms-api-server/internal/shopify"

	"go.uber.org/zap"
)

const (
	productPageLimit   = 250
	maxProductPages    = 50
	inventoryBatchSize = 50
	orderWindow        = 90 * 24 * time.Hour
	orderLimit         = 250
)

// Summary is the outcome of one sync run. Per-record failures are counted,
// not raised; only total inability to start surfaces as an error.
type Summary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
	Total   int `json:"total"`
}

// ShopAPI is the slice of the Shopify client the synchronizer needs.
type ShopAPI interface {
	Configured() error
	ProductsPage(ctx context.Context, limit int, pageInfo string) ([]shopify.Product, string, error)
	InventoryLevels(ctx context.Context, inventoryItemIDs []int64) ([]shopify.InventoryLevel, error)
	Orders(ctx context.Context, createdAtMin time.Time, limit int) ([]shopify.Order, error)
}

type ProductStore interface {
	FindByShopifyVariantID(ctx context.Context, variantID int64) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
}

type OrderStore interface {
	FindByShopifyID(ctx context.Context, shopifyID int64) (*models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	Update(ctx context.Context, o *models.Order) error
	ItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	CreateItem(ctx context.Context, item *models.OrderItem) error
	UpdateItem(ctx context.Context, item *models.OrderItem) error
	DeleteItem(ctx context.Context, id int64) error
}

type Service struct {
	Shop     ShopAPI
	Products ProductStore
	Orders   OrderStore
	Log      *zap.Logger
}

func NewService(shop ShopAPI, products ProductStore, orders OrderStore, log *zap.Logger) *Service {
	return &Service{Shop: shop, Products: products, Orders: orders, Log: log}
}

// SyncProducts pulls the full catalog page by page and upserts every variant
// as a local product, matched by shopify variant id or SKU. A failing page
// after the first stops paging but keeps what was fetched; a failing record
// is counted and skipped.
func (s *Service) SyncProducts(ctx context.Context) (*Summary, error) {
	if err := s.Shop.Configured(); err != nil {
		return nil, err
	}

	remote := []shopify.Product{}
	pageInfo := ""
	for page := 0; page < maxProductPages; page++ {
		products, next, err := s.Shop.ProductsPage(ctx, productPageLimit, pageInfo)
		if err != nil {
			if page == 0 {
				return nil, fmt.Errorf("failed to fetch products: %w", err)
			}
			s.Log.Warn("product paging stopped early", zap.Int("page", page+1), zap.Error(err))
			break
		}
		remote = append(remote, products...)
		if next == "" {
			break
		}
		pageInfo = next
	}

	levels := s.fetchInventoryLevels(ctx, remote)

	summary := &Summary{}
	now := time.Now()
	for _, rp := range remote {
		for _, v := range rp.Variants {
			summary.Total++
			created, err := s.upsertVariant(ctx, rp, v, levels, now)
			if err != nil {
				summary.Errors++
				s.Log.Error("failed to upsert product variant",
					zap.Int64("variantID", v.ID), zap.String("sku", v.SKU), zap.Error(err))
				continue
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
		}
	}

	s.Log.Info("product sync finished",
		zap.Int("created", summary.Created), zap.Int("updated", summary.Updated),
		zap.Int("errors", summary.Errors), zap.Int("total", summary.Total))
	return summary, nil
}

// fetchInventoryLevels collects every variant's inventory item id and fetches
// the available quantities in sequential batches. A failing batch is logged
// and skipped; affected variants fall back to their embedded
// inventory_quantity.
func (s *Service) fetchInventoryLevels(ctx context.Context, remote []shopify.Product) map[int64]int {
	ids := []int64{}
	for _, rp := range remote {
		for _, v := range rp.Variants {
			if v.InventoryItemID != 0 {
				ids = append(ids, v.InventoryItemID)
			}
		}
	}

	levels := map[int64]int{}
	for start := 0; start < len(ids); start += inventoryBatchSize {
		end := start + inventoryBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := s.Shop.InventoryLevels(ctx, ids[start:end])
		if err != nil {
			s.Log.Warn("failed to fetch inventory levels batch", zap.Int("offset", start), zap.Error(err))
			continue
		}
		for _, level := range batch {
			if level.Available != nil {
				levels[level.InventoryItemID] = *level.Available
			}
		}
	}

	return levels
}

func (s *Service) upsertVariant(ctx context.Context, rp shopify.Product, v shopify.Variant, levels map[int64]int, now time.Time) (created bool, err error) {
	sku := strings.TrimSpace(v.SKU)
	if sku == "" {
		// Deterministic fallback so every variant stays addressable.
		sku = fmt.Sprintf("%d-%d", rp.ID, v.ID)
	}

	stock, ok := levels[v.InventoryItemID]
	if !ok {
		stock = v.InventoryQuantity
	}
	if stock < 0 {
		stock = 0
	}

	existing, err := s.Products.FindByShopifyVariantID(ctx, v.ID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		existing, err = s.Products.FindBySKU(ctx, sku)
		if err != nil {
			return false, err
		}
	}

	name := rp.Title
	variantTitle := v.Title
	price, _ := strconv.ParseFloat(v.Price, 64)
	var imageURL *string
	if len(rp.Images) > 0 {
		imageURL = strPtr(rp.Images[0].Src)
	}

	if existing == nil {
		p := &models.Product{
			ShopifyProductID: int64Ptr(rp.ID),
			ShopifyVariantID: int64Ptr(v.ID),
			SKU:              sku,
			Barcode:          strPtr(v.Barcode),
			Name:             name,
			VariantTitle:     strPtr(variantTitle),
			Price:            price,
			CurrentStock:     stock,
			ProductType:      strPtr(rp.ProductType),
			Vendor:           strPtr(rp.Vendor),
			ImageURL:         imageURL,
			LastSyncedAt:     &now,
		}
		return true, s.Products.Create(ctx, p)
	}

	// Warehouse-side fields (min_stock, storage_location) are never
	// overwritten by a sync.
	existing.ShopifyProductID = int64Ptr(rp.ID)
	existing.ShopifyVariantID = int64Ptr(v.ID)
	existing.SKU = sku
	existing.Barcode = strPtr(v.Barcode)
	existing.Name = name
	existing.VariantTitle = strPtr(variantTitle)
	existing.Price = price
	existing.CurrentStock = stock
	existing.ProductType = strPtr(rp.ProductType)
	existing.Vendor = strPtr(rp.Vendor)
	existing.ImageURL = imageURL
	existing.LastSyncedAt = &now
	return false, s.Products.Update(ctx, existing)
}

// SyncOrders fetches orders created within the trailing window and upserts
// them by shopify id. Line items are diffed by their shopify line id so rows
// that did not change upstream keep their local identity.
func (s *Service) SyncOrders(ctx context.Context) (*Summary, error) {
	if err := s.Shop.Configured(); err != nil {
		return nil, err
	}

	remote, err := s.Shop.Orders(ctx, time.Now().Add(-orderWindow), orderLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	summary := &Summary{}
	now := time.Now()
	for _, ro := range remote {
		summary.Total++
		created, err := s.upsertOrder(ctx, ro, now)
		if err != nil {
			summary.Errors++
			s.Log.Error("failed to upsert order",
				zap.Int64("shopifyID", ro.ID), zap.Int64("orderNumber", ro.OrderNumber), zap.Error(err))
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	s.Log.Info("order sync finished",
		zap.Int("created", summary.Created), zap.Int("updated", summary.Updated),
		zap.Int("errors", summary.Errors), zap.Int("total", summary.Total))
	return summary, nil
}

func (s *Service) upsertOrder(ctx context.Context, ro shopify.Order, now time.Time) (created bool, err error) {
	local, err := s.Orders.FindByShopifyID(ctx, ro.ID)
	if err != nil {
		return false, err
	}

	status := models.FulfillmentUnfulfilled
	if ro.FulfillmentStatus != nil && *ro.FulfillmentStatus != "" {
		status = *ro.FulfillmentStatus
	}

	email := ro.Email
	if email == "" && ro.Customer != nil {
		email = ro.Customer.Email
	}
	var city *string
	if ro.ShippingAddress != nil {
		city = strPtr(ro.ShippingAddress.City)
	}
	totalPrice, _ := strconv.ParseFloat(ro.TotalPrice, 64)

	mapped := models.Order{
		ShopifyID:         ro.ID,
		OrderNumber:       strconv.FormatInt(ro.OrderNumber, 10),
		CustomerName:      customerName(ro.Customer),
		Email:             strPtr(email),
		ShippingCity:      city,
		TotalPrice:        totalPrice,
		FinancialStatus:   ro.FinancialStatus,
		FulfillmentStatus: status,
		CancelledAt:       ro.CancelledAt,
		Note:              strPtr(ro.Note),
		Tags:              strPtr(ro.Tags),
		CreatedAt:         ro.CreatedAt,
		UpdatedAt:         ro.UpdatedAt,
		LastSyncedAt:      &now,
	}

	if local == nil {
		if err := s.Orders.Create(ctx, &mapped); err != nil {
			return false, err
		}
		created = true
		local = &mapped
	} else {
		mapped.ID = local.ID
		if err := s.Orders.Update(ctx, &mapped); err != nil {
			return false, err
		}
		local = &mapped
	}

	if err := s.syncOrderItems(ctx, local.ID, ro.LineItems); err != nil {
		return created, err
	}
	return created, nil
}

// syncOrderItems diffs the order's local line items against the upstream set
// keyed by shopify line id: changed rows are updated in place, new ones
// inserted, vanished ones deleted.
func (s *Service) syncOrderItems(ctx context.Context, orderID int64, remote []shopify.LineItem) error {
	existing, err := s.Orders.ItemsByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	byLineID := make(map[int64]*models.OrderItem, len(existing))
	for i := range existing {
		byLineID[existing[i].ShopifyLineID] = &existing[i]
	}

	seen := map[int64]bool{}
	for _, line := range remote {
		seen[line.ID] = true

		var productID *int64
		if sku := strings.TrimSpace(line.SKU); sku != "" {
			// A miss is not an error; the item just stays unresolved.
			p, err := s.Products.FindBySKU(ctx, sku)
			if err != nil {
				return err
			}
			if p != nil {
				productID = &p.ID
			}
		}

		price, _ := strconv.ParseFloat(line.Price, 64)
		current, ok := byLineID[line.ID]
		if !ok {
			item := &models.OrderItem{
				OrderID:       orderID,
				ShopifyLineID: line.ID,
				ProductID:     productID,
				SKU:           line.SKU,
				Title:         line.Title,
				Quantity:      line.Quantity,
				Price:         price,
			}
			if err := s.Orders.CreateItem(ctx, item); err != nil {
				return err
			}
			continue
		}

		if itemUnchanged(current, productID, line, price) {
			continue
		}
		current.ProductID = productID
		current.SKU = line.SKU
		current.Title = line.Title
		current.Quantity = line.Quantity
		current.Price = price
		if err := s.Orders.UpdateItem(ctx, current); err != nil {
			return err
		}
	}

	for _, item := range existing {
		if !seen[item.ShopifyLineID] {
			if err := s.Orders.DeleteItem(ctx, item.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

func itemUnchanged(current *models.OrderItem, productID *int64, line shopify.LineItem, price float64) bool {
	return int64PtrEqual(current.ProductID, productID) &&
		current.SKU == line.SKU &&
		current.Title == line.Title &&
		current.Quantity == line.Quantity &&
		current.Price == price
}

func customerName(c *shopify.Customer) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
