package shopify

import "time"

// Payload shapes of the Shopify Admin REST API, reduced to the fields the
// warehouse consumes.

type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Handle      string    `json:"handle"`
	Tags        string    `json:"tags"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
}

type Variant struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	Barcode           string `json:"barcode"`
	InventoryItemID   int64  `json:"inventory_item_id"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

type InventoryLevel struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	LocationID      int64 `json:"location_id"`
	// Available is null for untracked items.
	Available *int `json:"available"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type ShippingAddress struct {
	City string `json:"city"`
}

type LineItem struct {
	ID        int64  `json:"id"`
	ProductID *int64 `json:"product_id"`
	VariantID *int64 `json:"variant_id"`
	Title     string `json:"title"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type Order struct {
	ID          int64  `json:"id"`
	OrderNumber int64  `json:"order_number"`
	Email       string `json:"email"`
	// FulfillmentStatus is null upstream while an order is unfulfilled.
	FulfillmentStatus *string          `json:"fulfillment_status"`
	FinancialStatus   string           `json:"financial_status"`
	TotalPrice        string           `json:"total_price"`
	Customer          *Customer        `json:"customer"`
	ShippingAddress   *ShippingAddress `json:"shipping_address"`
	LineItems         []LineItem       `json:"line_items"`
	Note              string           `json:"note"`
	Tags              string           `json:"tags"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	CancelledAt       *time.Time       `json:"cancelled_at"`
}
