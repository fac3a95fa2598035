package models

import "time"

// Fulfillment status values as imported from the shop system. The pick-list
// flow only ever applies the unfulfilled -> fulfilled transition; "partial"
// exists as a display value coming from upstream.
const (
	FulfillmentUnfulfilled = "unfulfilled"
	FulfillmentPartial     = "partial"
	FulfillmentFulfilled   = "fulfilled"
)

type Order struct {
	ID                int64      `db:"id" json:"id"`
	ShopifyID         int64      `db:"shopify_id" json:"shopifyID"`
	OrderNumber       string     `db:"order_number" json:"orderNumber"`
	CustomerName      string     `db:"customer_name" json:"customerName"`
	Email             *string    `db:"email" json:"email"`
	ShippingCity      *string    `db:"shipping_city" json:"shippingCity"`
	TotalPrice        float64    `db:"total_price" json:"totalPrice"`
	FinancialStatus   string     `db:"financial_status" json:"financialStatus"`
	FulfillmentStatus string     `db:"fulfillment_status" json:"fulfillmentStatus"`
	CancelledAt       *time.Time `db:"cancelled_at" json:"cancelledAt"`
	Note              *string    `db:"note" json:"note"`
	Tags              *string    `db:"tags" json:"tags"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
	LastSyncedAt      *time.Time `db:"last_synced_at" json:"lastSyncedAt"`

	// Loaded by the order repository, not a column.
	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// Cancelled reports whether the order was cancelled upstream.
func (o *Order) Cancelled() bool {
	return o.CancelledAt != nil
}

// OrderItem is a denormalized line-item snapshot taken at order capture.
// ProductID is nil when the SKU could not be resolved against the local
// product table; ShopifyLineID is the diff key during order sync.
type OrderItem struct {
	ID            int64   `db:"id" json:"id"`
	OrderID       int64   `db:"order_id" json:"orderID"`
	ShopifyLineID int64   `db:"shopify_line_id" json:"shopifyLineID"`
	ProductID     *int64  `db:"product_id" json:"productID"`
	SKU           string  `db:"sku" json:"sku"`
	Title         string  `db:"title" json:"title"`
	Quantity      int     `db:"quantity" json:"quantity"`
	Price         float64 `db:"price" json:"price"`

	// Resolved product, eager-loaded for pick-list building.
	Product *Product `db:"-" json:"product,omitempty"`
}
