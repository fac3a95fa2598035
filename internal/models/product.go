package models

import "time"

// Product is one sellable variant mirrored from the shop system. SKU is the
// warehouse-side key; ShopifyVariantID ties the row back to the upstream
// variant for reconciliation.
type Product struct {
	ID               int64      `db:"id" json:"id"`
	ShopifyProductID *int64     `db:"shopify_product_id" json:"shopifyProductID"`
	ShopifyVariantID *int64     `db:"shopify_variant_id" json:"shopifyVariantID"`
	SKU              string     `db:"sku" json:"sku"`
	Barcode          *string    `db:"barcode" json:"barcode"`
	Name             string     `db:"name" json:"name"`
	VariantTitle     *string    `db:"variant_title" json:"variantTitle"`
	Price            float64    `db:"price" json:"price"`
	CurrentStock     int        `db:"current_stock" json:"currentStock"`
	MinStock         int        `db:"min_stock" json:"minStock"`
	ProductType      *string    `db:"product_type" json:"productType"`
	Vendor           *string    `db:"vendor" json:"vendor"`
	ImageURL         *string    `db:"image_url" json:"imageURL"`
	StorageLocation  *string    `db:"storage_location" json:"storageLocation"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
	LastSyncedAt     *time.Time `db:"last_synced_at" json:"lastSyncedAt"`
}
