package database

import "github.com/jmoiron/sqlx"

// Statements run one by one so the driver never sees a multi-statement
// string. Order matters: products references storage_locations.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		password   TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'picker',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS storage_locations (
		id            BIGSERIAL PRIMARY KEY,
		code          TEXT NOT NULL UNIQUE,
		zone          TEXT NOT NULL,
		shelf_row     TEXT NOT NULL,
		shelf         TEXT NOT NULL,
		level         TEXT NOT NULL,
		capacity      INTEGER NOT NULL DEFAULT 0,
		current_usage INTEGER NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id                 BIGSERIAL PRIMARY KEY,
		shopify_product_id BIGINT,
		shopify_variant_id BIGINT UNIQUE,
		sku                TEXT NOT NULL UNIQUE,
		barcode            TEXT,
		name               TEXT NOT NULL,
		variant_title      TEXT,
		price              DOUBLE PRECISION NOT NULL DEFAULT 0,
		current_stock      INTEGER NOT NULL DEFAULT 0,
		min_stock          INTEGER NOT NULL DEFAULT 0,
		product_type       TEXT,
		vendor             TEXT,
		image_url          TEXT,
		storage_location   TEXT REFERENCES storage_locations(code) ON DELETE SET NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_synced_at     TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode)`,
	`CREATE INDEX IF NOT EXISTS idx_products_location ON products(storage_location)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                 BIGSERIAL PRIMARY KEY,
		shopify_id         BIGINT NOT NULL UNIQUE,
		order_number       TEXT NOT NULL,
		customer_name      TEXT NOT NULL DEFAULT '',
		email              TEXT,
		shipping_city      TEXT,
		total_price        DOUBLE PRECISION NOT NULL DEFAULT 0,
		financial_status   TEXT NOT NULL DEFAULT '',
		fulfillment_status TEXT NOT NULL DEFAULT 'unfulfilled',
		cancelled_at       TIMESTAMPTZ,
		note               TEXT,
		tags               TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_synced_at     TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_fulfillment ON orders(fulfillment_status)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id              BIGSERIAL PRIMARY KEY,
		order_id        BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		shopify_line_id BIGINT NOT NULL,
		product_id      BIGINT REFERENCES products(id) ON DELETE SET NULL,
		sku             TEXT NOT NULL DEFAULT '',
		title           TEXT NOT NULL DEFAULT '',
		quantity        INTEGER NOT NULL DEFAULT 0,
		price           DOUBLE PRECISION NOT NULL DEFAULT 0,
		UNIQUE (order_id, shopify_line_id)
	)`,
}

// Migrate creates all tables that are not present yet. Idempotent, runs at
// every startup.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
