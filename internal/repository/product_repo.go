package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fireworks-wms-api-server/internal/models"

	"github.com/jmoiron/sqlx"
)

type ProductRepository struct {
	DB *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
        INSERT INTO products (
            shopify_product_id, shopify_variant_id, sku, barcode, name,
            variant_title, price, current_stock, min_stock, product_type,
            vendor, image_url, storage_location, created_at, updated_at,
            last_synced_at
        )
        VALUES (
            :shopify_product_id, :shopify_variant_id, :sku, :barcode, :name,
            :variant_title, :price, :current_stock, :min_stock, :product_type,
            :vendor, :image_url, :storage_location, :created_at, :updated_at,
            :last_synced_at
        )
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, p)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&p.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now()

	query := `
        UPDATE products
        SET shopify_product_id = :shopify_product_id,
            shopify_variant_id = :shopify_variant_id,
            sku = :sku,
            barcode = :barcode,
            name = :name,
            variant_title = :variant_title,
            price = :price,
            current_stock = :current_stock,
            min_stock = :min_stock,
            product_type = :product_type,
            vendor = :vendor,
            image_url = :image_url,
            storage_location = :storage_location,
            updated_at = :updated_at,
            last_synced_at = :last_synced_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var p models.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE sku = $1 LIMIT 1`, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var p models.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE barcode = $1 LIMIT 1`, barcode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindByShopifyVariantID(ctx context.Context, variantID int64) (*models.Product, error) {
	var p models.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE shopify_variant_id = $1 LIMIT 1`, variantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Search matches name, sku or barcode; an empty query lists everything.
func (r *ProductRepository) Search(ctx context.Context, search string, limit int) ([]models.Product, error) {
	products := []models.Product{}

	if search == "" {
		err := r.DB.SelectContext(ctx, &products,
			`SELECT * FROM products ORDER BY name LIMIT $1`, limit)
		return products, err
	}

	pattern := "%" + search + "%"
	err := r.DB.SelectContext(ctx, &products, `
        SELECT * FROM products
        WHERE name ILIKE $1 OR sku ILIKE $1 OR barcode ILIKE $1
        ORDER BY name
        LIMIT $2
    `, pattern, limit)
	return products, err
}

func (r *ProductRepository) ByLocation(ctx context.Context, locationCode string) ([]models.Product, error) {
	products := []models.Product{}
	err := r.DB.SelectContext(ctx, &products,
		`SELECT * FROM products WHERE storage_location = $1 ORDER BY sku`, locationCode)
	return products, err
}

// AdjustStock applies a relative stock change and clamps at zero.
func (r *ProductRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE products
        SET current_stock = GREATEST(current_stock + $1, 0), updated_at = now()
        WHERE id = $2
    `, delta, id)
	return err
}

func (r *ProductRepository) SetStock(ctx context.Context, id int64, stock int) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE products
        SET current_stock = GREATEST($1, 0), updated_at = now()
        WHERE id = $2
    `, stock, id)
	return err
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM products`)
	return count, err
}

func (r *ProductRepository) CountLowStock(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM products WHERE min_stock > 0 AND current_stock < min_stock`)
	return count, err
}

func (r *ProductRepository) CountUnassigned(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM products WHERE storage_location IS NULL`)
	return count, err
}
