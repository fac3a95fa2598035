package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"fireworks-wms-api-server/internal/models"

	"github.com/jmoiron/sqlx"
)

type OrderRepository struct {
	DB *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	query := `
        INSERT INTO orders (
            shopify_id, order_number, customer_name, email, shipping_city,
            total_price, financial_status, fulfillment_status, cancelled_at,
            note, tags, created_at, updated_at, last_synced_at
        )
        VALUES (
            :shopify_id, :order_number, :customer_name, :email, :shipping_city,
            :total_price, :financial_status, :fulfillment_status, :cancelled_at,
            :note, :tags, :created_at, :updated_at, :last_synced_at
        )
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, o)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&o.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *OrderRepository) Update(ctx context.Context, o *models.Order) error {
	query := `
        UPDATE orders
        SET order_number = :order_number,
            customer_name = :customer_name,
            email = :email,
            shipping_city = :shipping_city,
            total_price = :total_price,
            financial_status = :financial_status,
            fulfillment_status = :fulfillment_status,
            cancelled_at = :cancelled_at,
            note = :note,
            tags = :tags,
            updated_at = :updated_at,
            last_synced_at = :last_synced_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *OrderRepository) FindByShopifyID(ctx context.Context, shopifyID int64) (*models.Order, error) {
	var o models.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE shopify_id = $1 LIMIT 1`, shopifyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindByIDWithItems(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.itemsWithProducts(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// FindByIDsWithItems loads the given orders with their line items and each
// item's resolved product. Orders come back in id order; missing ids are
// silently absent from the result.
func (r *OrderRepository) FindByIDsWithItems(ctx context.Context, ids []int64) ([]models.Order, error) {
	if len(ids) == 0 {
		return []models.Order{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM orders WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	orders := []models.Order{}
	if err := r.DB.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.itemsWithProducts(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *OrderRepository) itemsWithProducts(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ProductID == nil {
			continue
		}
		var p models.Product
		err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 LIMIT 1`, *items[i].ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		items[i].Product = &p
	}

	return items, nil
}

// List returns orders filtered by fulfillment status ("" for all). Cancelled
// orders are excluded unless includeCancelled is set.
func (r *OrderRepository) List(ctx context.Context, fulfillmentStatus string, includeCancelled bool, limit int) ([]models.Order, error) {
	conditions := []string{}
	args := map[string]interface{}{"limit": limit}

	if fulfillmentStatus != "" {
		conditions = append(conditions, "fulfillment_status = :status")
		args["status"] = fulfillmentStatus
	}
	if !includeCancelled {
		conditions = append(conditions, "cancelled_at IS NULL")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC LIMIT :limit"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	orders := []models.Order{}
	err = nstmt.SelectContext(ctx, &orders, args)
	return orders, err
}

func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.DB.SelectContext(ctx, &orders,
		`SELECT * FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	return orders, err
}

func (r *OrderRepository) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM orders WHERE fulfillment_status != $1 AND cancelled_at IS NULL`,
		models.FulfillmentFulfilled)
	return count, err
}

func (r *OrderRepository) UpdateFulfillmentStatus(ctx context.Context, id int64, status string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET fulfillment_status = $1, updated_at = now() WHERE id = $2`,
		status, id)
	return err
}

// --- order items ---

func (r *OrderRepository) ItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	return items, err
}

func (r *OrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	query := `
        INSERT INTO order_items (
            order_id, shopify_line_id, product_id, sku, title, quantity, price
        )
        VALUES (
            :order_id, :shopify_line_id, :product_id, :sku, :title, :quantity, :price
        )
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, item)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&item.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *OrderRepository) UpdateItem(ctx context.Context, item *models.OrderItem) error {
	query := `
        UPDATE order_items
        SET product_id = :product_id,
            sku = :sku,
            title = :title,
            quantity = :quantity,
            price = :price
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *OrderRepository) DeleteItem(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM order_items WHERE id = $1`, id)
	return err
}
