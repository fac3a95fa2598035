package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fireworks-wms-api-server/config"
)

// ErrMissingCredentials is returned before any network call when the shop
// domain or access token is not configured.
var ErrMissingCredentials = errors.New("shopify credentials are not configured")

// APIError is a non-2xx response from the Shopify Admin API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify API returned status %d: %s", e.Status, e.Body)
}

// Client talks to the Shopify Admin REST API. BaseURL and Token are exported
// so tests can point the client at a local test server.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(cfg config.ShopifyConfig) *Client {
	c := &Client{
		Token:      cfg.AccessToken,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	if cfg.ShopDomain != "" {
		c.BaseURL = fmt.Sprintf("https://%s/admin/api/%s", cfg.ShopDomain, cfg.APIVersion)
	}
	return c
}

// Configured reports whether the client can make calls at all.
func (c *Client) Configured() error {
	if c.BaseURL == "" || c.Token == "" {
		return ErrMissingCredentials
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) (http.Header, error) {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode shopify response: %w", err)
	}

	return resp.Header, nil
}

// ProductsPage fetches one page of products. pageInfo is empty for the first
// page; the returned cursor is empty when there is no further page.
func (c *Client) ProductsPage(ctx context.Context, limit int, pageInfo string) ([]Product, string, error) {
	if err := c.Configured(); err != nil {
		return nil, "", err
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if pageInfo != "" {
		// Shopify rejects other filters when paging by cursor.
		query.Set("page_info", pageInfo)
	}

	var payload struct {
		Products []Product `json:"products"`
	}
	header, err := c.get(ctx, "/products.json", query, &payload)
	if err != nil {
		return nil, "", err
	}

	return payload.Products, nextPageInfo(header.Get("Link")), nil
}

// InventoryLevels fetches the stock levels for one batch of inventory item
// ids (Shopify caps a batch at 50 ids).
func (c *Client) InventoryLevels(ctx context.Context, inventoryItemIDs []int64) ([]InventoryLevel, error) {
	if err := c.Configured(); err != nil {
		return nil, err
	}
	if len(inventoryItemIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(inventoryItemIDs))
	for i, id := range inventoryItemIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	query := url.Values{}
	query.Set("inventory_item_ids", strings.Join(ids, ","))
	query.Set("limit", "250")

	var payload struct {
		InventoryLevels []InventoryLevel `json:"inventory_levels"`
	}
	if _, err := c.get(ctx, "/inventory_levels.json", query, &payload); err != nil {
		return nil, err
	}

	return payload.InventoryLevels, nil
}

// Orders fetches orders created at or after createdAtMin, any status, up to
// limit in a single page.
func (c *Client) Orders(ctx context.Context, createdAtMin time.Time, limit int) ([]Order, error) {
	if err := c.Configured(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("status", "any")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("created_at_min", createdAtMin.Format(time.RFC3339))

	var payload struct {
		Orders []Order `json:"orders"`
	}
	if _, err := c.get(ctx, "/orders.json", query, &payload); err != nil {
		return nil, err
	}

	return payload.Orders, nil
}

// nextPageInfo extracts the page_info cursor of the rel="next" entry from a
// Link response header. Returns "" when there is no next page.
func nextPageInfo(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}

	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start == -1 || end == -1 || end <= start {
			continue
		}
		u, err := url.Parse(part[start+1 : end])
		if err != nil {
			continue
		}
		return u.Query().Get("page_info")
	}

	return ""
}
