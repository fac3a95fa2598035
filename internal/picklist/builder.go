// Package picklist turns a set of selected orders into one consolidated,
// location-ordered checklist for warehouse staff.
package picklist

import (
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strconv"

	"fireworks-wms-api-server/internal/models"
)

// ErrNoOrdersSelected is returned when a pick list is requested for an empty
// order selection.
var ErrNoOrdersSelected = errors.New("no orders selected")

// NoLocationLabel is the display string used at the JSON/CSV boundary for
// items without an assigned storage location. Ordering never compares
// against it; the builder keeps the location nullable.
const NoLocationLabel = "Kein Lagerplatz"

// OrderRef records one order's contribution to a merged pick-list item.
type OrderRef struct {
	OrderNumber  string `json:"orderNumber"`
	Quantity     int    `json:"quantity"`
	CustomerName string `json:"customerName"`
}

// Item is one row of a pick list: a distinct SKU merged across the selected
// orders. Location is nil when no product with a storage location resolves
// for the SKU; such rows sort last.
type Item struct {
	SKU           string     `json:"sku"`
	Title         string     `json:"title"`
	Location      *string    `json:"location"`
	TotalQuantity int        `json:"totalQuantity"`
	Orders        []OrderRef `json:"orders"`
	Picked        bool       `json:"picked"`
}

// Build flattens the orders' line items into a single list, merging
// quantities per SKU (title is the fallback key for blank SKUs) and sorting
// the result for a walking route: by location code, rows without a location
// last, ties broken by SKU.
//
// The orders must arrive with their items (and each item's resolved product)
// already loaded; Build performs no I/O.
func Build(orders []models.Order) ([]*Item, error) {
	if len(orders) == 0 {
		return nil, ErrNoOrdersSelected
	}

	byKey := map[string]*Item{}
	items := []*Item{}

	for _, order := range orders {
		for _, line := range order.Items {
			key := line.SKU
			if key == "" {
				key = line.Title
			}

			item, ok := byKey[key]
			if !ok {
				item = &Item{
					SKU:      line.SKU,
					Title:    line.Title,
					Location: itemLocation(line),
				}
				byKey[key] = item
				items = append(items, item)
			}

			item.TotalQuantity += line.Quantity
			item.Orders = append(item.Orders, OrderRef{
				OrderNumber:  order.OrderNumber,
				Quantity:     line.Quantity,
				CustomerName: order.CustomerName,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i], items[j])
	})

	return items, nil
}

// Less is the pick-list walking order: items without a location sort after
// all located items; located items sort ascending by location code; ties
// fall back to SKU.
func Less(a, b *Item) bool {
	switch {
	case a.Location == nil && b.Location == nil:
		return a.SKU < b.SKU
	case a.Location == nil:
		return false
	case b.Location == nil:
		return true
	case *a.Location != *b.Location:
		return *a.Location < *b.Location
	default:
		return a.SKU < b.SKU
	}
}

func itemLocation(line models.OrderItem) *string {
	if line.Product == nil || line.Product.StorageLocation == nil {
		return nil
	}
	loc := *line.Product.StorageLocation
	return &loc
}

// TogglePicked flips the picked flag on one row of an in-memory list. It has
// no effect on persisted state.
func TogglePicked(items []*Item, index int) error {
	if index < 0 || index >= len(items) {
		return errors.New("pick list index out of range")
	}
	items[index].Picked = !items[index].Picked
	return nil
}

// WriteCSV renders the pick list as a CSV report, one row per item plus one
// row per contributing order.
func WriteCSV(w io.Writer, items []*Item) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"location", "sku", "title", "quantity", "order", "customer", "picked"}); err != nil {
		return err
	}

	for _, item := range items {
		location := NoLocationLabel
		if item.Location != nil {
			location = *item.Location
		}
		picked := "no"
		if item.Picked {
			picked = "yes"
		}
		if err := cw.Write([]string{
			location, item.SKU, item.Title,
			strconv.Itoa(item.TotalQuantity), "", "", picked,
		}); err != nil {
			return err
		}
		for _, ref := range item.Orders {
			if err := cw.Write([]string{
				"", "", "", strconv.Itoa(ref.Quantity), ref.OrderNumber, ref.CustomerName, "",
			}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
