package models

import (
	"fmt"
	"time"
)

// StorageLocation is a physical shelf position. Code is the unique
// human-readable key printed on shelf labels, e.g. "A-03-2-1".
type StorageLocation struct {
	ID           int64     `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Zone         string    `db:"zone" json:"zone"`
	Row          string    `db:"shelf_row" json:"row"`
	Shelf        string    `db:"shelf" json:"shelf"`
	Level        string    `db:"level" json:"level"`
	Capacity     int       `db:"capacity" json:"capacity"`
	CurrentUsage int       `db:"current_usage" json:"currentUsage"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// LocationCode composes the canonical shelf code from its parts.
func LocationCode(zone, row, shelf, level string) string {
	return fmt.Sprintf("%s-%s-%s-%s", zone, row, shelf, level)
}
