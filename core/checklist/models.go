package checklist

import (
	"github.com/volatiletech/null/v8"
)

// Step is the top-level grouping of the training checklist. Steps, categories
// and items are maintained by an out-of-band admin workflow; this app only
// reads them.
type Step struct {
	ID        string   `db:"id" json:"id"`
	Name      string   `db:"name" json:"name"`
	SortOrder null.Int `db:"sort_order" json:"sort_order"`
}

type Category struct {
	ID        string   `db:"id" json:"id"`
	StepID    string   `db:"step_id" json:"step_id"`
	Name      string   `db:"name" json:"name"`
	SortOrder null.Int `db:"sort_order" json:"sort_order"`
}

type CheckItem struct {
	ID         string      `db:"id" json:"id"`
	CategoryID string      `db:"category_id" json:"category_id"`
	Title      string      `db:"title" json:"title"`
	SortOrder  null.Int    `db:"sort_order" json:"sort_order"`
	VideoURL   null.String `db:"video_url" json:"video_url"`
}

// CheckRecord marks one item cleared (or explicitly uncleared) for one
// student. Absence of a record reads as "not cleared". At most one record
// exists per (user, item); writes go through an upsert on that key.
type CheckRecord struct {
	UserID    string      `db:"user_id" json:"user_id"`
	ItemID    string      `db:"item_id" json:"item_id"`
	IsCleared bool        `db:"is_cleared" json:"is_cleared"`
	ClearedAt null.Time   `db:"cleared_at" json:"cleared_at"`
	ClearedBy null.String `db:"cleared_by" json:"cleared_by"`
}
