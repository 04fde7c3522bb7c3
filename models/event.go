package models

import "time"

// Event types recorded by the analytics layer
const (
	EventScan  = "scan"  // a menu page view
	EventClick = "click" // an interaction, optionally on a specific item
)

// Event is a single analytics occurrence. Events are append-only: they are
// never updated or deleted, and the slug is not a foreign key — events may
// outlive the restaurant they reference.
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"not null;index" json:"slug"`
	Type      string    `gorm:"not null" json:"type"` // scan or click
	ItemIndex *int      `gorm:"index" json:"item_index"` // nullable, set for item-level clicks
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName specifies the table name for the Event model
func (Event) TableName() string {
	return "events"
}
