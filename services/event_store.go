package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/menuqr/menuqr-api/models"
)

// Top-N limits for the aggregation queries
const (
	monthlyTopLimit = 10
	topItemsLimit   = 20
)

// DefaultTopItemsDays is the trailing window used when the caller does not
// supply one.
const DefaultTopItemsDays = 30

// EventStore is the append-only analytics log. Inserts are independent and
// rely on the SQL engine for concurrency; aggregation queries are
// read-only. Events are never updated or pruned here.
type EventStore struct {
	db *gorm.DB
}

// NewEventStore creates an event store on top of an open database.
func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

var eventStoreInstance *EventStore

// InitEventStore initializes the shared event store instance and ensures
// the events table exists.
func InitEventStore(db *gorm.DB) (*EventStore, error) {
	if err := db.AutoMigrate(&models.Event{}); err != nil {
		return nil, fmt.Errorf("failed to migrate events table: %w", err)
	}
	eventStoreInstance = NewEventStore(db)
	return eventStoreInstance, nil
}

// GetEventStore returns the initialized event store instance
func GetEventStore() *EventStore {
	return eventStoreInstance
}

// SetEventStore sets the event store instance (primarily for testing)
func SetEventStore(s *EventStore) {
	eventStoreInstance = s
}

// ItemClicks is one row of a per-item click ranking.
type ItemClicks struct {
	ItemIndex *int  `gorm:"column:item_index" json:"index"`
	Clicks    int64 `json:"clicks"`
}

// MonthlyReport summarizes one calendar month of activity for a slug.
type MonthlyReport struct {
	Year     int          `json:"year"`
	Month    int          `json:"month"`
	Scans    int64        `json:"scans"`
	Clicks   int64        `json:"clicks"`
	TopItems []ItemClicks `json:"top_items"`
}

// RecordScan logs a menu page view. The slug is not checked against the
// record store: events may reference restaurants that no longer exist.
func (s *EventStore) RecordScan(slug string) error {
	return s.record(slug, models.EventScan, nil)
}

// RecordClick logs an interaction, optionally tied to a menu item index.
func (s *EventStore) RecordClick(slug string, itemIndex *int) error {
	return s.record(slug, models.EventClick, itemIndex)
}

func (s *EventStore) record(slug, eventType string, itemIndex *int) error {
	event := models.Event{
		Slug:      slug,
		Type:      eventType,
		ItemIndex: itemIndex,
		Timestamp: time.Now().UTC(),
	}
	if err := s.db.Create(&event).Error; err != nil {
		return persistenceErr(fmt.Sprintf("failed to record %s event", eventType), err)
	}
	return nil
}

// MonthlySummary aggregates scans, clicks and the top clicked items over
// the half-open window [first of month, first of next month). Year and
// month default to the current UTC month when zero. Ties in the ranking
// are broken by the earliest click, so repeated queries return the same
// order.
func (s *EventStore) MonthlySummary(slug string, year, month int) (*MonthlyReport, error) {
	now := time.Now().UTC()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, validationErr(fmt.Sprintf("invalid month %d", month))
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	report := &MonthlyReport{Year: year, Month: month, TopItems: []ItemClicks{}}

	if err := s.countEvents(slug, models.EventScan, start, end, &report.Scans); err != nil {
		return nil, err
	}
	if err := s.countEvents(slug, models.EventClick, start, end, &report.Clicks); err != nil {
		return nil, err
	}

	items, err := s.topClicked(slug, start, end, monthlyTopLimit)
	if err != nil {
		return nil, err
	}
	report.TopItems = items
	return report, nil
}

// TopItems ranks clicked items over the trailing sinceDays window ending
// now. sinceDays defaults to DefaultTopItemsDays when zero or negative.
func (s *EventStore) TopItems(slug string, sinceDays int) ([]ItemClicks, error) {
	if sinceDays <= 0 {
		sinceDays = DefaultTopItemsDays
	}
	end := time.Now().UTC()
	start := end.Add(-time.Duration(sinceDays) * 24 * time.Hour)
	return s.topClicked(slug, start, end, topItemsLimit)
}

func (s *EventStore) countEvents(slug, eventType string, start, end time.Time, out *int64) error {
	err := s.db.Model(&models.Event{}).
		Where("slug = ? AND type = ? AND timestamp >= ? AND timestamp < ?", slug, eventType, start, end).
		Count(out).Error
	if err != nil {
		return persistenceErr(fmt.Sprintf("failed to count %s events", eventType), err)
	}
	return nil
}

func (s *EventStore) topClicked(slug string, start, end time.Time, limit int) ([]ItemClicks, error) {
	items := []ItemClicks{}
	err := s.db.Model(&models.Event{}).
		Select("item_index, COUNT(*) AS clicks").
		Where("slug = ? AND type = ? AND timestamp >= ? AND timestamp < ?", slug, models.EventClick, start, end).
		Group("item_index").
		Order("clicks DESC, MIN(id) ASC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, persistenceErr("failed to rank clicked items", err)
	}
	return items, nil
}
