package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/menuqr/menuqr-api/models"
	"github.com/menuqr/menuqr-api/utils"
)

// RecordStore owns the restaurant document: a single JSON file mapping
// slug to restaurant record. Every mutation re-reads the whole document,
// applies the change in memory and atomically replaces the file, so a
// reader never observes a partial write. One mutex per store serializes
// all mutations; reads go straight to the committed file.
type RecordStore struct {
	path string
	mu   sync.Mutex
}

// NewRecordStore creates a record store backed by the JSON document at path.
func NewRecordStore(path string) *RecordStore {
	return &RecordStore{path: path}
}

var recordStoreInstance *RecordStore

// InitRecordStore initializes the shared record store instance
func InitRecordStore(path string) *RecordStore {
	recordStoreInstance = NewRecordStore(path)
	return recordStoreInstance
}

// GetRecordStore returns the initialized record store instance
func GetRecordStore() *RecordStore {
	return recordStoreInstance
}

// SetRecordStore sets the record store instance (primarily for testing)
func SetRecordStore(s *RecordStore) {
	recordStoreInstance = s
}

// RestaurantDraft is the unsanitized input for creating a restaurant.
// Menu entries are raw JSON values; anything that is not an object with a
// name is dropped during sanitization rather than failing the creation.
type RestaurantDraft struct {
	Name     string        `json:"name"`
	NameUr   string        `json:"name_ur"`
	Whatsapp string        `json:"whatsapp"`
	Menu     []interface{} `json:"menu"`
}

// CreateReport carries the sanitized record plus the positions of draft
// menu entries that were discarded, so callers can surface partial-success
// ingestion instead of inferring it.
type CreateReport struct {
	Restaurant   *models.Restaurant `json:"restaurant"`
	DroppedItems []int              `json:"dropped_items"`
}

// PatchReport lists which fields of a menu item patch were applied and
// which were silently dropped as unknown or uncoercible.
type PatchReport struct {
	Applied []string `json:"applied"`
	Dropped []string `json:"dropped"`
}

// Load returns the entire slug-to-record mapping. A missing file is an
// empty store. A corrupt file is quarantined next to the original under a
// timestamped name and an empty mapping is returned, so one bad document
// never takes down the other tenants.
func (s *RecordStore) Load() map[string]*models.Restaurant {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Failed to read %s: %v", s.path, err)
		}
		return map[string]*models.Restaurant{}
	}

	data := map[string]*models.Restaurant{}
	if err := json.Unmarshal(raw, &data); err != nil {
		backup := fmt.Sprintf("%s.corrupt.%d", s.path, time.Now().Unix())
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			log.Printf("Failed to quarantine corrupt data file: %v", renameErr)
		} else {
			log.Printf("Corrupt data file moved to %s, starting with empty store", backup)
		}
		return map[string]*models.Restaurant{}
	}
	return data
}

// GetRestaurant returns one restaurant record. The record comes from a
// fresh read of the document, so mutating it never touches store state.
func (s *RecordStore) GetRestaurant(slug string) (*models.Restaurant, error) {
	rest, ok := s.Load()[slug]
	if !ok {
		return nil, notFoundErr(fmt.Sprintf("restaurant %q not found", slug))
	}
	return rest, nil
}

// CreateRestaurant validates and sanitizes a draft and persists it under
// slug. It fails if the slug is malformed or already taken; malformed menu
// entries are dropped, not fatal. Nothing is persisted on failure.
func (s *RecordStore) CreateRestaurant(slug string, draft RestaurantDraft, defaultTheme string) (*CreateReport, error) {
	if !utils.IsValidSlug(slug) {
		return nil, validationErr(fmt.Sprintf("invalid slug %q", slug))
	}
	if !models.ValidTheme(defaultTheme) {
		defaultTheme = models.ThemeDefault
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.Load()
	if _, exists := data[slug]; exists {
		return nil, validationErr(fmt.Sprintf("slug %q already exists", slug))
	}

	name := utils.TrimText(draft.Name)
	if name == "" {
		name = slug
	}
	rest := &models.Restaurant{
		Name:      name,
		NameUr:    utils.TrimText(draft.NameUr),
		Whatsapp:  utils.TrimText(draft.Whatsapp),
		Theme:     defaultTheme,
		CreatedAt: time.Now().UTC(),
		Menu:      []models.MenuItem{},
	}

	var dropped []int
	for i, raw := range draft.Menu {
		item, ok := sanitizeMenuItem(raw)
		if !ok {
			dropped = append(dropped, i)
			continue
		}
		rest.Menu = append(rest.Menu, item)
	}

	data[slug] = rest
	if err := s.save(data); err != nil {
		return nil, err
	}
	return &CreateReport{Restaurant: rest, DroppedItems: dropped}, nil
}

// sanitizeMenuItem turns a raw draft menu entry into a well-formed item.
// Entries that are not objects, have no name, or carry an unparseable
// price are rejected.
func sanitizeMenuItem(raw interface{}) (models.MenuItem, bool) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return models.MenuItem{}, false
	}
	if _, ok := obj["name"]; !ok {
		return models.MenuItem{}, false
	}

	price := 0.0
	if v, ok := obj["price"]; ok && v != nil {
		parsed, err := utils.ParsePrice(v)
		if err != nil {
			return models.MenuItem{}, false
		}
		price = parsed
	}

	item := models.MenuItem{
		Name:           utils.TrimText(obj["name"]),
		NameUr:         utils.TrimText(obj["name_ur"]),
		Price:          price,
		ImageURL:       utils.TrimText(obj["image_url"]),
		Category:       utils.NormalizeCategory(obj["category"]),
		IsAvailable:    true,
		IsChefsSpecial: false,
	}
	if v, ok := obj["is_available"]; ok {
		if b, ok := utils.CoerceBool(v); ok {
			item.IsAvailable = b
		}
	}
	if v, ok := obj["is_chefs_special"]; ok {
		if b, ok := utils.CoerceBool(v); ok {
			item.IsChefsSpecial = b
		}
	}
	return item, true
}

// UpdateRestaurant replaces the record for slug wholesale. The slug must
// be well-formed; the record does not have to exist yet.
func (s *RecordStore) UpdateRestaurant(slug string, rest *models.Restaurant) error {
	if !utils.IsValidSlug(slug) {
		return validationErr(fmt.Sprintf("invalid slug %q", slug))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.Load()
	data[slug] = rest
	return s.save(data)
}

// UpdateMenuItem applies a partial field patch to the menu item at index.
// Unknown fields are dropped silently; an invalid price rejects the whole
// patch; an empty surviving field set fails. The index is checked against
// the menu at the moment of mutation.
func (s *RecordStore) UpdateMenuItem(slug string, index int, fields map[string]interface{}) (*PatchReport, error) {
	valid := map[string]interface{}{}
	var dropped []string

	for k, v := range fields {
		switch k {
		case "price":
			price, err := utils.ParsePrice(v)
			if err != nil {
				return nil, validationErr(err.Error())
			}
			valid[k] = price
		case "is_available", "is_chefs_special":
			b, ok := utils.CoerceBool(v)
			if !ok {
				dropped = append(dropped, k)
				continue
			}
			valid[k] = b
		case "category":
			valid[k] = utils.NormalizeCategory(v)
		case "name", "name_ur", "image_url":
			valid[k] = utils.TrimText(v)
		default:
			dropped = append(dropped, k)
		}
	}

	if len(valid) == 0 {
		return nil, validationErr("no valid fields in patch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.Load()
	rest, ok := data[slug]
	if !ok {
		return nil, notFoundErr(fmt.Sprintf("restaurant %q not found", slug))
	}
	if index < 0 || index >= len(rest.Menu) {
		return nil, validationErr(fmt.Sprintf("menu item index %d out of range", index))
	}

	applyItemPatch(&rest.Menu[index], valid)
	if err := s.save(data); err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(valid))
	for k := range valid {
		applied = append(applied, k)
	}
	sort.Strings(applied)
	sort.Strings(dropped)
	return &PatchReport{Applied: applied, Dropped: dropped}, nil
}

func applyItemPatch(item *models.MenuItem, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "name":
			item.Name = v.(string)
		case "name_ur":
			item.NameUr = v.(string)
		case "price":
			item.Price = v.(float64)
		case "image_url":
			item.ImageURL = v.(string)
		case "category":
			item.Category = v.(string)
		case "is_available":
			item.IsAvailable = v.(bool)
		case "is_chefs_special":
			item.IsChefsSpecial = v.(bool)
		}
	}
}

// SetTheme switches a restaurant's display theme.
func (s *RecordStore) SetTheme(slug, theme string) error {
	if !models.ValidTheme(theme) {
		return validationErr(fmt.Sprintf("invalid theme %q", theme))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.Load()
	rest, ok := data[slug]
	if !ok {
		return notFoundErr(fmt.Sprintf("restaurant %q not found", slug))
	}
	rest.Theme = theme
	return s.save(data)
}

// DeleteRestaurant removes a record. QR artifacts for the restaurant and
// its tables are the caller's responsibility.
func (s *RecordStore) DeleteRestaurant(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.Load()
	if _, ok := data[slug]; !ok {
		return notFoundErr(fmt.Sprintf("restaurant %q not found", slug))
	}
	delete(data, slug)
	return s.save(data)
}

// AddTable registers a table QR entry. Table numbers are positive, unique
// within a restaurant, and the list stays sorted ascending.
func (s *RecordStore) AddTable(slug string, num int, qrPath string) error {
	if num < 1 {
		return validationErr(fmt.Sprintf("invalid table number %d", num))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.Load()
	rest, ok := data[slug]
	if !ok {
		return notFoundErr(fmt.Sprintf("restaurant %q not found", slug))
	}
	for _, t := range rest.Tables {
		if t.Num == num {
			return validationErr(fmt.Sprintf("table %d already exists", num))
		}
	}

	rest.Tables = append(rest.Tables, models.TableQR{Num: num, QRPath: qrPath})
	sort.Slice(rest.Tables, func(i, j int) bool { return rest.Tables[i].Num < rest.Tables[j].Num })
	return s.save(data)
}

// RemoveTable drops a table QR entry. Removing a number that is not
// present is not an error.
func (s *RecordStore) RemoveTable(slug string, num int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.Load()
	rest, ok := data[slug]
	if !ok {
		return notFoundErr(fmt.Sprintf("restaurant %q not found", slug))
	}

	tables := rest.Tables[:0]
	for _, t := range rest.Tables {
		if t.Num != num {
			tables = append(tables, t)
		}
	}
	rest.Tables = tables
	return s.save(data)
}

// save atomically replaces the document: encode into a temp file in the
// same directory, then rename over the target. On failure the temp file
// is removed and the previously committed document is left intact.
func (s *RecordStore) save(data map[string]*models.Restaurant) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".data-*.json")
	if err != nil {
		return persistenceErr("failed to create temp file", err)
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return persistenceErr("failed to encode data file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return persistenceErr("failed to sync data file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return persistenceErr("failed to close data file", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return persistenceErr("failed to replace data file", err)
	}
	return nil
}
