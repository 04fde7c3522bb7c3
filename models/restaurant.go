package models

import "time"

// Restaurant themes supported by the menu renderer
const (
	ThemeDefault     = "default"
	ThemeTraditional = "traditional"
)

// ValidTheme reports whether theme is one of the supported theme names.
func ValidTheme(theme string) bool {
	return theme == ThemeDefault || theme == ThemeTraditional
}

// Restaurant is one tenant's full record in the menu document.
// Records are keyed by slug in the store; the slug itself is not stored
// inside the record.
type Restaurant struct {
	Name      string     `json:"name"`
	NameUr    string     `json:"name_ur"`
	Whatsapp  string     `json:"whatsapp"`
	Theme     string     `json:"theme"`
	CreatedAt time.Time  `json:"created_at"`
	Menu      []MenuItem `json:"menu"`
	Tables    []TableQR  `json:"tables,omitempty"`
}

// MenuItem is a single dish on a restaurant's menu. Its position in the
// Menu slice is its identifier: analytics events and item updates address
// items by index.
type MenuItem struct {
	Name           string  `json:"name"`
	NameUr         string  `json:"name_ur"`
	Price          float64 `json:"price"`
	ImageURL       string  `json:"image_url"`
	Category       string  `json:"category"`
	IsAvailable    bool    `json:"is_available"`
	IsChefsSpecial bool    `json:"is_chefs_special"`
}

// TableQR links a physical table number to its generated QR code image.
// The list on a restaurant stays sorted ascending by Num and numbers are
// unique within a restaurant.
type TableQR struct {
	Num    int    `json:"num"`
	QRPath string `json:"qr_path"`
}
