package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxPrice is the highest menu item price the platform accepts.
	MaxPrice = 999999.99
	// DefaultCategory is assigned when a menu item has no category.
	DefaultCategory = "Main Course"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidationError represents a field validation failure
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidSlug reports whether slug is a well-formed tenant identifier
// (lowercase letters, digits and hyphens, non-empty).
func IsValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// TrimText coerces an arbitrary JSON value to a trimmed string. Nil
// becomes the empty string.
func TrimText(v interface{}) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// NormalizeCategory trims and title-cases a category name. Empty input
// falls back to DefaultCategory.
func NormalizeCategory(v interface{}) string {
	s := TrimText(v)
	if s == "" {
		return DefaultCategory
	}
	// A Caser is stateful and must not be shared across goroutines
	return cases.Title(language.English).String(strings.ToLower(s))
}

// ParsePrice converts an arbitrary JSON value to a price rounded to two
// decimal places. It accepts numbers and numeric strings and rejects
// anything outside [0, MaxPrice].
func ParsePrice(v interface{}) (float64, error) {
	var price float64
	switch n := v.(type) {
	case float64:
		price = n
	case int:
		price = float64(n)
	case int64:
		price = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, &ValidationError{Code: "INVALID_PRICE", Message: fmt.Sprintf("price %q is not a number", n.String())}
		}
		price = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, &ValidationError{Code: "INVALID_PRICE", Message: fmt.Sprintf("price %q is not a number", n)}
		}
		price = f
	default:
		return 0, &ValidationError{Code: "INVALID_PRICE", Message: "price must be a number"}
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &ValidationError{Code: "INVALID_PRICE", Message: "price must be a finite number"}
	}
	if price < 0 || price > MaxPrice {
		return 0, &ValidationError{Code: "PRICE_OUT_OF_RANGE", Message: fmt.Sprintf("price must be between 0 and %v", MaxPrice)}
	}

	return math.Round(price*100) / 100, nil
}

// CoerceBool converts a JSON value to a boolean. Strings accept the usual
// truthy forms ("1", "true", "yes", "on") and their negations. The second
// return is false when the value has no sensible boolean reading.
func CoerceBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off", "":
			return false, true
		}
		return false, false
	case float64:
		return b != 0, true
	case int:
		return b != 0, true
	case json.Number:
		f, err := b.Float64()
		if err != nil {
			return false, false
		}
		return f != 0, true
	case nil:
		return false, true
	default:
		return false, false
	}
}
