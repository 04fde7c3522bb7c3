package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		valid bool
	}{
		{"simple slug", "my-cafe", true},
		{"digits and hyphens", "cafe-42", true},
		{"single character", "x", true},
		{"empty", "", false},
		{"uppercase", "My-Cafe", false},
		{"spaces", "my cafe", false},
		{"underscore", "my_cafe", false},
		{"slash", "my/cafe", false},
		{"unicode", "کیفے", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidSlug(tt.slug))
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    float64
		wantErr bool
	}{
		{"float", 12.5, 12.5, false},
		{"int", 10, 10.0, false},
		{"numeric string", "42.75", 42.75, false},
		{"padded string", " 7 ", 7.0, false},
		{"rounds to two decimals", 9.999, 10.0, false},
		{"rounds string input", "350.555", 350.56, false},
		{"zero", 0.0, 0.0, false},
		{"boundary accepted", 999999.99, 999999.99, false},
		{"over boundary", 1000000.0, 0, true},
		{"negative", -0.01, 0, true},
		{"non-numeric string", "abc", 0, true},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  bool
		ok    bool
	}{
		{"true", true, true, true},
		{"false", false, false, true},
		{"string 1", "1", true, true},
		{"string true", "true", true, true},
		{"string yes", "yes", true, true},
		{"string YES padded", " YES ", true, true},
		{"string 0", "0", false, true},
		{"string no", "no", false, true},
		{"empty string", "", false, true},
		{"number one", 1.0, true, true},
		{"number zero", 0.0, false, true},
		{"nil", nil, false, true},
		{"garbage string", "maybe", false, false},
		{"object", map[string]interface{}{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceBool(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"lowercase", "main course", "Main Course"},
		{"uppercase", "DESSERTS", "Desserts"},
		{"mixed with padding", "  sTreet fOOd  ", "Street Food"},
		{"empty falls back", "", DefaultCategory},
		{"nil falls back", nil, DefaultCategory},
		{"whitespace falls back", "   ", DefaultCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.input))
		})
	}
}

func TestTrimText(t *testing.T) {
	assert.Equal(t, "hello", TrimText("  hello  "))
	assert.Equal(t, "", TrimText(nil))
	assert.Equal(t, "", TrimText("   "))
	assert.Equal(t, "42", TrimText(42.0))
	assert.Equal(t, "true", TrimText(true))
	assert.Equal(t, "اردو", TrimText(" اردو "))
}
