package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyFor(t *testing.T) {
	tests := []struct {
		country string
		code    string
		symbol  string
	}{
		{"United States", "USD", "$"},
		{"United Kingdom", "GBP", "£"},
		{"India", "INR", "₹"},
		{"France", "INR", "₹"}, // unsupported countries fall back
		{"", "INR", "₹"},
	}
	for _, tt := range tests {
		code, symbol := currencyFor(tt.country)
		assert.Equal(t, tt.code, code, tt.country)
		assert.Equal(t, tt.symbol, symbol, tt.country)
	}
}

func TestDefaultCategories(t *testing.T) {
	cats := defaultCategories()
	require.Len(t, cats, 6)

	menu, expense := 0, 0
	for _, c := range cats {
		switch c.Type {
		case "menu":
			menu++
		case "expense":
			expense++
		default:
			t.Fatalf("unexpected category type %q", c.Type)
		}
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Color)
	}
	assert.Equal(t, 4, menu)
	assert.Equal(t, 2, expense)
}

func TestDefaultTables(t *testing.T) {
	tables := defaultTables(6)
	require.Len(t, tables, 6)

	for i, table := range tables {
		assert.Equal(t, i+1, table.Number)
		assert.Equal(t, "FREE", table.Status)
		if i < 4 {
			assert.Equal(t, 4, table.Capacity)
		} else {
			assert.Equal(t, 6, table.Capacity)
		}
	}
}

func TestGeneratePassword(t *testing.T) {
	a := generatePassword()
	b := generatePassword()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, len("pass_")+16)
}
