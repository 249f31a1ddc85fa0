package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name     string
		sortBy   string
		expected string
	}{
		{"date descending", "date_desc", "date DESC"},
		{"date ascending", "date_asc", "date ASC"},
		{"amount descending", "amount_desc", "final_amount DESC"},
		{"amount ascending", "amount_asc", "final_amount ASC"},
		{"customer name ascending", "customer_name_asc", "customer_name ASC"},
		{"customer name descending", "customer_name_desc", "customer_name DESC"},
		{"quantity descending", "quantity_desc", "quantity DESC"},
		{"quantity ascending", "quantity_asc", "quantity ASC"},
		{"unknown key falls back to default", "price_asc", "date DESC"},
		{"empty key falls back to default", "", "date DESC"},
		{"garbage falls back to default", "'; DROP TABLE sales; --", "date DESC"},
		{"case sensitive, no match on upper", "DATE_DESC", "date DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OrderBy(tt.sortBy))
		})
	}
}
