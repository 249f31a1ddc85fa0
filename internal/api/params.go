package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/salescope/salescope/internal/query"
)

// Maximum accepted lengths per query parameter. Oversized values are
// rejected before any query construction.
var paramMaxLen = map[string]int{
	"search":          100,
	"customerRegion":  500,
	"gender":          100,
	"productCategory": 500,
	"tags":            1000,
	"paymentMethod":   300,
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// parseFilters builds the filter set from query parameters, collecting
// validation failures instead of stopping at the first. Unknown sortBy
// values are tolerated; the resolver defaults them.
func parseFilters(c fiber.Ctx) (query.Filters, []FieldError) {
	var errs []FieldError

	for field, max := range paramMaxLen {
		if v := c.Query(field); len(v) > max {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be at most %d characters", max),
			})
		}
	}

	f := query.Filters{
		Search:         c.Query("search"),
		Regions:        splitList(c.Query("customerRegion")),
		Genders:        splitList(c.Query("gender")),
		Categories:     splitList(c.Query("productCategory")),
		Tags:           splitList(c.Query("tags")),
		PaymentMethods: splitList(c.Query("paymentMethod")),
		SortBy:         c.Query("sortBy", "date_desc"),
	}

	f.AgeMin = parseAge(c.Query("ageMin"), "ageMin", &errs)
	f.AgeMax = parseAge(c.Query("ageMax"), "ageMax", &errs)
	f.DateFrom = parseDate(c.Query("dateFrom"), "dateFrom", &errs)
	f.DateTo = parseDate(c.Query("dateTo"), "dateTo", &errs)

	return f, errs
}

// parsePageParams reads page and limit, clamping rather than rejecting:
// page to >= 1 and limit to [1,100]. Non-numeric input falls back to the
// defaults.
func parsePageParams(c fiber.Ctx) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}
	return page, limit
}

// splitList splits a comma-joined parameter, dropping empty entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

func parseAge(raw, field string, errs *[]FieldError) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, FieldError{Field: field, Message: "must be an integer"})
		return nil
	}
	return &v
}

func parseDate(raw, field string, errs *[]FieldError) string {
	if raw == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		*errs = append(*errs, FieldError{Field: field, Message: "must be a date in YYYY-MM-DD format"})
		return ""
	}
	return raw
}
