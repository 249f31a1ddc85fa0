package query

// Filters is the structured set of constraints for one list, export or
// fetch-all request. Zero values mean "dimension not filtered".
type Filters struct {
	Search         string
	Regions        []string
	Genders        []string
	AgeMin         *int
	AgeMax         *int
	Categories     []string
	Tags           []string
	PaymentMethods []string
	DateFrom       string
	DateTo         string
	SortBy         string
}

// Clauses assembles the predicate list for a filter set: the search clause
// first, then each dimension in a fixed order (region, gender, age bounds,
// category, tags, payment method, date bounds) so rendered query text is
// reproducible.
//
// List-valued dimensions bind the whole list as a single array parameter.
// Tags use array overlap: a record matches when it shares at least one tag
// with the requested list, unlike the membership tests on the other
// dimensions. That asymmetry is deliberate; tags are multi-valued per record.
func (f Filters) Clauses() []Clause {
	var clauses []Clause

	if cl, ok := Search(f.Search); ok {
		clauses = append(clauses, cl)
	}
	if len(f.Regions) > 0 {
		clauses = append(clauses, Clause{"customer_region = ANY(?)", []any{f.Regions}})
	}
	if len(f.Genders) > 0 {
		clauses = append(clauses, Clause{"gender = ANY(?)", []any{f.Genders}})
	}
	if f.AgeMin != nil {
		clauses = append(clauses, Clause{"age >= ?", []any{*f.AgeMin}})
	}
	if f.AgeMax != nil {
		clauses = append(clauses, Clause{"age <= ?", []any{*f.AgeMax}})
	}
	if len(f.Categories) > 0 {
		clauses = append(clauses, Clause{"product_category = ANY(?)", []any{f.Categories}})
	}
	if len(f.Tags) > 0 {
		clauses = append(clauses, Clause{"tags && ?::text[]", []any{f.Tags}})
	}
	if len(f.PaymentMethods) > 0 {
		clauses = append(clauses, Clause{"payment_method = ANY(?)", []any{f.PaymentMethods}})
	}
	if f.DateFrom != "" {
		clauses = append(clauses, Clause{"date >= ?::date", []any{f.DateFrom}})
	}
	if f.DateTo != "" {
		clauses = append(clauses, Clause{"date <= ?::date", []any{f.DateTo}})
	}

	return clauses
}

// Where renders the full WHERE clause and argument list for a filter set.
func (f Filters) Where() (string, []any) {
	return Render(f.Clauses())
}
