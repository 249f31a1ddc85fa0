package query

// sortColumns maps sort key tokens to ORDER BY expressions. Keys outside
// this set fall back to the default, so OrderBy is total over strings.
var sortColumns = map[string]string{
	"date_desc":          "date DESC",
	"date_asc":           "date ASC",
	"amount_desc":        "final_amount DESC",
	"amount_asc":         "final_amount ASC",
	"customer_name_asc":  "customer_name ASC",
	"customer_name_desc": "customer_name DESC",
	"quantity_desc":      "quantity DESC",
	"quantity_asc":       "quantity ASC",
}

// DefaultSort is used for empty or unrecognized sort keys.
const DefaultSort = "date DESC"

// OrderBy resolves a sort key token to its ORDER BY expression.
func OrderBy(sortBy string) string {
	if expr, ok := sortColumns[sortBy]; ok {
		return expr
	}
	return DefaultSort
}
