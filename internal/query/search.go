package query

import (
	"regexp"
	"strings"
)

// phonePattern matches terms that look like a phone number: an optional
// leading '+' followed by digits only. All-digit terms take this path too,
// since phone lookups dominate and the dedicated predicate is index-friendly.
var phonePattern = regexp.MustCompile(`^\+?\d+$`)

// Search builds the free-text search predicate for a raw term. A blank term
// produces no clause. Phone-shaped terms match the phone column only;
// everything else matches the full-text search vector (prefix query per
// token), a case-insensitive customer-name substring, or a phone substring.
// Full-text alone misses partial tokens and ID-like fragments, which is why
// the three conditions are OR-ed.
func Search(term string) (Clause, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Clause{}, false
	}

	if phonePattern.MatchString(term) {
		return Clause{
			Template: "phone_number LIKE ?",
			Args:     []any{"%" + term + "%"},
		}, true
	}

	return Clause{
		Template: "(search_vector @@ to_tsquery('english', ?) OR LOWER(customer_name) LIKE ? OR phone_number LIKE ?)",
		Args: []any{
			prefixTSQuery(term),
			"%" + strings.ToLower(term) + "%",
			"%" + term + "%",
		},
	}, true
}

// prefixTSQuery turns "wireless mou" into "wireless:* & mou:*".
func prefixTSQuery(term string) string {
	var tokens []string
	for _, word := range strings.Fields(term) {
		tokens = append(tokens, word+":*")
	}
	return strings.Join(tokens, " & ")
}
