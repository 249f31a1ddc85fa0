// Package query builds parameterized SQL fragments for the sales table.
//
// Each filter dimension produces a Clause independently; positional
// placeholder numbers are assigned once, in Render, so no builder has to
// thread a parameter index through its callers.
package query

import (
	"fmt"
	"strings"
)

// Clause is one SQL predicate fragment with its bound values. The template
// uses '?' markers, one per argument, which Render replaces with positional
// $n placeholders.
type Clause struct {
	Template string
	Args     []any
}

// Render joins clauses with AND and assigns $1..$n placeholders in clause
// order. It returns a WHERE clause (or the empty string when there is
// nothing to filter on) and the flattened argument list.
func Render(clauses []Clause) (string, []any) {
	if len(clauses) == 0 {
		return "", nil
	}

	var (
		parts []string
		args  []any
		n     int
	)
	for _, cl := range clauses {
		sql := cl.Template
		for range cl.Args {
			n++
			sql = strings.Replace(sql, "?", fmt.Sprintf("$%d", n), 1)
		}
		parts = append(parts, sql)
		args = append(args, cl.Args...)
	}

	return "WHERE " + strings.Join(parts, " AND "), args
}
