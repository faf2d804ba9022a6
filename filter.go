package toolvec

import (
	"fmt"

	"github.com/toolvec/toolvec/internal/domain/filter"
)

// Filter is a portable metadata filter expression. Build one with the
// combinators below or parse the surface grammar with ParseFilter. The zero
// value matches everything.
type Filter struct {
	expr filter.Expression
	err  error
}

func (f Filter) internal() (filter.Expression, error) {
	return f.expr, f.err
}

// ParseFilter parses the filter surface grammar, e.g.
//
//	country in ['UK','NL'] && year >= 2020
func ParseFilter(input string) (Filter, error) {
	expr, err := filter.Parse(input)
	if err != nil {
		return Filter{}, fmt.Errorf("parse filter: %w", err)
	}
	return Filter{expr: expr}, nil
}

// Eq matches a field equal to value (string or numeric).
func Eq(key string, value any) Filter {
	return comparison(key, filter.OpEq, value)
}

// Gt matches a numeric field strictly greater than value.
func Gt(key string, value float64) Filter {
	return comparison(key, filter.OpGt, value)
}

// Gte matches a numeric field greater than or equal to value.
func Gte(key string, value float64) Filter {
	return comparison(key, filter.OpGte, value)
}

// Lt matches a numeric field strictly less than value.
func Lt(key string, value float64) Filter {
	return comparison(key, filter.OpLt, value)
}

// Lte matches a numeric field less than or equal to value.
func Lte(key string, value float64) Filter {
	return comparison(key, filter.OpLte, value)
}

// In matches a field equal to any of the given values.
func In(key string, values ...string) Filter {
	m, err := filter.NewMembership(key, values...)
	if err != nil {
		return Filter{err: err}
	}
	return Filter{expr: m}
}

// And combines filters conjunctively.
func And(filters ...Filter) Filter {
	return combine(filters, func(l, r filter.Expression) (filter.Expression, error) {
		return filter.NewAnd(l, r)
	})
}

// Or combines filters disjunctively.
func Or(filters ...Filter) Filter {
	return combine(filters, func(l, r filter.Expression) (filter.Expression, error) {
		return filter.NewOr(l, r)
	})
}

func comparison(key string, op filter.Op, value any) Filter {
	c, err := filter.NewComparison(key, op, value)
	if err != nil {
		return Filter{err: err}
	}
	return Filter{expr: c}
}

func combine(
	filters []Filter,
	join func(l, r filter.Expression) (filter.Expression, error),
) Filter {
	if len(filters) == 0 {
		return Filter{err: fmt.Errorf("at least one filter is required")}
	}
	acc := filters[0]
	if acc.err != nil {
		return acc
	}
	for _, f := range filters[1:] {
		if f.err != nil {
			return f
		}
		joined, err := join(acc.expr, f.expr)
		if err != nil {
			return Filter{err: err}
		}
		acc = Filter{expr: joined}
	}
	return acc
}

// String renders the filter in the surface grammar.
func (f Filter) String() string {
	if f.err != nil || f.expr == nil {
		return ""
	}
	return filter.String(f.expr)
}
