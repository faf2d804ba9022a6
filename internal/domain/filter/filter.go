// Package filter defines the portable metadata filter expression tree and
// its text parser. Expressions are built per search request, translated to
// the native query grammar by the storage driver, and discarded afterwards.
package filter

import (
	"fmt"
	"strconv"
)

// Op enumerates comparison operators.
type Op string

const (
	// OpEq is equality.
	OpEq Op = "="
	// OpGt is strictly-greater-than.
	OpGt Op = ">"
	// OpGte is greater-than-or-equal.
	OpGte Op = ">="
	// OpLt is strictly-less-than.
	OpLt Op = "<"
	// OpLte is less-than-or-equal.
	OpLte Op = "<="
)

// IsOrdering reports whether the operator is a numeric range operator.
func (o Op) IsOrdering() bool {
	return o == OpGt || o == OpGte || o == OpLt || o == OpLte
}

// Expression is a node in the boolean filter tree.
type Expression interface {
	isExpression()
}

// Comparison is a single field comparison (field op value).
type Comparison struct {
	key     string
	op      Op
	str     string
	num     float64
	numeric bool
}

func (*Comparison) isExpression() {}

// NewComparison validates and creates a Comparison. value must be a string,
// int, or float64. Ordering operators require a numeric value.
func NewComparison(key string, op Op, value any) (*Comparison, error) {
	if key == "" {
		return nil, fmt.Errorf("filter key is required")
	}
	c := &Comparison{key: key, op: op}
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("empty comparison value for key %q", key)
		}
		c.str = v
	case int:
		c.num = float64(v)
		c.numeric = true
	case int64:
		c.num = float64(v)
		c.numeric = true
	case float64:
		c.num = v
		c.numeric = true
	default:
		return nil, fmt.Errorf("unsupported comparison value type %T for key %q", value, key)
	}
	if op.IsOrdering() && !c.numeric {
		return nil, fmt.Errorf("operator %s requires a numeric value for key %q", op, key)
	}
	switch op {
	case OpEq, OpGt, OpGte, OpLt, OpLte:
	default:
		return nil, fmt.Errorf("unknown operator %q for key %q", op, key)
	}
	return c, nil
}

// Key returns the field name.
func (c *Comparison) Key() string { return c.key }

// Operator returns the comparison operator.
func (c *Comparison) Operator() Op { return c.op }

// IsNumeric reports whether the value is numeric.
func (c *Comparison) IsNumeric() bool { return c.numeric }

// Str returns the string value (valid when !IsNumeric).
func (c *Comparison) Str() string { return c.str }

// Num returns the numeric value (valid when IsNumeric).
func (c *Comparison) Num() float64 { return c.num }

// Membership is a set-membership test (field in [v1, v2, ...]).
type Membership struct {
	key    string
	values []string
}

func (*Membership) isExpression() {}

// NewMembership validates and creates a Membership.
func NewMembership(key string, values ...string) (*Membership, error) {
	if key == "" {
		return nil, fmt.Errorf("filter key is required")
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("membership for key %q needs at least one value", key)
	}
	for _, v := range values {
		if v == "" {
			return nil, fmt.Errorf("empty membership value for key %q", key)
		}
	}
	return &Membership{key: key, values: values}, nil
}

// Key returns the field name.
func (m *Membership) Key() string { return m.key }

// Values returns the membership candidates.
func (m *Membership) Values() []string { return m.values }

// And is a conjunction of two expressions.
type And struct {
	left, right Expression
}

func (*And) isExpression() {}

// NewAnd creates a conjunction node.
func NewAnd(left, right Expression) (*And, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("and: both operands are required")
	}
	return &And{left: left, right: right}, nil
}

// Left returns the left operand.
func (a *And) Left() Expression { return a.left }

// Right returns the right operand.
func (a *And) Right() Expression { return a.right }

// Or is a disjunction of two expressions.
type Or struct {
	left, right Expression
}

func (*Or) isExpression() {}

// NewOr creates a disjunction node.
func NewOr(left, right Expression) (*Or, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("or: both operands are required")
	}
	return &Or{left: left, right: right}, nil
}

// Left returns the left operand.
func (o *Or) Left() Expression { return o.left }

// Right returns the right operand.
func (o *Or) Right() Expression { return o.right }

// Group is an explicitly parenthesized sub-expression.
type Group struct {
	inner Expression
}

func (*Group) isExpression() {}

// NewGroup wraps an expression in an explicit group.
func NewGroup(inner Expression) (*Group, error) {
	if inner == nil {
		return nil, fmt.Errorf("group: inner expression is required")
	}
	return &Group{inner: inner}, nil
}

// Inner returns the grouped expression.
func (g *Group) Inner() Expression { return g.inner }

// Fields returns the distinct field names referenced by expr, in first-seen order.
func Fields(expr Expression) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	Walk(expr, func(e Expression) {
		switch n := e.(type) {
		case *Comparison:
			add(n.key)
		case *Membership:
			add(n.key)
		}
	})
	return out
}

// Walk visits every node of the tree in depth-first order.
func Walk(expr Expression, visit func(Expression)) {
	if expr == nil {
		return
	}
	visit(expr)
	switch n := expr.(type) {
	case *And:
		Walk(n.left, visit)
		Walk(n.right, visit)
	case *Or:
		Walk(n.left, visit)
		Walk(n.right, visit)
	case *Group:
		Walk(n.inner, visit)
	}
}

// String renders the expression back in the portable surface grammar.
// Useful for logs and error messages, not for the native query.
func String(expr Expression) string {
	switch n := expr.(type) {
	case *Comparison:
		if n.numeric {
			return fmt.Sprintf("%s %s %s", n.key, n.op, strconv.FormatFloat(n.num, 'f', -1, 64))
		}
		return fmt.Sprintf("%s %s '%s'", n.key, n.op, n.str)
	case *Membership:
		s := n.key + " in ["
		for i, v := range n.values {
			if i > 0 {
				s += ","
			}
			s += "'" + v + "'"
		}
		return s + "]"
	case *And:
		return String(n.left) + " && " + String(n.right)
	case *Or:
		return String(n.left) + " || " + String(n.right)
	case *Group:
		return "(" + String(n.inner) + ")"
	default:
		return ""
	}
}
