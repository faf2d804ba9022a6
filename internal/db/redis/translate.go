package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toolvec/toolvec/internal/db"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/filter"
)

// translateFilter renders a portable filter expression into the FT.SEARCH
// pre-filter grammar. Tag equality renders as @f:{v}, membership as
// @f:{v1 | v2}, numeric ranges as @f:[min max] with inf/-inf open bounds,
// AND as juxtaposition, OR as a (a | b) group.
func translateFilter(expr filter.Expression, types map[string]field.Type) (string, error) {
	if expr == nil {
		return "", nil
	}
	switch n := expr.(type) {
	case *filter.Comparison:
		return translateComparison(n, types)
	case *filter.Membership:
		return translateMembership(n, types)
	case *filter.And:
		left, err := translateFilter(n.Left(), types)
		if err != nil {
			return "", err
		}
		right, err := translateFilter(n.Right(), types)
		if err != nil {
			return "", err
		}
		return left + " " + right, nil
	case *filter.Or:
		left, err := translateFilter(n.Left(), types)
		if err != nil {
			return "", err
		}
		right, err := translateFilter(n.Right(), types)
		if err != nil {
			return "", err
		}
		return "(" + left + " | " + right + ")", nil
	case *filter.Group:
		inner, err := translateFilter(n.Inner(), types)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	default:
		return "", fmt.Errorf("%w: unknown node %T", db.ErrUnsupportedFilter, expr)
	}
}

func translateComparison(c *filter.Comparison, types map[string]field.Type) (string, error) {
	ft, ok := types[c.Key()]
	if !ok {
		return "", fmt.Errorf("%w: %q", db.ErrUnknownFilterField, c.Key())
	}

	if c.Operator().IsOrdering() {
		if ft != field.Numeric {
			return "", fmt.Errorf("%w: operator %s on %s field %q",
				db.ErrUnsupportedFilter, c.Operator(), ft, c.Key())
		}
		return numericRange(c.Key(), c.Operator(), c.Num()), nil
	}

	// Equality
	switch ft {
	case field.Tag:
		if c.IsNumeric() {
			return tagFilter(c.Key(), formatNum(c.Num())), nil
		}
		return tagFilter(c.Key(), c.Str()), nil
	case field.Text:
		if c.IsNumeric() {
			return "", fmt.Errorf("%w: numeric equality on text field %q",
				db.ErrUnsupportedFilter, c.Key())
		}
		return fmt.Sprintf("@%s:(%s)", c.Key(), escapeQuery(c.Str())), nil
	case field.Numeric:
		if !c.IsNumeric() {
			return "", fmt.Errorf("%w: string equality on numeric field %q",
				db.ErrUnsupportedFilter, c.Key())
		}
		v := formatNum(c.Num())
		return fmt.Sprintf("@%s:[%s %s]", c.Key(), v, v), nil
	default:
		return "", fmt.Errorf("%w: field %q has unknown type %q",
			db.ErrUnsupportedFilter, c.Key(), ft)
	}
}

func translateMembership(m *filter.Membership, types map[string]field.Type) (string, error) {
	ft, ok := types[m.Key()]
	if !ok {
		return "", fmt.Errorf("%w: %q", db.ErrUnknownFilterField, m.Key())
	}
	if ft != field.Tag {
		return "", fmt.Errorf("%w: membership on %s field %q",
			db.ErrUnsupportedFilter, ft, m.Key())
	}

	escaped := make([]string, len(m.Values()))
	for i, v := range m.Values() {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", m.Key(), strings.Join(escaped, " | ")), nil
}

func tagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

func numericRange(key string, op filter.Op, v float64) string {
	val := formatNum(v)
	switch op {
	case filter.OpGt:
		return fmt.Sprintf("@%s:[(%s inf]", key, val)
	case filter.OpGte:
		return fmt.Sprintf("@%s:[%s inf]", key, val)
	case filter.OpLt:
		return fmt.Sprintf("@%s:[-inf (%s]", key, val)
	case filter.OpLte:
		return fmt.Sprintf("@%s:[-inf %s]", key, val)
	default:
		return ""
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}
