package filter

import (
	"testing"
)

func TestParse_Comparison(t *testing.T) {
	expr, err := Parse("country = 'UK'")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	c, ok := expr.(*Comparison)
	if !ok {
		t.Fatalf("Parse() returned %T, want *Comparison", expr)
	}
	if c.Key() != "country" {
		t.Errorf("Key() = %q, want %q", c.Key(), "country")
	}
	if c.Operator() != OpEq {
		t.Errorf("Operator() = %q, want %q", c.Operator(), OpEq)
	}
	if c.IsNumeric() {
		t.Error("IsNumeric() = true, want false")
	}
	if c.Str() != "UK" {
		t.Errorf("Str() = %q, want %q", c.Str(), "UK")
	}
}

func TestParse_DoubleEqualsIsEquality(t *testing.T) {
	expr, err := Parse(`country == "NL"`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	c := expr.(*Comparison)
	if c.Operator() != OpEq {
		t.Errorf("Operator() = %q, want %q", c.Operator(), OpEq)
	}
	if c.Str() != "NL" {
		t.Errorf("Str() = %q, want %q", c.Str(), "NL")
	}
}

func TestParse_BareWordValue(t *testing.T) {
	expr, err := Parse("country = UK")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	c := expr.(*Comparison)
	if c.Str() != "UK" {
		t.Errorf("Str() = %q, want %q", c.Str(), "UK")
	}
}

func TestParse_NumericComparison(t *testing.T) {
	expr, err := Parse("year >= 2020")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	c := expr.(*Comparison)
	if c.Operator() != OpGte {
		t.Errorf("Operator() = %q, want %q", c.Operator(), OpGte)
	}
	if !c.IsNumeric() {
		t.Fatal("IsNumeric() = false, want true")
	}
	if c.Num() != 2020 {
		t.Errorf("Num() = %v, want 2020", c.Num())
	}
}

func TestParse_NegativeAndFractionalNumbers(t *testing.T) {
	expr, err := Parse("delta > -1.5")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	c := expr.(*Comparison)
	if c.Num() != -1.5 {
		t.Errorf("Num() = %v, want -1.5", c.Num())
	}
}

func TestParse_Membership(t *testing.T) {
	expr, err := Parse("country in ['UK', 'NL', 'DE']")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	m, ok := expr.(*Membership)
	if !ok {
		t.Fatalf("Parse() returned %T, want *Membership", expr)
	}
	if m.Key() != "country" {
		t.Errorf("Key() = %q, want %q", m.Key(), "country")
	}
	want := []string{"UK", "NL", "DE"}
	if len(m.Values()) != len(want) {
		t.Fatalf("Values() = %v, want %v", m.Values(), want)
	}
	for i, v := range want {
		if m.Values()[i] != v {
			t.Errorf("Values()[%d] = %q, want %q", i, m.Values()[i], v)
		}
	}
}

func TestParse_AndOfMembershipAndRange(t *testing.T) {
	expr, err := Parse("country in ['UK','NL'] && year >= 2020")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	a, ok := expr.(*And)
	if !ok {
		t.Fatalf("Parse() returned %T, want *And", expr)
	}
	if _, ok := a.Left().(*Membership); !ok {
		t.Errorf("Left() is %T, want *Membership", a.Left())
	}
	if _, ok := a.Right().(*Comparison); !ok {
		t.Errorf("Right() is %T, want *Comparison", a.Right())
	}
}

func TestParse_AndBindsTighterThanOr(t *testing.T) {
	expr, err := Parse("a = 1 || b = 2 && c = 3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	o, ok := expr.(*Or)
	if !ok {
		t.Fatalf("Parse() returned %T, want *Or", expr)
	}
	if _, ok := o.Left().(*Comparison); !ok {
		t.Errorf("Left() is %T, want *Comparison", o.Left())
	}
	if _, ok := o.Right().(*And); !ok {
		t.Errorf("Right() is %T, want *And", o.Right())
	}
}

func TestParse_ParensOverridePrecedence(t *testing.T) {
	expr, err := Parse("(a = 1 || b = 2) && c = 3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	a, ok := expr.(*And)
	if !ok {
		t.Fatalf("Parse() returned %T, want *And", expr)
	}
	g, ok := a.Left().(*Group)
	if !ok {
		t.Fatalf("Left() is %T, want *Group", a.Left())
	}
	if _, ok := g.Inner().(*Or); !ok {
		t.Errorf("Inner() is %T, want *Or", g.Inner())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"lone ampersand", "a = 1 & b = 2"},
		{"lone pipe", "a = 1 | b = 2"},
		{"unterminated string", "country = 'UK"},
		{"missing value", "country ="},
		{"missing operator", "country 'UK'"},
		{"trailing garbage", "country = 'UK' year"},
		{"unclosed paren", "(a = 1"},
		{"unclosed membership", "country in ['UK'"},
		{"empty membership", "country in []"},
		{"ordering on string", "country > 'UK'"},
		{"bad character", "a = 1 ? b = 2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.input); err == nil {
				t.Errorf("Parse(%q) expected error, got nil", tc.input)
			}
		})
	}
}

func TestFields(t *testing.T) {
	expr, err := Parse("country in ['UK','NL'] && (year >= 2020 || country = 'DE')")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := Fields(expr)
	want := []string{"country", "year"}
	if len(got) != len(want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestString_RoundTrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"country = 'UK'", "country = 'UK'"},
		{"year >= 2020", "year >= 2020"},
		{"country in ['UK','NL']", "country in ['UK','NL']"},
		{"a = 1 && b = 2", "a = 1 && b = 2"},
		{"(a = 1 || b = 2)", "(a = 1 || b = 2)"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			expr, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := String(expr); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewComparison_Validation(t *testing.T) {
	if _, err := NewComparison("", OpEq, "x"); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := NewComparison("f", OpEq, ""); err == nil {
		t.Error("expected error for empty string value")
	}
	if _, err := NewComparison("f", OpGt, "x"); err == nil {
		t.Error("expected error for ordering operator with string value")
	}
	if _, err := NewComparison("f", Op("!="), 1); err == nil {
		t.Error("expected error for unknown operator")
	}
	if _, err := NewComparison("f", OpEq, true); err == nil {
		t.Error("expected error for unsupported value type")
	}
}

func TestNewMembership_Validation(t *testing.T) {
	if _, err := NewMembership("", "a"); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := NewMembership("f"); err == nil {
		t.Error("expected error for empty value list")
	}
	if _, err := NewMembership("f", "a", ""); err == nil {
		t.Error("expected error for empty value")
	}
}
