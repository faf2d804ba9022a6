package redis

import (
	"errors"
	"testing"

	"github.com/toolvec/toolvec/internal/db"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/filter"
)

func testFieldTypes() map[string]field.Type {
	return map[string]field.Type{
		"country": field.Tag,
		"title":   field.Text,
		"year":    field.Numeric,
	}
}

func mustParse(t *testing.T, input string) filter.Expression {
	t.Helper()
	expr, err := filter.Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", input, err)
	}
	return expr
}

func TestTranslateFilter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "tag equality",
			input: "country = 'UK'",
			want:  "@country:{UK}",
		},
		{
			name:  "membership",
			input: "country in ['UK','NL']",
			want:  "@country:{UK | NL}",
		},
		{
			name:  "numeric gte",
			input: "year >= 2020",
			want:  "@year:[2020 inf]",
		},
		{
			name:  "numeric gt is exclusive",
			input: "year > 2020",
			want:  "@year:[(2020 inf]",
		},
		{
			name:  "numeric lt is exclusive",
			input: "year < 2020",
			want:  "@year:[-inf (2020]",
		},
		{
			name:  "numeric lte",
			input: "year <= 2020",
			want:  "@year:[-inf 2020]",
		},
		{
			name:  "numeric equality",
			input: "year = 2020",
			want:  "@year:[2020 2020]",
		},
		{
			name:  "and is juxtaposition",
			input: "country in ['UK','NL'] && year >= 2020",
			want:  "@country:{UK | NL} @year:[2020 inf]",
		},
		{
			name:  "or is a group",
			input: "country = 'UK' || year >= 2020",
			want:  "(@country:{UK} | @year:[2020 inf])",
		},
		{
			name:  "explicit group",
			input: "(country = 'UK' || country = 'NL') && year < 2000",
			want:  "((@country:{UK} | @country:{NL})) @year:[-inf (2000]",
		},
		{
			name:  "text equality",
			input: "title = 'intro'",
			want:  "@title:(intro)",
		},
		{
			name:  "tag value is escaped",
			input: "country = 'New Zealand'",
			want:  "@country:{New\\ Zealand}",
		},
		{
			name:  "membership values are escaped",
			input: "country in ['UK','Costa Rica']",
			want:  "@country:{UK | Costa\\ Rica}",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := translateFilter(mustParse(t, tc.input), testFieldTypes())
			if err != nil {
				t.Fatalf("translateFilter() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("translateFilter() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTranslateFilter_NilIsEmpty(t *testing.T) {
	got, err := translateFilter(nil, testFieldTypes())
	if err != nil {
		t.Fatalf("translateFilter(nil) error = %v", err)
	}
	if got != "" {
		t.Errorf("translateFilter(nil) = %q, want empty", got)
	}
}

func TestTranslateFilter_UnknownField(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"comparison", "region = 'EU'"},
		{"membership", "region in ['EU']"},
		{"nested", "country = 'UK' && region = 'EU'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := translateFilter(mustParse(t, tc.input), testFieldTypes())
			if !errors.Is(err, db.ErrUnknownFilterField) {
				t.Errorf("translateFilter() error = %v, want ErrUnknownFilterField", err)
			}
		})
	}
}

func TestTranslateFilter_UnsupportedShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ordering on tag field", "country >= 1"},
		{"ordering on text field", "title > 1"},
		{"membership on numeric field", "year in ['2020']"},
		{"membership on text field", "title in ['a']"},
		{"numeric equality on text field", "title = 5"},
		{"string equality on numeric field", "year = 'old'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := translateFilter(mustParse(t, tc.input), testFieldTypes())
			if !errors.Is(err, db.ErrUnsupportedFilter) {
				t.Errorf("translateFilter() error = %v, want ErrUnsupportedFilter", err)
			}
		})
	}
}
