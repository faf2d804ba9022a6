// Package field defines the metadata field types a store schema declares.
package field

import "fmt"

// Type is the declared type of a metadata field.
type Type string

const (
	// Tag is an exact-match categorical field.
	Tag Type = "tag"
	// Text is a full-text field.
	Text Type = "text"
	// Numeric is a numeric range field.
	Numeric Type = "numeric"
)

// ParseType validates and converts a string into a field Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Tag, Text, Numeric:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown field type %q (want tag, text, or numeric)", s)
	}
}

// Field is a single declared metadata field (immutable value object).
type Field struct {
	name      string
	fieldType Type
}

// New validates and creates a Field.
func New(name string, ft Type) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if _, err := ParseType(string(ft)); err != nil {
		return Field{}, fmt.Errorf("field %q: %w", name, err)
	}
	return Field{name: name, fieldType: ft}, nil
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the declared type.
func (f Field) FieldType() Type { return f.fieldType }
