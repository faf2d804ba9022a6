package toolcall

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// SchemaFor derives a JSON Schema for the given Go type. It is used to
// describe a function's input shape to the model. Struct fields map to
// object properties by json tag name; non-pointer fields without omitempty
// are required. A `description` struct tag becomes the property description.
func SchemaFor(t reflect.Type) (json.RawMessage, error) {
	node, err := schemaNode(t, map[reflect.Type]bool{})
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

var timeType = reflect.TypeOf(time.Time{})

func schemaNode(t reflect.Type, seen map[reflect.Type]bool) (map[string]any, error) {
	if t == timeType {
		return map[string]any{"type": "string", "format": "date-time"}, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		return schemaNode(t.Elem(), seen)

	case reflect.String:
		return map[string]any{"type": "string"}, nil

	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}, nil

	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil

	case reflect.Slice, reflect.Array:
		items, err := schemaNode(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "array", "items": items}, nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key type %s is not supported (want string)", t.Key())
		}
		values, err := schemaNode(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "object", "additionalProperties": values}, nil

	case reflect.Interface:
		// Any JSON value.
		return map[string]any{}, nil

	case reflect.Struct:
		return structSchema(t, seen)

	default:
		return nil, fmt.Errorf("type %s is not representable in JSON Schema", t)
	}
}

func structSchema(t reflect.Type, seen map[reflect.Type]bool) (map[string]any, error) {
	if seen[t] {
		return nil, fmt.Errorf("cyclic type %s is not supported", t)
	}
	seen[t] = true
	defer delete(seen, t)

	properties := map[string]any{}
	var required []string

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name, opts, skip := jsonName(f)
		if skip {
			continue
		}

		prop, err := schemaNode(f.Type, seen)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}

		if desc := f.Tag.Get("description"); desc != "" {
			prop["description"] = desc
		}
		if enum := f.Tag.Get("enum"); enum != "" {
			vals := strings.Split(enum, ",")
			anyVals := make([]any, len(vals))
			for j, v := range vals {
				anyVals[j] = v
			}
			prop["enum"] = anyVals
		}

		properties[name] = prop

		if f.Type.Kind() != reflect.Pointer && !opts.contains("omitempty") {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema, nil
}

type tagOptions []string

func (o tagOptions) contains(opt string) bool {
	for _, v := range o {
		if v == opt {
			return true
		}
	}
	return false
}

func jsonName(f reflect.StructField) (name string, opts tagOptions, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", nil, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = f.Name
	}
	return name, tagOptions(parts[1:]), false
}
