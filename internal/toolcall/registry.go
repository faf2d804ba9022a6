// Package toolcall implements the function-call adapter: callbacks wrapped
// with name, description, and a JSON input schema so a chat model can
// request their invocation by name with JSON arguments.
package toolcall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"sync"

	"github.com/toolvec/toolvec/internal/domain"
)

// nameRegex matches the function names accepted by chat model APIs.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Spec is the callback metadata sent to the model.
type Spec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// InvokeFunc runs a registered callback with raw JSON arguments and returns
// the JSON-serialized result.
type InvokeFunc func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// Descriptor binds a callback to its metadata. Created at configuration
// time, never mutated after registration.
type Descriptor struct {
	name        string
	description string
	inputSchema json.RawMessage
	invoke      InvokeFunc
}

// New creates a Descriptor for a typed single-argument function. The input
// schema is derived from A by reflection. Arguments are decoded strictly:
// unknown fields or shape mismatches fail with a schema-mismatch error
// before fn runs. The return value is serialized structurally to JSON.
func New[A, R any](name, description string, fn func(context.Context, A) (R, error)) (Descriptor, error) {
	if !nameRegex.MatchString(name) {
		return Descriptor{}, fmt.Errorf(
			"function name %q must match %s", name, nameRegex.String(),
		)
	}
	if fn == nil {
		return Descriptor{}, fmt.Errorf("function %q: callback is required", name)
	}

	schema, err := SchemaFor(reflect.TypeOf((*A)(nil)).Elem())
	if err != nil {
		return Descriptor{}, fmt.Errorf("function %q: derive input schema: %w", name, err)
	}

	invoke := func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var a A
		if len(args) > 0 {
			dec := json.NewDecoder(bytes.NewReader(args))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&a); err != nil {
				return nil, fmt.Errorf("%w: function %q: %w", domain.ErrSchemaMismatch, name, err)
			}
		}

		r, err := fn(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", name, err)
		}

		out, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("function %q: serialize result: %w", name, err)
		}
		return out, nil
	}

	return Descriptor{
		name:        name,
		description: description,
		inputSchema: schema,
		invoke:      invoke,
	}, nil
}

// Name returns the unique function identifier.
func (d Descriptor) Name() string { return d.name }

// Description returns the model-selection hint.
func (d Descriptor) Description() string { return d.description }

// InputSchema returns the JSON Schema of the argument shape.
func (d Descriptor) InputSchema() json.RawMessage { return d.inputSchema }

// Spec returns the metadata sent to the model.
func (d Descriptor) Spec() Spec {
	return Spec{Name: d.name, Description: d.description, InputSchema: d.inputSchema}
}

// Registry is a name-keyed mapping of registered callbacks.
type Registry struct {
	mu    sync.RWMutex
	byName map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Descriptor)}
}

// Register adds a descriptor. Duplicate names are rejected.
func (r *Registry) Register(d Descriptor) error {
	if d.name == "" || d.invoke == nil {
		return fmt.Errorf("descriptor is not initialized (use toolcall.New)")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[d.name]; exists {
		return fmt.Errorf("function %q already registered", d.name)
	}
	r.byName[d.name] = d
	return nil
}

// Lookup finds a descriptor by exact name match.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byName[name]
	if !ok {
		return Descriptor{}, domain.NewFunctionNotFound(name)
	}
	return d, nil
}

// Specs returns all registered callback specs, sorted by name.
func (r *Registry) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]Spec, 0, len(r.byName))
	for _, d := range r.byName {
		specs = append(specs, d.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Len returns the number of registered callbacks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
