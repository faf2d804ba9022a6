package toolcall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Call is a model-initiated invocation request.
type Call struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Result is the JSON-serialized outcome of one call, appended back to the
// conversation as a tool-result message.
type Result struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
}

// Dispatch resolves one call: exact-name lookup, strict argument decoding,
// invocation, JSON serialization of the return value.
func (r *Registry) Dispatch(ctx context.Context, call Call) (Result, error) {
	d, err := r.Lookup(call.Name)
	if err != nil {
		return Result{}, err
	}

	content, err := d.invoke(ctx, call.Arguments)
	if err != nil {
		return Result{}, err
	}

	return Result{ID: call.ID, Name: call.Name, Content: content}, nil
}

// DispatchAll resolves every call independently and merges the results.
// Failures do not stop the remaining calls; their errors are joined and
// returned alongside the successful results.
func (r *Registry) DispatchAll(ctx context.Context, calls []Call) ([]Result, error) {
	results := make([]Result, 0, len(calls))
	var errs []error

	for _, call := range calls {
		res, err := r.Dispatch(ctx, call)
		if err != nil {
			errs = append(errs, fmt.Errorf("call %s: %w", call.ID, err))
			continue
		}
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}
