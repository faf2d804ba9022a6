package toolvec

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/toolvec/toolvec/internal/toolcall"
)

// Tool is a registered callback: a name, a model-facing description, a JSON
// input schema derived from the argument type, and the function itself.
// Create one with NewTool.
type Tool struct {
	d toolcall.Descriptor
}

// NewTool wraps a typed function as a Tool. The input schema is derived from
// A by reflection; call arguments are decoded strictly into A (unknown
// fields or shape mismatches fail with ErrSchemaMismatch before fn runs) and
// the return value is serialized structurally to JSON.
func NewTool[A, R any](
	name, description string, fn func(context.Context, A) (R, error),
) (Tool, error) {
	d, err := toolcall.New(name, description, fn)
	if err != nil {
		return Tool{}, fmt.Errorf("new tool: %w", err)
	}
	return Tool{d: d}, nil
}

// ToolSpec is the callback metadata sent to a chat model.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// ToolCall is a model-initiated invocation request.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult is the JSON-serialized outcome of one call.
type ToolResult struct {
	ID      string
	Name    string
	Content json.RawMessage
}

// Tools is a name-keyed registry of callbacks. Safe for concurrent use.
type Tools struct {
	reg *toolcall.Registry
}

// NewTools creates an empty tool registry.
func NewTools() *Tools {
	return &Tools{reg: toolcall.NewRegistry()}
}

// Register adds a tool. Duplicate names are rejected.
func (t *Tools) Register(tool Tool) error {
	if err := t.reg.Register(tool.d); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Specs returns the registered callback specs, sorted by name.
func (t *Tools) Specs() []ToolSpec {
	specs := t.reg.Specs()
	out := make([]ToolSpec, len(specs))
	for i, s := range specs {
		out[i] = ToolSpec{Name: s.Name, Description: s.Description, InputSchema: s.InputSchema}
	}
	return out
}

// Dispatch resolves one call: exact-name lookup, strict argument decoding,
// invocation, JSON serialization of the return value. An unregistered name
// fails with ErrFunctionNotFound, malformed arguments with ErrSchemaMismatch.
func (t *Tools) Dispatch(ctx context.Context, call ToolCall) (ToolResult, error) {
	res, err := t.reg.Dispatch(ctx, toolcall.Call{
		ID:        call.ID,
		Name:      call.Name,
		Arguments: call.Arguments,
	})
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{ID: res.ID, Name: res.Name, Content: res.Content}, nil
}

// DispatchAll resolves every call independently and merges the results.
// Failures do not stop the remaining calls; their errors come back joined
// alongside the successful results.
func (t *Tools) DispatchAll(ctx context.Context, calls []ToolCall) ([]ToolResult, error) {
	internal := make([]toolcall.Call, len(calls))
	for i, c := range calls {
		internal[i] = toolcall.Call{ID: c.ID, Name: c.Name, Arguments: c.Arguments}
	}

	results, err := t.reg.DispatchAll(ctx, internal)

	out := make([]ToolResult, len(results))
	for i, r := range results {
		out[i] = ToolResult{ID: r.ID, Name: r.Name, Content: r.Content}
	}
	return out, err
}

// Len returns the number of registered tools.
func (t *Tools) Len() int { return t.reg.Len() }
