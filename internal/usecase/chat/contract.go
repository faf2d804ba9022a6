package chat

import (
	"context"

	"github.com/toolvec/toolvec/internal/toolcall"
)

// Message roles used in the conversation transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry in the conversation transcript.
type Message struct {
	Role    string
	Content string

	// Assistant messages requesting invocations carry ToolCalls.
	ToolCalls []toolcall.Call

	// Tool messages answering an invocation carry the call ID and name.
	ToolCallID string
	Name       string
}

// Completion is one model response round.
type Completion struct {
	Content   string
	ToolCalls []toolcall.Call
}

// Model is the chat completion provider contract. Specs advertise the
// registered callbacks the model may request.
type Model interface {
	Complete(ctx context.Context, msgs []Message, specs []toolcall.Spec) (Completion, error)
}

// Dispatcher resolves model-initiated calls against the registry.
type Dispatcher interface {
	Dispatch(ctx context.Context, call toolcall.Call) (toolcall.Result, error)
	Specs() []toolcall.Spec
}
