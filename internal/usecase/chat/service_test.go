package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/toolcall"
)

func TestGenerate_PlainAnswer(t *testing.T) {
	model := &mockModel{
		completions: []Completion{{Content: "the answer"}},
	}
	svc := New(model, &mockDispatcher{})

	got, err := svc.Generate(context.Background(), "question")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "the answer" {
		t.Errorf("Generate() = %q, want %q", got, "the answer")
	}

	if len(model.transcripts) != 1 {
		t.Fatalf("model called %d times, want 1", len(model.transcripts))
	}
	msgs := model.transcripts[0]
	if len(msgs) != 1 || msgs[0].Role != RoleUser || msgs[0].Content != "question" {
		t.Errorf("transcript = %+v", msgs)
	}
}

func TestGenerate_SystemPrompt(t *testing.T) {
	model := &mockModel{completions: []Completion{{Content: "ok"}}}
	svc := New(model, &mockDispatcher{}, WithSystemPrompt("be terse"))

	if _, err := svc.Generate(context.Background(), "hi"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	msgs := model.transcripts[0]
	if len(msgs) != 2 || msgs[0].Role != RoleSystem || msgs[0].Content != "be terse" {
		t.Errorf("transcript = %+v, want leading system message", msgs)
	}
}

func TestGenerate_EmptyPrompt(t *testing.T) {
	svc := New(&mockModel{}, &mockDispatcher{})

	if _, err := svc.Generate(context.Background(), ""); err == nil {
		t.Error("Generate(\"\") expected error, got nil")
	}
}

func TestGenerate_ToolRoundThenAnswer(t *testing.T) {
	call := toolcall.Call{ID: "c1", Name: "lookup", Arguments: json.RawMessage(`{"q":"x"}`)}
	model := &mockModel{
		completions: []Completion{
			{ToolCalls: []toolcall.Call{call}},
			{Content: "done"},
		},
	}
	dispatcher := &mockDispatcher{
		dispatchFn: func(_ context.Context, c toolcall.Call) (toolcall.Result, error) {
			return toolcall.Result{
				ID: c.ID, Name: c.Name, Content: json.RawMessage(`{"hits":1}`),
			}, nil
		},
	}
	svc := New(model, dispatcher)

	got, err := svc.Generate(context.Background(), "question")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "done" {
		t.Errorf("Generate() = %q, want done", got)
	}

	if len(dispatcher.dispatched) != 1 || dispatcher.dispatched[0].Name != "lookup" {
		t.Errorf("dispatched = %+v", dispatcher.dispatched)
	}

	// Second round sees the assistant request and the tool result.
	if len(model.transcripts) != 2 {
		t.Fatalf("model called %d times, want 2", len(model.transcripts))
	}
	msgs := model.transcripts[1]
	if len(msgs) != 3 {
		t.Fatalf("second transcript has %d messages, want 3", len(msgs))
	}
	if msgs[1].Role != RoleAssistant || len(msgs[1].ToolCalls) != 1 {
		t.Errorf("assistant message = %+v", msgs[1])
	}
	toolMsg := msgs[2]
	if toolMsg.Role != RoleTool || toolMsg.ToolCallID != "c1" || toolMsg.Name != "lookup" {
		t.Errorf("tool message = %+v", toolMsg)
	}
	if toolMsg.Content != `{"hits":1}` {
		t.Errorf("tool content = %q", toolMsg.Content)
	}
}

func TestGenerate_FailedDispatchFeedsErrorBack(t *testing.T) {
	model := &mockModel{
		completions: []Completion{
			{ToolCalls: []toolcall.Call{{ID: "c1", Name: "missing"}}},
			{Content: "recovered"},
		},
	}
	dispatcher := &mockDispatcher{
		dispatchFn: func(_ context.Context, _ toolcall.Call) (toolcall.Result, error) {
			return toolcall.Result{}, domain.NewFunctionNotFound("missing")
		},
	}
	svc := New(model, dispatcher)

	got, err := svc.Generate(context.Background(), "question")
	if err != nil {
		t.Fatalf("Generate() error = %v, want error fed back to the model", err)
	}
	if got != "recovered" {
		t.Errorf("Generate() = %q, want recovered", got)
	}

	toolMsg := model.transcripts[1][2]
	if toolMsg.Role != RoleTool {
		t.Fatalf("tool message = %+v", toolMsg)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(toolMsg.Content), &payload); err != nil {
		t.Fatalf("tool content is not valid JSON: %v", err)
	}
	if !strings.Contains(payload["error"], "missing") {
		t.Errorf("error payload = %q", payload["error"])
	}
}

func TestGenerate_IndependentCallsInOneRound(t *testing.T) {
	model := &mockModel{
		completions: []Completion{
			{ToolCalls: []toolcall.Call{
				{ID: "c1", Name: "good"},
				{ID: "c2", Name: "bad"},
			}},
			{Content: "merged"},
		},
	}
	dispatcher := &mockDispatcher{
		dispatchFn: func(_ context.Context, c toolcall.Call) (toolcall.Result, error) {
			if c.Name == "bad" {
				return toolcall.Result{}, fmt.Errorf("boom")
			}
			return toolcall.Result{ID: c.ID, Name: c.Name, Content: json.RawMessage(`"ok"`)}, nil
		},
	}
	svc := New(model, dispatcher)

	got, err := svc.Generate(context.Background(), "question")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "merged" {
		t.Errorf("Generate() = %q", got)
	}

	// One failing call does not suppress the other's result.
	if len(dispatcher.dispatched) != 2 {
		t.Fatalf("dispatched %d calls, want 2", len(dispatcher.dispatched))
	}
	msgs := model.transcripts[1]
	if len(msgs) != 4 {
		t.Fatalf("second transcript has %d messages, want 4", len(msgs))
	}
	if msgs[2].ToolCallID != "c1" || msgs[3].ToolCallID != "c2" {
		t.Errorf("tool messages out of order: %+v, %+v", msgs[2], msgs[3])
	}
}

func TestGenerate_ModelFailure(t *testing.T) {
	model := &mockModel{err: fmt.Errorf("rate limited")}
	svc := New(model, &mockDispatcher{})

	_, err := svc.Generate(context.Background(), "question")
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Errorf("Generate() error = %v, want ErrChatProviderError", err)
	}
}

func TestGenerate_RoundBudget(t *testing.T) {
	// The model keeps requesting calls and never answers.
	looping := make([]Completion, 10)
	for i := range looping {
		looping[i] = Completion{ToolCalls: []toolcall.Call{{ID: "c", Name: "spin"}}}
	}
	model := &mockModel{completions: looping}
	svc := New(model, &mockDispatcher{}, WithMaxRounds(3))

	_, err := svc.Generate(context.Background(), "question")
	if !errors.Is(err, ErrTooManyRounds) {
		t.Errorf("Generate() error = %v, want ErrTooManyRounds", err)
	}
	if len(model.transcripts) != 3 {
		t.Errorf("model called %d times, want 3", len(model.transcripts))
	}
}
