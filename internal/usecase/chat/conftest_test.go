package chat

import (
	"context"

	"github.com/toolvec/toolvec/internal/toolcall"
)

// mockModel implements Model by replaying scripted completions in order.
type mockModel struct {
	completions []Completion
	err         error
	transcripts [][]Message
	round       int
}

func (m *mockModel) Complete(
	_ context.Context, msgs []Message, _ []toolcall.Spec,
) (Completion, error) {
	snapshot := make([]Message, len(msgs))
	copy(snapshot, msgs)
	m.transcripts = append(m.transcripts, snapshot)

	if m.err != nil {
		return Completion{}, m.err
	}
	if m.round >= len(m.completions) {
		return Completion{}, nil
	}
	c := m.completions[m.round]
	m.round++
	return c, nil
}

// mockDispatcher implements Dispatcher with overridable functions.
type mockDispatcher struct {
	dispatchFn func(ctx context.Context, call toolcall.Call) (toolcall.Result, error)
	specsFn    func() []toolcall.Spec
	dispatched []toolcall.Call
}

func (m *mockDispatcher) Dispatch(ctx context.Context, call toolcall.Call) (toolcall.Result, error) {
	m.dispatched = append(m.dispatched, call)
	if m.dispatchFn != nil {
		return m.dispatchFn(ctx, call)
	}
	return toolcall.Result{ID: call.ID, Name: call.Name}, nil
}

func (m *mockDispatcher) Specs() []toolcall.Spec {
	if m.specsFn != nil {
		return m.specsFn()
	}
	return nil
}
