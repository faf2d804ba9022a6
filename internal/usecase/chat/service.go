// Package chat runs the tool-call conversation loop: prompt the model with
// the registered callback specs, dispatch every call it requests, feed the
// results back, repeat until the model answers with plain content.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/metrics"
	"github.com/toolvec/toolvec/internal/toolcall"
)

// DefaultMaxRounds bounds the number of completion rounds per Generate call.
const DefaultMaxRounds = 8

// ErrTooManyRounds signals a conversation that never converged to a plain
// content answer within the round budget.
var ErrTooManyRounds = errors.New("tool-call loop exceeded round budget")

// Service drives tool-call conversations against a chat model.
type Service struct {
	model      Model
	dispatcher Dispatcher
	system     string
	maxRounds  int
}

// Option configures a Service.
type Option func(*Service)

// WithSystemPrompt prepends a system message to every conversation.
func WithSystemPrompt(prompt string) Option {
	return func(s *Service) { s.system = prompt }
}

// WithMaxRounds overrides the completion round budget.
func WithMaxRounds(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRounds = n
		}
	}
}

// New creates a chat service.
func New(model Model, dispatcher Dispatcher, opts ...Option) *Service {
	s := &Service{model: model, dispatcher: dispatcher, maxRounds: DefaultMaxRounds}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs the conversation loop for a single user prompt and returns
// the final assistant content.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt is required")
	}

	var msgs []Message
	if s.system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: s.system})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: prompt})

	specs := s.dispatcher.Specs()

	for round := 0; round < s.maxRounds; round++ {
		metrics.ChatRoundsTotal.Inc()

		completion, err := s.model.Complete(ctx, msgs, specs)
		if err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrChatProviderError, err)
		}

		if len(completion.ToolCalls) == 0 {
			return completion.Content, nil
		}

		msgs = append(msgs, Message{
			Role:      RoleAssistant,
			Content:   completion.Content,
			ToolCalls: completion.ToolCalls,
		})

		for _, call := range completion.ToolCalls {
			msgs = append(msgs, s.runCall(ctx, call))
		}
	}

	return "", fmt.Errorf("%w (%d rounds)", ErrTooManyRounds, s.maxRounds)
}

// runCall dispatches one model-initiated call and renders the outcome as a
// tool message. Failures go back to the model as an error payload instead
// of aborting the conversation.
func (s *Service) runCall(ctx context.Context, call toolcall.Call) Message {
	start := time.Now()

	res, err := s.dispatcher.Dispatch(ctx, call)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ToolDispatchTotal.WithLabelValues(call.Name, status).Inc()
	metrics.ToolDispatchDuration.WithLabelValues(call.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		return Message{
			Role:       RoleTool,
			Content:    string(payload),
			ToolCallID: call.ID,
			Name:       call.Name,
		}
	}

	return Message{
		Role:       RoleTool,
		Content:    string(res.Content),
		ToolCallID: res.ID,
		Name:       res.Name,
	}
}
