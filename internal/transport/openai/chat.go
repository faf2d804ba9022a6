package openai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/toolvec/toolvec/internal/domain"
	"github.com/toolvec/toolvec/internal/toolcall"
	"github.com/toolvec/toolvec/internal/usecase/chat"
)

// ChatModel is a chat completion provider with tool-call support on the
// OpenAI-compatible API. Implements usecase/chat.Model.
type ChatModel struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// ChatConfig holds the chat provider settings.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Logger      *zap.Logger
}

// NewChatModel creates an OpenAI-compatible chat provider.
func NewChatModel(cfg *ChatConfig) *ChatModel {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ChatModel{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// Complete sends the conversation plus callback specs and returns the next
// assistant turn, including any requested tool calls.
func (m *ChatModel) Complete(
	ctx context.Context, msgs []chat.Message, specs []toolcall.Spec,
) (chat.Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: m.temperature,
		Messages:    buildMessages(msgs),
		Tools:       buildTools(specs),
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		m.logger.Warn("chat completion failed", zap.String("model", m.model), zap.Error(err))
		return chat.Completion{}, parseAPIError("chat", err)
	}

	if len(resp.Choices) == 0 {
		return chat.Completion{}, fmt.Errorf("empty chat response: %w", domain.ErrChatProviderError)
	}

	return parseChoice(resp.Choices[0]), nil
}

// buildMessages converts the transcript into API messages.
func buildMessages(msgs []chat.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, msg := range msgs {
		apiMsg := openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
		if msg.Role == chat.RoleTool {
			apiMsg.ToolCallID = msg.ToolCallID
			apiMsg.Name = msg.Name
		}
		for _, call := range msg.ToolCalls {
			apiMsg.ToolCalls = append(apiMsg.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: string(call.Arguments),
				},
			})
		}
		out = append(out, apiMsg)
	}
	return out
}

// buildTools converts callback specs into API tool definitions.
func buildTools(specs []toolcall.Spec) []openai.Tool {
	if len(specs) == 0 {
		return nil
	}
	tools := make([]openai.Tool, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.InputSchema,
			},
		})
	}
	return tools
}

// parseChoice maps an API choice back into a completion.
func parseChoice(choice openai.ChatCompletionChoice) chat.Completion {
	completion := chat.Completion{Content: choice.Message.Content}
	for _, tc := range choice.Message.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, toolcall.Call{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return completion
}
