// Package assistant adapts a hosted chat model to the services.LanguageModel port.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eataliano-backend/models"
	"eataliano-backend/services"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultTemperature = 0.7

// Model wraps any langchaingo model that supports tool calling.
type Model struct {
	llm         llms.Model
	temperature float64
}

func New(llm llms.Model) *Model {
	return &Model{llm: llm, temperature: defaultTemperature}
}

// NewOpenAI builds an OpenAI-backed model. A missing key yields a model that always reports misconfiguration.
func NewOpenAI(apiKey, model string) (services.LanguageModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Unconfigured{}, nil
	}
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return New(llm), nil
}

func (m *Model) Complete(ctx context.Context, messages []models.ChatMessage, tools []services.ToolDeclaration) (models.ChatMessage, error) {
	resp, err := m.llm.GenerateContent(ctx, toMessageContent(messages),
		llms.WithTools(toTools(tools)),
		llms.WithTemperature(m.temperature),
	)
	if err != nil {
		if isAuthError(err) {
			return models.ChatMessage{}, fmt.Errorf("%w: %v", services.ErrModelAuth, err)
		}
		return models.ChatMessage{}, err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return models.ChatMessage{}, errors.New("language model returned no choices")
	}

	choice := resp.Choices[0]
	out := models.ChatMessage{Role: models.ChatRoleAssistant, Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		out.ToolCalls = append(out.ToolCalls, models.ToolCall{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: tc.FunctionCall.Arguments,
		})
	}
	return out, nil
}

func toMessageContent(messages []models.ChatMessage) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case models.ChatRoleSystem:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case models.ChatRoleUser:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case models.ChatRoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if msg.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextPart(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			out = append(out, mc)
		case models.ChatRoleTool:
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: msg.ToolCallID,
					Name:       msg.Name,
					Content:    msg.Content,
				}},
			})
		}
	}
	return out
}

func toTools(decls []services.ToolDeclaration) []llms.Tool {
	tools := make([]llms.Tool, 0, len(decls))
	for _, d := range decls {
		tools = append(tools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return tools
}

func isAuthError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"api key", "401", "unauthorized", "authentication", "invalid_api_key"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Unconfigured stands in when no API key is set.
type Unconfigured struct{}

func (Unconfigured) Complete(context.Context, []models.ChatMessage, []services.ToolDeclaration) (models.ChatMessage, error) {
	return models.ChatMessage{}, fmt.Errorf("%w: OPENAI_API_KEY not set", services.ErrModelAuth)
}
