package assistant

import (
	"context"
	"errors"
	"testing"

	"eataliano-backend/models"
	"eataliano-backend/services"

	"github.com/tmc/langchaingo/llms"
)

type recordingLLM struct {
	messages []llms.MessageContent
	options  llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (r *recordingLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	r.messages = messages
	for _, opt := range options {
		opt(&r.options)
	}
	return r.resp, r.err
}

func (r *recordingLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, r, prompt, options...)
}

func TestCompleteConvertsConversation(t *testing.T) {
	llm := &recordingLLM{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content: "",
		ToolCalls: []llms.ToolCall{{
			ID:           "call_2",
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: "lookup_menu", Arguments: `{"category":"Pizza"}`},
		}},
	}}}}
	m := New(llm)

	history := []models.ChatMessage{
		{Role: models.ChatRoleSystem, Content: "Je bent de assistent."},
		{Role: models.ChatRoleUser, Content: "Wat is er?"},
		{Role: models.ChatRoleAssistant, ToolCalls: []models.ToolCall{{ID: "call_1", Name: "get_location_info", Arguments: "{}"}}},
		{Role: models.ChatRoleTool, ToolCallID: "call_1", Name: "get_location_info", Content: `[]`},
	}
	decls := []services.ToolDeclaration{{Name: "lookup_menu", Description: "Menu", Parameters: map[string]any{"type": "object"}}}

	out, err := m.Complete(context.Background(), history, decls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Role != models.ChatRoleAssistant || len(out.ToolCalls) != 1 || out.ToolCalls[0].Name != "lookup_menu" {
		t.Fatalf("unexpected reply: %+v", out)
	}

	if len(llm.messages) != 4 {
		t.Fatalf("expected 4 messages sent, got %d", len(llm.messages))
	}
	roles := []llms.ChatMessageType{llms.ChatMessageTypeSystem, llms.ChatMessageTypeHuman, llms.ChatMessageTypeAI, llms.ChatMessageTypeTool}
	for i, want := range roles {
		if llm.messages[i].Role != want {
			t.Fatalf("message %d: expected role %s, got %s", i, want, llm.messages[i].Role)
		}
	}
	call, ok := llm.messages[2].Parts[0].(llms.ToolCall)
	if !ok || call.ID != "call_1" || call.FunctionCall.Name != "get_location_info" {
		t.Fatalf("unexpected assistant part: %#v", llm.messages[2].Parts[0])
	}
	result, ok := llm.messages[3].Parts[0].(llms.ToolCallResponse)
	if !ok || result.ToolCallID != "call_1" || result.Content != "[]" {
		t.Fatalf("unexpected tool part: %#v", llm.messages[3].Parts[0])
	}

	if len(llm.options.Tools) != 1 || llm.options.Tools[0].Function.Name != "lookup_menu" {
		t.Fatalf("unexpected tools: %+v", llm.options.Tools)
	}
	if llm.options.Temperature != defaultTemperature {
		t.Fatalf("expected temperature %v, got %v", defaultTemperature, llm.options.Temperature)
	}
}

func TestCompleteClassifiesErrors(t *testing.T) {
	llm := &recordingLLM{err: errors.New("API returned unexpected status code: 401: Incorrect API key provided")}
	_, err := New(llm).Complete(context.Background(), nil, nil)
	if !errors.Is(err, services.ErrModelAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}

	llm = &recordingLLM{err: errors.New("connection reset")}
	_, err = New(llm).Complete(context.Background(), nil, nil)
	if err == nil || errors.Is(err, services.ErrModelAuth) {
		t.Fatalf("expected plain error, got %v", err)
	}

	llm = &recordingLLM{resp: &llms.ContentResponse{}}
	if _, err := New(llm).Complete(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for empty response")
	}
}

func TestUnconfiguredReportsAuthError(t *testing.T) {
	m, err := NewOpenAI("  ", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = m.Complete(context.Background(), nil, nil)
	if !errors.Is(err, services.ErrModelAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}
