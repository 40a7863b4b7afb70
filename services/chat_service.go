package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"eataliano-backend/models"
)

const (
	DefaultMaxToolCalls = 5

	fallbackReply   = "Sorry, ik kon je vraag niet verwerken. Probeer het opnieuw."
	toolLimitResult = `{"error":"tool call limit reached"}`
)

const DefaultSystemPrompt = `Je bent de vriendelijke digitale assistent van Eataliano, een Italiaans restaurant met twee locaties in Nederland (Arnhem en Huissen).

Je helpt gasten met:
- Het bekijken van het menu en gerechten aanbevelen
- Het maken van reserveringen
- Het plaatsen van bestellingen (afhalen of bezorgen)
- Informatie geven over locaties, openingstijden en contact

Regels:
- Antwoord altijd in het Nederlands
- Wees warm, gastvrij en behulpzaam
- Gebruik alleen informatie uit de functies, verzin geen gerechten, prijzen of openingstijden
- Als je iets niet weet, stel voor om het restaurant te bellen
- Houd antwoorden beknopt maar informatief
- Bij reserveringen heb je nodig: naam, telefoonnummer, aantal personen, datum, tijd en locatie
- Bij bestellingen heb je nodig: items (met menu_item_id en aantal), besteltype (afhalen/bezorgen), naam, telefoonnummer en locatie`

type ChatConfig struct {
	SystemPrompt string
	MaxToolCalls int
	// Timeout bounds each language model call.
	Timeout time.Duration
}

type ChatReply struct {
	Reply     string  `json:"reply"`
	SessionID *string `json:"session_id"`
}

// ChatService runs one conversational turn: a bounded loop between the model and the booking tools.
type ChatService struct {
	sessions ChatSessionStore
	model    LanguageModel
	tools    *ToolRunner
	cfg      ChatConfig
	logger   *slog.Logger
}

func NewChatService(sessions ChatSessionStore, model LanguageModel, tools *ToolRunner, cfg ChatConfig, logger *slog.Logger) *ChatService {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.MaxToolCalls <= 0 {
		cfg.MaxToolCalls = DefaultMaxToolCalls
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		sessions: sessions,
		model:    model,
		tools:    tools,
		cfg:      cfg,
		logger:   logger.With("component", "chat_service"),
	}
}

// Turn answers one user message. Without a session token the session store is never touched.
func (s *ChatService) Turn(ctx context.Context, message, sessionToken string) (*ChatReply, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return nil, ErrInvalidMessage
	}
	token := strings.TrimSpace(sessionToken)

	var (
		session *models.ChatSession
		history []models.ChatMessage
	)
	if token != "" {
		found, err := s.sessions.FindChatSession(ctx, token)
		switch {
		case err == nil:
			session = found
			history = append(history, found.Messages...)
		case errors.Is(err, ErrNotFound):
		default:
			s.logger.Error("failed to load chat session", "error", err)
			return nil, ErrChatFailed.wrap(err)
		}
	}

	history = append(history, models.ChatMessage{Role: models.ChatRoleUser, Content: text})

	history, err := s.converse(ctx, history)
	if err != nil {
		return nil, err
	}

	reply := fallbackReply
	if last := history[len(history)-1]; last.Role == models.ChatRoleAssistant && len(last.ToolCalls) == 0 && last.Content != "" {
		reply = last.Content
	}

	out := &ChatReply{Reply: reply}
	if token != "" {
		out.SessionID = s.persist(ctx, token, session, history)
	}
	return out, nil
}

// converse drives the model until it answers with plain text or the tool budget is spent.
// Tool calls past the budget are answered with an error result so every call id stays linked.
func (s *ChatService) converse(ctx context.Context, history []models.ChatMessage) ([]models.ChatMessage, error) {
	declarations := ToolDeclarations()
	calls := 0
	for calls < s.cfg.MaxToolCalls {
		prompt := make([]models.ChatMessage, 0, len(history)+1)
		prompt = append(prompt, models.ChatMessage{Role: models.ChatRoleSystem, Content: s.cfg.SystemPrompt})
		prompt = append(prompt, history...)

		reply, err := s.complete(ctx, prompt, declarations)
		if err != nil {
			return nil, err
		}
		reply.Role = models.ChatRoleAssistant
		history = append(history, reply)

		if len(reply.ToolCalls) == 0 {
			break
		}

		for _, call := range reply.ToolCalls {
			result := toolLimitResult
			if calls < s.cfg.MaxToolCalls {
				calls++
				s.logger.Info("executing tool", "tool", call.Name, "call", calls)
				result = s.tools.Run(ctx, call.Name, call.Arguments)
			} else {
				s.logger.Warn("tool call over budget skipped", "tool", call.Name)
			}
			history = append(history, models.ChatMessage{
				Role:       models.ChatRoleTool,
				ToolCallID: call.ID,
				Name:       call.Name,
				Content:    result,
			})
		}
	}
	return history, nil
}

func (s *ChatService) complete(ctx context.Context, prompt []models.ChatMessage, tools []ToolDeclaration) (models.ChatMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	reply, err := s.model.Complete(callCtx, prompt, tools)
	if err == nil {
		return reply, nil
	}
	switch {
	case errors.Is(err, ErrModelAuth):
		s.logger.Error("language model rejected credentials", "error", err)
		return models.ChatMessage{}, ErrServiceMisconfigured.wrap(err)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		s.logger.Error("language model timed out", "timeout", s.cfg.Timeout)
		return models.ChatMessage{}, ErrUpstreamTimeout.withMessage("Chat service timed out").wrap(err)
	default:
		s.logger.Error("language model call failed", "error", err)
		return models.ChatMessage{}, ErrChatFailed.wrap(err)
	}
}

// persist stores the conversation without the system prompt. A failed write still returns the reply.
func (s *ChatService) persist(ctx context.Context, token string, session *models.ChatSession, history []models.ChatMessage) *string {
	if session != nil {
		if err := s.sessions.UpdateChatSession(ctx, session.ID, history); err != nil {
			s.logger.Error("failed to update chat session", "session_id", session.ID, "error", err)
		}
		id := session.ID.String()
		return &id
	}

	created := &models.ChatSession{SessionToken: token, Messages: history}
	if err := s.sessions.InsertChatSession(ctx, created); err != nil {
		s.logger.Error("failed to create chat session", "error", err)
		return nil
	}
	id := created.ID.String()
	return &id
}

// PurgeExpired removes sessions idle for longer than ttl.
func (s *ChatService) PurgeExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)
	n, err := s.sessions.DeleteChatSessionsBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to purge chat sessions", "error", err)
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged idle chat sessions", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
