// Package assistant answers support-chat messages from the knowledge base and an LLM,
// logging every turn of the conversation.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"flightclaim/backend/internal/config"
	"flightclaim/backend/internal/logger"
	"flightclaim/backend/internal/metrics"
	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrEmptyMessage   = errors.New("message must not be empty")
	ErrMessageTooLong = fmt.Errorf("message exceeds %d characters", config.ChatMaxMessageRunes)
	ErrRateLimited    = errors.New("assistant is busy, please retry shortly")
	ErrNotConfigured  = errors.New("assistant is not configured")
)

// Turn is one prior message handed to the LLM.
type Turn struct {
	Role    string
	Content string
}

// Embedder turns text into a vector of config.EmbeddingDimensions floats.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LLM completes a conversation given a system prompt.
type LLM interface {
	Complete(ctx context.Context, system string, history []Turn) (string, error)
	Model() string
}

// Store is the part of storage the assistant needs.
type Store interface {
	CreateChatSession(ctx context.Context, session *models.ChatSession) error
	GetChatSession(ctx context.Context, id string) (*models.ChatSession, error)
	AppendChatMessage(ctx context.Context, msg *models.ChatMessage) error
	RecentChatMessages(ctx context.Context, sessionID string, n int) ([]models.ChatMessage, error)
	NearestKnowledge(ctx context.Context, embedding []float32, k int) ([]models.KnowledgeMatch, error)
}

type Request struct {
	SessionID string                 `json:"session_id"`
	Message   string                 `json:"message" binding:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type Reply struct {
	SessionID string   `json:"session_id"`
	Message   string   `json:"message"`
	Sources   []string `json:"sources"`
}

type Service struct {
	store    Store
	embedder Embedder
	llm      LLM
	log      logger.Logger
	metrics  *metrics.Metrics
}

func NewService(store Store, embedder Embedder, llm LLM, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, embedder: embedder, llm: llm, log: log, metrics: m}
}

// Reply records the user's message, retrieves context, asks the LLM and records the answer.
func (s *Service) Reply(ctx context.Context, req Request) (*Reply, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(msg) > config.ChatMaxMessageRunes {
		return nil, ErrMessageTooLong
	}
	if s.llm == nil {
		return nil, ErrNotConfigured
	}

	sessionID, err := s.ensureSession(ctx, req)
	if err != nil {
		return nil, err
	}
	log := s.log.With("session_id", sessionID)

	// the current message is the last turn of the window
	previous, err := s.store.RecentChatMessages(ctx, sessionID, config.ChatHistoryLimit-1)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if err := s.store.AppendChatMessage(ctx, &models.ChatMessage{SessionID: sessionID, Role: models.RoleUser, Content: msg}); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	matches := s.retrieve(ctx, log, msg)

	history := make([]Turn, 0, len(previous)+1)
	for _, m := range previous {
		history = append(history, Turn{Role: m.Role, Content: m.Content})
	}
	history = append(history, Turn{Role: models.RoleUser, Content: msg})

	answer, err := s.llm.Complete(ctx, buildSystemPrompt(matches), history)
	if err != nil {
		s.count("error")
		if errors.Is(err, ErrRateLimited) {
			return nil, err
		}
		return nil, fmt.Errorf("llm: %w", err)
	}
	answer = strings.TrimSpace(answer)

	sources := sourcesOf(matches)
	meta, _ := json.Marshal(map[string]interface{}{"model": s.llm.Model(), "sources": sources})
	reply := &models.ChatMessage{SessionID: sessionID, Role: models.RoleAssistant, Content: answer, Metadata: datatypes.JSON(meta)}
	if err := s.store.AppendChatMessage(ctx, reply); err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}
	s.count("ok")

	return &Reply{SessionID: sessionID, Message: answer, Sources: sources}, nil
}

// ensureSession returns an existing session id or creates a new session.
// A well-formed but unknown id is kept so the client's id stays stable; anything
// else gets a fresh id.
func (s *Service) ensureSession(ctx context.Context, req Request) (string, error) {
	session := &models.ChatSession{}
	if _, err := uuid.Parse(req.SessionID); err == nil {
		_, err := s.store.GetChatSession(ctx, req.SessionID)
		if err == nil {
			return req.SessionID, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("load session: %w", err)
		}
		session.ID = req.SessionID
	}

	if len(req.Metadata) > 0 {
		if raw, err := json.Marshal(req.Metadata); err == nil {
			session.Metadata = datatypes.JSON(raw)
		}
	}
	if err := s.store.CreateChatSession(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return session.ID, nil
}

// retrieve returns the knowledge chunks relevant to msg. Failures only cost context.
func (s *Service) retrieve(ctx context.Context, log logger.Logger, msg string) []models.KnowledgeMatch {
	if s.embedder == nil {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, msg)
	if err != nil {
		log.Warn("embedding failed, answering without context", "error", err)
		return nil
	}
	matches, err := s.store.NearestKnowledge(ctx, vec, config.KnowledgeTopK)
	if err != nil {
		log.Warn("knowledge lookup failed", "error", err)
		return nil
	}
	relevant := matches[:0]
	for _, m := range matches {
		if m.Similarity >= config.KnowledgeMinSimilarity {
			relevant = append(relevant, m)
		}
	}
	return relevant
}

func (s *Service) count(outcome string) {
	if s.metrics != nil {
		s.metrics.ChatReplies.WithLabelValues(outcome).Inc()
	}
}

func sourcesOf(matches []models.KnowledgeMatch) []string {
	sources := []string{}
	seen := map[string]bool{}
	for _, m := range matches {
		if m.Source == "" || seen[m.Source] {
			continue
		}
		seen[m.Source] = true
		sources = append(sources, m.Source)
	}
	return sources
}
