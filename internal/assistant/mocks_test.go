package assistant_test

import (
	"context"

	"flightclaim/backend/internal/assistant"
	"flightclaim/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateChatSession(ctx context.Context, session *models.ChatSession) error {
	args := m.Called(session)
	if session.ID == "" {
		session.ID = "generated-session"
	}
	return args.Error(0)
}

func (m *MockStore) GetChatSession(ctx context.Context, id string) (*models.ChatSession, error) {
	args := m.Called(id)
	if s := args.Get(0); s != nil {
		return s.(*models.ChatSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) AppendChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	return m.Called(msg).Error(0)
}

func (m *MockStore) RecentChatMessages(ctx context.Context, sessionID string, n int) ([]models.ChatMessage, error) {
	args := m.Called(sessionID, n)
	msgs, _ := args.Get(0).([]models.ChatMessage)
	return msgs, args.Error(1)
}

func (m *MockStore) NearestKnowledge(ctx context.Context, embedding []float32, k int) ([]models.KnowledgeMatch, error) {
	args := m.Called(embedding, k)
	matches, _ := args.Get(0).([]models.KnowledgeMatch)
	return matches, args.Error(1)
}

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(text)
	vec, _ := args.Get(0).([]float32)
	return vec, args.Error(1)
}

type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Complete(ctx context.Context, system string, history []assistant.Turn) (string, error) {
	args := m.Called(system, history)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) Model() string { return "test-model" }
