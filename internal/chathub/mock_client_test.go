package chathub_test

import (
	"context"
	"sync"

	"flightclaim/backend/internal/assistant"
	"flightclaim/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	id   string
	send chan models.ChatFrame
	once sync.Once
}

func newMockClient(id string, buffer int) *MockClient {
	return &MockClient{id: id, send: make(chan models.ChatFrame, buffer)}
}

func (c *MockClient) GetClientID() string                     { return c.id }
func (c *MockClient) GetSendChannel() chan<- models.ChatFrame { return c.send }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.once.Do(func() { close(c.send) })
}

type MockReplier struct {
	mock.Mock
}

func (m *MockReplier) Reply(ctx context.Context, req assistant.Request) (*assistant.Reply, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*assistant.Reply), args.Error(1)
	}
	return nil, args.Error(1)
}
