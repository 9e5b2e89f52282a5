package chathub

import (
	"context"
	"errors"
	"strings"
	"sync"

	"flightclaim/backend/internal/assistant"
	"flightclaim/backend/internal/logger"
	"flightclaim/backend/internal/models"
)

// Replier produces the assistant's answer to one message.
type Replier interface {
	Reply(ctx context.Context, req assistant.Request) (*assistant.Reply, error)
}

type outbound struct {
	clientID string
	frame    models.ChatFrame
}

// ManagerService is the hub. Run owns Clients and sessions; everything else talks to it
// through the channels.
type ManagerService struct {
	Clients map[string]Client

	// Channels
	IncomingCh   chan Inbound
	RegisterCh   chan Client
	UnregisterCh chan Client
	outboundCh   chan outbound

	// last session id per client, so frames may omit it
	sessions map[string]string

	replier Replier
	log     logger.Logger
	workers sync.WaitGroup
	done    chan struct{}
}

func NewManagerService(r Replier, log logger.Logger) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		IncomingCh:   make(chan Inbound),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		outboundCh:   make(chan outbound),
		sessions:     make(map[string]string),
		replier:      r,
		log:          log,
		done:         make(chan struct{}),
	}
}

// Done is closed once Run has returned and every worker has finished.
func (m *ManagerService) Done() <-chan struct{} {
	return m.done
}

// Register hands a client to the hub. It returns false when the hub is stopped.
func (m *ManagerService) Register(c Client) bool {
	select {
	case m.RegisterCh <- c:
		return true
	case <-m.done:
		return false
	}
}

// Run processes hub events until ctx is cancelled, then closes every client.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)
	m.log.Info("chat hub started")

	for {
		select {
		case c := <-m.RegisterCh:
			m.Clients[c.GetClientID()] = c

		case c := <-m.UnregisterCh:
			m.remove(c.GetClientID())

		case in := <-m.IncomingCh:
			m.dispatch(ctx, in)

		case out := <-m.outboundCh:
			if out.frame.SessionID != "" {
				m.sessions[out.clientID] = out.frame.SessionID
			}
			m.deliver(out)

		case <-ctx.Done():
			for id := range m.Clients {
				m.remove(id)
			}
			m.workers.Wait()
			m.log.Info("chat hub stopped")
			return
		}
	}
}

// dispatch answers an inbound frame on a worker goroutine so a slow LLM never blocks the hub.
func (m *ManagerService) dispatch(ctx context.Context, in Inbound) {
	if in.Err != nil {
		m.deliver(outbound{clientID: in.ClientID, frame: errorFrame("invalid message format", in.Frame.SessionID)})
		return
	}
	if in.Frame.Type != "" && in.Frame.Type != models.FrameMessage {
		m.deliver(outbound{clientID: in.ClientID, frame: errorFrame("unsupported frame type", in.Frame.SessionID)})
		return
	}

	req := assistant.Request{SessionID: in.Frame.SessionID, Message: in.Frame.Content}
	if req.SessionID == "" {
		req.SessionID = m.sessions[in.ClientID]
	}

	m.workers.Add(1)
	go func() {
		defer m.workers.Done()
		frame := m.answer(ctx, req)
		select {
		case m.outboundCh <- outbound{clientID: in.ClientID, frame: frame}:
		case <-ctx.Done():
		}
	}()
}

func (m *ManagerService) answer(ctx context.Context, req assistant.Request) models.ChatFrame {
	reply, err := m.replier.Reply(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrEmptyMessage),
			errors.Is(err, assistant.ErrMessageTooLong),
			errors.Is(err, assistant.ErrRateLimited):
			return errorFrame(err.Error(), req.SessionID)
		}
		if ctx.Err() == nil {
			m.log.Error("chat reply failed", "session_id", req.SessionID, "error", err)
		}
		return errorFrame("the assistant is unavailable, please try again later", req.SessionID)
	}
	return models.ChatFrame{
		SessionID: reply.SessionID,
		Content:   reply.Message,
		Type:      models.FrameReply,
		Sources:   reply.Sources,
	}
}

// deliver never blocks: a client whose buffer is full is dropped.
func (m *ManagerService) deliver(out outbound) {
	c, ok := m.Clients[out.clientID]
	if !ok {
		return
	}
	select {
	case c.GetSendChannel() <- out.frame:
	default:
		m.log.Warn("dropping slow chat client", "client_id", out.clientID)
		m.remove(out.clientID)
	}
}

func (m *ManagerService) remove(id string) {
	c, ok := m.Clients[id]
	if !ok {
		return
	}
	delete(m.Clients, id)
	delete(m.sessions, id)
	c.Close()
}

func errorFrame(msg, sessionID string) models.ChatFrame {
	return models.ChatFrame{SessionID: sessionID, Content: strings.TrimSpace(msg), Type: models.FrameError}
}
