package models

// Frame types exchanged over the chat WebSocket
const (
	FrameMessage = "message"
	FrameReply   = "reply"
	FrameError   = "error"
)

// ChatFrame is the JSON envelope sent over /ws/chat in both directions.
type ChatFrame struct {
	SessionID string   `json:"session_id,omitempty"`
	Content   string   `json:"content"`
	Type      string   `json:"type"`
	Sources   []string `json:"sources,omitempty"`
}
