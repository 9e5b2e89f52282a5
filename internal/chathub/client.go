package chathub

import "flightclaim/backend/internal/models"

// Client is the interface for any connection the hub can answer (WebSocket today).
// It abstracts the underlying transport so the hub manages every client uniformly.
type Client interface {
	// GetClientID returns the unique identifier of the connection.
	GetClientID() string

	// GetSendChannel returns the channel to which the ManagerService (hub) sends
	// frames intended for this specific client. It is a send-only channel.
	GetSendChannel() chan<- models.ChatFrame

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's outbound channel. Only the hub calls it, once.
	Close()
}

// Inbound is a frame read from a client. Err is set when the frame could not be decoded.
type Inbound struct {
	ClientID string
	Frame    models.ChatFrame
	Err      error
}
