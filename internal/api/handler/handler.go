// Package handler is the JSON HTTP surface of the claims backend.
package handler

import (
	"context"
	"net/http"
	"time"

	"flightclaim/backend/internal/assistant"
	"flightclaim/backend/internal/chathub"
	"flightclaim/backend/internal/claims"
	"flightclaim/backend/internal/flights"
	"flightclaim/backend/internal/logger"
	"flightclaim/backend/internal/metrics"
	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/storage"
	"flightclaim/backend/internal/uploads"
)

// ChatReplier answers one assistant message.
type ChatReplier interface {
	Reply(ctx context.Context, req assistant.Request) (*assistant.Reply, error)
}

// AirportSearcher ranks airports for autocomplete.
type AirportSearcher interface {
	Search(ctx context.Context, q string, limit int) ([]models.Airport, error)
}

// Dependencies are the services the handlers call. Hub, Uploads and MetricsHandler may be nil.
type Dependencies struct {
	Storage   storage.Storage
	Claims    *claims.Service
	Assistant ChatReplier
	Flights   flights.Searcher
	Airports  AirportSearcher
	Uploads   *uploads.Service
	Hub       *chathub.ManagerService

	Log            logger.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler

	JWTSecret     []byte
	JWTTTL        time.Duration
	CORSOrigin    string
	RateLimit     int
	RateLimitSpan time.Duration
}

// Handler holds the services shared by every route.
type Handler struct {
	Dependencies
}

func NewHandler(d Dependencies) *Handler {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	if d.JWTTTL == 0 {
		d.JWTTTL = 12 * time.Hour
	}
	if d.RateLimitSpan == 0 {
		d.RateLimitSpan = time.Minute
	}
	return &Handler{Dependencies: d}
}
