package handler

import (
	"errors"
	"net/http"
	"strconv"

	"flightclaim/backend/internal/assistant"
	"flightclaim/backend/internal/claims"
	"flightclaim/backend/internal/config"
	"flightclaim/backend/internal/flights"
	"flightclaim/backend/internal/storage"
	"flightclaim/backend/internal/uploads"

	"github.com/gin-gonic/gin"
)

// badRequest marks binding and parameter errors.
type badRequest struct {
	err error
}

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func invalidInput(err error) error {
	return badRequest{err: err}
}

// respondError maps err onto the uniform {"error": "..."} body and logs server-side failures.
// kv are extra log fields such as "claim_id", id.
func (h *Handler) respondError(c *gin.Context, err error, kv ...interface{}) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		fields := append([]interface{}{"path", c.FullPath(), "error", err}, kv...)
		h.Log.Error("request failed", fields...)
	} else {
		fields := append([]interface{}{"path", c.FullPath(), "status", status, "error", err}, kv...)
		h.Log.Debug("request rejected", fields...)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func classify(err error) (int, string) {
	var (
		verr *claims.ValidationError
		breq badRequest
	)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, storage.ErrDuplicate):
		return http.StatusBadRequest, "a record with this value already exists"
	case errors.As(err, &verr), errors.As(err, &breq),
		errors.Is(err, claims.ErrInvalidStatus),
		errors.Is(err, claims.ErrEmptyComment),
		errors.Is(err, flights.ErrInvalidQuery),
		errors.Is(err, assistant.ErrEmptyMessage),
		errors.Is(err, assistant.ErrMessageTooLong),
		errors.Is(err, uploads.ErrUnsupportedType),
		errors.Is(err, uploads.ErrFilenameRequired):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, flights.ErrRateLimited), errors.Is(err, assistant.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, uploads.ErrNotConfigured),
		errors.Is(err, flights.ErrNotConfigured),
		errors.Is(err, assistant.ErrNotConfigured):
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// paramID parses a numeric :id path parameter.
func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, invalidInput(errors.New("id must be a positive integer"))
	}
	return uint(id), nil
}

// pagination reads page and limit with the configured defaults and cap.
func pagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(config.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = config.DefaultPageSize
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}
	return page, limit
}
