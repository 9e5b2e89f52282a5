package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"flightclaim/backend/internal/assistant"
	"flightclaim/backend/internal/claims"
	"flightclaim/backend/internal/config"
	"flightclaim/backend/internal/flights"
	"flightclaim/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SearchAirports serves the autocomplete. Queries under two characters return [].
func (h *Handler) SearchAirports(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if utf8.RuneCountInString(q) < 2 {
		c.JSON(http.StatusOK, []models.Airport{})
		return
	}

	airports, err := h.Airports.Search(c.Request.Context(), q, config.AirportSearchLimit)
	if err != nil {
		h.respondError(c, err, "q", q)
		return
	}
	if airports == nil {
		airports = []models.Airport{}
	}
	c.JSON(http.StatusOK, airports)
}

// SearchFlights proxies the flight lookup with date fallback.
func (h *Handler) SearchFlights(c *gin.Context) {
	var q flights.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	if err := q.Normalize(); err != nil {
		h.respondError(c, err)
		return
	}

	res, err := h.Flights.Search(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err, "from", q.From, "date", q.Date)
		return
	}
	c.JSON(http.StatusOK, res)
}

// EstimateCompensation quotes the EU261 amount for a route.
func (h *Handler) EstimateCompensation(c *gin.Context) {
	delay := 0
	if raw := c.Query("delayMinutes"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(c, invalidInput(errors.New("delayMinutes must be an integer")))
			return
		}
		delay = d
	}

	quote, err := h.Claims.Estimate(c.Request.Context(), c.Query("from"), c.Query("to"), delay, models.DisruptionType(c.Query("type")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Chat answers one assistant message over plain HTTP.
func (h *Handler) Chat(c *gin.Context) {
	var req assistant.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	reply, err := h.Assistant.Reply(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "session_id", req.SessionID)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// Contact accepts the contact form; mail and notifications happen before the 202.
func (h *Handler) Contact(c *gin.Context) {
	var req claims.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	if err := h.Claims.Contact(c.Request.Context(), req); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "received"})
}

type presignRequest struct {
	ClaimReference string `json:"claim_reference"`
	Filename       string `json:"filename" binding:"required"`
	ContentType    string `json:"content_type" binding:"required"`
}

// PresignUpload returns a presigned PUT URL for a claim document.
func (h *Handler) PresignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	up, err := h.Uploads.PresignPut(c.Request.Context(), req.ClaimReference, req.Filename, req.ContentType)
	if err != nil {
		h.respondError(c, err, "filename", req.Filename)
		return
	}
	c.JSON(http.StatusOK, up)
}
