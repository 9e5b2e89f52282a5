package handler

import (
	"errors"
	"net/http"
	"strings"

	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/storage"
	"flightclaim/backend/internal/validate"

	"github.com/gin-gonic/gin"
)

// claimRequest is the public claim form. The flight date arrives as YYYY-MM-DD.
type claimRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Language  string `json:"language"`

	FlightNumber       string                `json:"flight_number" binding:"required"`
	Airline            string                `json:"airline"`
	DepartureAirport   string                `json:"departure_airport" binding:"required"`
	ArrivalAirport     string                `json:"arrival_airport" binding:"required"`
	FlightDate         string                `json:"flight_date" binding:"required"`
	ScheduledDeparture string                `json:"scheduled_departure"`
	DisruptionType     models.DisruptionType `json:"disruption_type"`
	DelayMinutes       int                   `json:"delay_minutes"`
	Description        string                `json:"description"`

	BoardingPassURL        string   `json:"boarding_pass_url"`
	BookingConfirmationURL string   `json:"booking_confirmation_url"`
	IDDocumentURL          string   `json:"id_document_url"`
	AdditionalDocuments    []string `json:"additional_documents"`
}

func (r claimRequest) toModel() (*models.Claim, error) {
	date, err := validate.Date(r.FlightDate)
	if err != nil {
		return nil, err
	}
	return &models.Claim{
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		Email:                  r.Email,
		Phone:                  r.Phone,
		Address:                r.Address,
		City:                   r.City,
		Country:                r.Country,
		Language:               r.Language,
		FlightNumber:           r.FlightNumber,
		Airline:                r.Airline,
		DepartureAirport:       r.DepartureAirport,
		ArrivalAirport:         r.ArrivalAirport,
		FlightDate:             date,
		ScheduledDeparture:     r.ScheduledDeparture,
		DisruptionType:         r.DisruptionType,
		DelayMinutes:           r.DelayMinutes,
		Description:            r.Description,
		BoardingPassURL:        r.BoardingPassURL,
		BookingConfirmationURL: r.BookingConfirmationURL,
		IDDocumentURL:          r.IDDocumentURL,
		AdditionalDocuments:    r.AdditionalDocuments,
	}, nil
}

// CreateClaim handles the public claim submission.
func (h *Handler) CreateClaim(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	claim, err := req.toModel()
	if err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	if err := h.Claims.Submit(c.Request.Context(), claim); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, claim)
}

// TrackClaim is the customer view: reference and email must both match.
func (h *Handler) TrackClaim(c *gin.Context) {
	claim, comments, err := h.Claims.Track(c.Request.Context(), c.Query("reference"), c.Query("email"))
	if err != nil {
		h.respondError(c, err, "reference", c.Query("reference"))
		return
	}
	if comments == nil {
		comments = []models.ClaimComment{}
	}
	c.JSON(http.StatusOK, gin.H{"claim": claim, "comments": comments})
}

// ListClaims is the admin claim list.
func (h *Handler) ListClaims(c *gin.Context) {
	page, limit := pagination(c)
	filter := storage.ClaimFilter{
		Status: models.ClaimStatus(c.Query("status")),
		Query:  strings.TrimSpace(c.Query("q")),
		Page:   page,
		Limit:  limit,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		h.respondError(c, invalidInput(errors.New("unknown status filter")))
		return
	}

	rows, total, err := h.Storage.ListClaims(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if rows == nil {
		rows = []models.Claim{}
	}
	c.JSON(http.StatusOK, gin.H{"claims": rows, "total": total, "page": page, "limit": limit})
}

func (h *Handler) GetClaim(c *gin.Context) {
	claim, err := h.Storage.GetClaim(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "claim_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, claim)
}

type statusRequest struct {
	Status models.ClaimStatus `json:"status" binding:"required"`
}

// UpdateClaim changes the claim status.
func (h *Handler) UpdateClaim(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	claim, err := h.Claims.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err, "claim_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (h *Handler) ListClaimComments(c *gin.Context) {
	comments, err := h.Claims.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "claim_id", c.Param("id"))
		return
	}
	if comments == nil {
		comments = []models.ClaimComment{}
	}
	c.JSON(http.StatusOK, comments)
}

type commentRequest struct {
	Content    string `json:"content" binding:"required"`
	IsInternal *bool  `json:"is_internal"`
}

// AddClaimComment stores an admin note. Notes are internal unless is_internal is false.
func (h *Handler) AddClaimComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	internal := req.IsInternal == nil || *req.IsInternal

	comment, err := h.Claims.AddComment(c.Request.Context(), c.Param("id"), c.GetString(ctxAdminEmail), req.Content, internal)
	if err != nil {
		h.respondError(c, err, "claim_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusCreated, comment)
}
