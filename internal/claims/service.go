// Package claims provides the business logic for compensation claims: submission,
// customer tracking and admin triage, plus the customer notifications they trigger.
package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flightclaim/backend/internal/compensation"
	"flightclaim/backend/internal/logger"
	"flightclaim/backend/internal/metrics"
	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/notify"
	"flightclaim/backend/internal/storage"
	"flightclaim/backend/internal/telegram"
	"flightclaim/backend/internal/validate"
)

var (
	ErrInvalidStatus = errors.New("invalid claim status")
	ErrEmptyComment  = errors.New("comment content required")
)

// ValidationError is returned for bad client input and maps to HTTP 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Message: err.Error()}
}

// Store is the storage the service needs.
type Store interface {
	CreateClaim(ctx context.Context, claim *models.Claim) error
	GetClaim(ctx context.Context, id string) (*models.Claim, error)
	GetClaimByReference(ctx context.Context, reference, email string) (*models.Claim, error)
	UpdateClaimStatus(ctx context.Context, id string, status models.ClaimStatus) (*models.Claim, error)
	AddClaimComment(ctx context.Context, comment *models.ClaimComment) error
	ListClaimComments(ctx context.Context, claimID string, includeInternal bool) ([]models.ClaimComment, error)
	GetAirportByIATA(ctx context.Context, code string) (*models.Airport, error)
}

// Renderer builds the customer emails.
type Renderer interface {
	ClaimConfirmation(c *models.Claim) (notify.Email, error)
	StatusUpdate(c *models.Claim) (notify.Email, error)
	Comment(c *models.Claim, comment *models.ClaimComment) (notify.Email, error)
	ContactReply(name, email, message, language string) (notify.Email, error)
}

// Notifier posts a message to the admin chat.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Service handles the business logic for claims.
type Service struct {
	store    Store
	emails   Renderer
	mailer   notify.Mailer
	notifier Notifier
	metrics  *metrics.Metrics
	log      logger.Logger
}

// NewService creates a new claims service. metrics may be nil.
func NewService(store Store, emails Renderer, mailer notify.Mailer, notifier Notifier, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{
		store:    store,
		emails:   emails,
		mailer:   mailer,
		notifier: notifier,
		metrics:  m,
		log:      log,
	}
}

// Submit validates and stores a new claim, then sends the confirmation email and the
// admin notification. Notification failures never fail the submission.
func (s *Service) Submit(ctx context.Context, c *models.Claim) error {
	normalize(c)
	if err := check(c); err != nil {
		return err
	}

	// Status and reference are never client-controlled.
	c.ID = ""
	c.Reference = ""
	c.Status = models.ClaimSubmitted
	c.EstimatedCompensation = s.estimate(ctx, c)

	if err := s.store.CreateClaim(ctx, c); err != nil {
		return fmt.Errorf("create claim: %w", err)
	}
	s.log.Info("claim submitted", "claim_id", c.ID, "reference", c.Reference)

	if s.metrics != nil {
		s.metrics.ClaimsSubmitted.Inc()
	}
	s.sendEmail(ctx, "confirmation", c.ID, func() (notify.Email, error) { return s.emails.ClaimConfirmation(c) })
	s.notifyAdmins(ctx, telegram.ClaimSubmitted(c))
	return nil
}

// UpdateStatus changes a claim's status and emails the customer.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.ClaimStatus) (*models.Claim, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	c, err := s.store.UpdateClaimStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.log.Info("claim status changed", "claim_id", id, "status", status)

	s.sendEmail(ctx, "status", c.ID, func() (notify.Email, error) { return s.emails.StatusUpdate(c) })
	return c, nil
}

// AddComment attaches a note to a claim. Comments visible to the customer are emailed.
func (s *Service) AddComment(ctx context.Context, claimID, author, content string, internal bool) (*models.ClaimComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	c, err := s.store.GetClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	comment := &models.ClaimComment{
		ClaimID:    c.ID,
		Author:     strings.TrimSpace(author),
		Content:    content,
		IsInternal: internal,
	}
	if err := s.store.AddClaimComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	if !internal {
		s.sendEmail(ctx, "comment", c.ID, func() (notify.Email, error) { return s.emails.Comment(c, comment) })
	}
	return comment, nil
}

// Comments lists a claim's comments for admins, internal ones included.
func (s *Service) Comments(ctx context.Context, claimID string) ([]models.ClaimComment, error) {
	if _, err := s.store.GetClaim(ctx, claimID); err != nil {
		return nil, err
	}
	return s.store.ListClaimComments(ctx, claimID, true)
}

// Track returns a claim and its customer-visible comments. Both reference and email must match.
func (s *Service) Track(ctx context.Context, reference, email string) (*models.Claim, []models.ClaimComment, error) {
	reference = strings.TrimSpace(reference)
	email = strings.TrimSpace(email)
	if reference == "" || email == "" {
		return nil, nil, &ValidationError{Field: "reference", Message: "reference and email required"}
	}

	c, err := s.store.GetClaimByReference(ctx, reference, email)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.store.ListClaimComments(ctx, c.ID, false)
	if err != nil {
		return nil, nil, fmt.Errorf("list comments: %w", err)
	}
	return c, comments, nil
}

// Quote is a standalone compensation estimate.
type Quote struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distance_km"`
	Amount     int     `json:"amount"`
	Currency   string  `json:"currency"`
	Eligible   bool    `json:"eligible"`
}

// Estimate computes the compensation for a route. Unknown airports give storage.ErrNotFound.
func (s *Service) Estimate(ctx context.Context, from, to string, delayMinutes int, disruption models.DisruptionType) (*Quote, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if err := validate.IATA(from); err != nil {
		return nil, invalid("from", err)
	}
	if err := validate.IATA(to); err != nil {
		return nil, invalid("to", err)
	}
	if disruption == "" {
		disruption = models.DisruptionDelay
	}
	if !disruption.Valid() {
		return nil, &ValidationError{Field: "type", Message: "unknown disruption type"}
	}
	if delayMinutes < 0 {
		return nil, &ValidationError{Field: "delayMinutes", Message: "must not be negative"}
	}

	dep, err := s.store.GetAirportByIATA(ctx, from)
	if err != nil {
		return nil, err
	}
	arr, err := s.store.GetAirportByIATA(ctx, to)
	if err != nil {
		return nil, err
	}

	km := compensation.DistanceKm(*dep, *arr)
	amount := compensation.Estimate(km, delayMinutes, disruption)
	return &Quote{
		From:       from,
		To:         to,
		DistanceKm: float64(int(km*10+0.5)) / 10,
		Amount:     amount,
		Currency:   "EUR",
		Eligible:   amount > 0,
	}, nil
}

// ContactRequest is a message from the public contact form.
type ContactRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Subject  string `json:"subject"`
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
}

// Contact sends the auto-reply and forwards the message to the admins.
func (s *Service) Contact(ctx context.Context, req ContactRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Message = strings.TrimSpace(req.Message)
	if err := validate.Required("name", req.Name); err != nil {
		return invalid("name", err)
	}
	if err := validate.Email(req.Email); err != nil {
		return invalid("email", err)
	}
	if err := validate.Required("message", req.Message); err != nil {
		return invalid("message", err)
	}

	s.sendEmail(ctx, "contact", "", func() (notify.Email, error) {
		return s.emails.ContactReply(req.Name, req.Email, req.Message, req.Language)
	})
	s.notifyAdmins(ctx, telegram.ContactMessage(req.Name, req.Email, req.Subject, req.Message))
	return nil
}

// estimate returns 0 when either airport is unknown; the estimate is informative only.
func (s *Service) estimate(ctx context.Context, c *models.Claim) int {
	q, err := s.Estimate(ctx, c.DepartureAirport, c.ArrivalAirport, c.DelayMinutes, c.DisruptionType)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("compensation estimate failed",
				"flight_number", c.FlightNumber, "from", c.DepartureAirport, "to", c.ArrivalAirport, "error", err)
		}
		return 0
	}
	return q.Amount
}

func (s *Service) sendEmail(ctx context.Context, kind, claimID string, render func() (notify.Email, error)) {
	if s.mailer == nil || s.emails == nil {
		return
	}
	email, err := render()
	if err != nil {
		s.log.Error("render email failed", "kind", kind, "claim_id", claimID, "error", err)
		return
	}
	if err := s.mailer.Send(ctx, email); err != nil {
		s.log.Error("send email failed", "kind", kind, "claim_id", claimID, "error", err)
		s.metrics.Upstream("mail", "error")
		return
	}
	s.metrics.Upstream("mail", "ok")
}

func (s *Service) notifyAdmins(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.log.Warn("admin notification failed", "error", err)
		s.metrics.Upstream("telegram", "error")
	}
}

func normalize(c *models.Claim) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Airline = strings.TrimSpace(c.Airline)
	c.FlightNumber = validate.NormalizeFlightNumber(c.FlightNumber)
	c.DepartureAirport = strings.ToUpper(strings.TrimSpace(c.DepartureAirport))
	c.ArrivalAirport = strings.ToUpper(strings.TrimSpace(c.ArrivalAirport))
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	if c.Language == "" {
		c.Language = "en"
	}
	if c.DisruptionType == "" {
		c.DisruptionType = models.DisruptionDelay
	}
}

func check(c *models.Claim) error {
	if err := validate.Required("first_name", c.FirstName); err != nil {
		return invalid("first_name", err)
	}
	if err := validate.Required("last_name", c.LastName); err != nil {
		return invalid("last_name", err)
	}
	if err := validate.Email(c.Email); err != nil {
		return invalid("email", err)
	}
	if err := validate.FlightNumber(c.FlightNumber); err != nil {
		return invalid("flight_number", err)
	}
	if err := validate.IATA(c.DepartureAirport); err != nil {
		return invalid("departure_airport", err)
	}
	if err := validate.IATA(c.ArrivalAirport); err != nil {
		return invalid("arrival_airport", err)
	}
	if c.DepartureAirport == c.ArrivalAirport {
		return &ValidationError{Field: "arrival_airport", Message: "must differ from departure airport"}
	}
	if c.FlightDate.IsZero() {
		return &ValidationError{Field: "flight_date", Message: "flight_date required"}
	}
	if !c.DisruptionType.Valid() {
		return &ValidationError{Field: "disruption_type", Message: "unknown disruption type"}
	}
	if c.DelayMinutes < 0 {
		return &ValidationError{Field: "delay_minutes", Message: "must not be negative"}
	}
	return nil
}
