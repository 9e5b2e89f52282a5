package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ClaimStatus is the triage state of a claim. It only changes through admin action.
type ClaimStatus string

const (
	ClaimSubmitted        ClaimStatus = "submitted"
	ClaimProcessing       ClaimStatus = "processing"
	ClaimApproved         ClaimStatus = "approved"
	ClaimRejected         ClaimStatus = "rejected"
	ClaimPendingDocuments ClaimStatus = "pending_documents"
	ClaimClosed           ClaimStatus = "closed"
)

// ClaimStatuses lists every valid status in workflow order.
var ClaimStatuses = []ClaimStatus{
	ClaimSubmitted,
	ClaimProcessing,
	ClaimApproved,
	ClaimRejected,
	ClaimPendingDocuments,
	ClaimClosed,
}

// Valid reports whether s is one of ClaimStatuses.
func (s ClaimStatus) Valid() bool {
	for _, v := range ClaimStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DisruptionType is what happened to the flight.
type DisruptionType string

const (
	DisruptionDelay            DisruptionType = "delay"
	DisruptionCancellation     DisruptionType = "cancellation"
	DisruptionDeniedBoarding   DisruptionType = "denied_boarding"
	DisruptionMissedConnection DisruptionType = "missed_connection"
)

// Valid reports whether d is a known disruption type.
func (d DisruptionType) Valid() bool {
	switch d {
	case DisruptionDelay, DisruptionCancellation, DisruptionDeniedBoarding, DisruptionMissedConnection:
		return true
	}
	return false
}

// Claim is a passenger's compensation request. Created once on submission, never deleted.
type Claim struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	Reference string `gorm:"size:16;uniqueIndex;not null" json:"reference"`

	// Passenger
	FirstName string `gorm:"type:text;not null" json:"first_name"`
	LastName  string `gorm:"type:text;not null" json:"last_name"`
	Email     string `gorm:"type:text;not null;index" json:"email"`
	Phone     string `gorm:"type:text" json:"phone"`
	Address   string `gorm:"type:text" json:"address"`
	City      string `gorm:"type:text" json:"city"`
	Country   string `gorm:"type:text" json:"country"`
	Language  string `gorm:"size:8;default:en" json:"language"`

	// Flight
	FlightNumber       string         `gorm:"size:12;not null;index" json:"flight_number"`
	Airline            string         `gorm:"type:text" json:"airline"`
	DepartureAirport   string         `gorm:"size:3;not null" json:"departure_airport"`
	ArrivalAirport     string         `gorm:"size:3;not null" json:"arrival_airport"`
	FlightDate         time.Time      `gorm:"type:date;not null" json:"flight_date"`
	ScheduledDeparture string         `gorm:"type:text" json:"scheduled_departure"`
	DisruptionType     DisruptionType `gorm:"type:text;not null" json:"disruption_type"`
	DelayMinutes       int            `json:"delay_minutes"`
	Description        string         `gorm:"type:text" json:"description"`

	// Documents
	BoardingPassURL        string         `gorm:"type:text" json:"boarding_pass_url"`
	BookingConfirmationURL string         `gorm:"type:text" json:"booking_confirmation_url"`
	IDDocumentURL          string         `gorm:"type:text" json:"id_document_url"`
	AdditionalDocuments    pq.StringArray `gorm:"type:text[]" json:"additional_documents"`

	EstimatedCompensation int         `json:"estimated_compensation"`
	Status                ClaimStatus `gorm:"type:text;not null;default:submitted;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate fills the id, reference and initial status when they are not set.
func (c *Claim) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Reference == "" {
		c.Reference = NewClaimReference()
	}
	if c.Status == "" {
		c.Status = ClaimSubmitted
	}
	return
}

// FullName returns "First Last".
func (c *Claim) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// NewClaimReference returns a short customer-facing reference such as FC-1A2B3C4D.
func NewClaimReference() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "FC-" + strings.ToUpper(raw[:8])
}

// ClaimComment is a note attached to a claim. Internal notes are never shown to customers.
type ClaimComment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ClaimID    string    `gorm:"type:uuid;not null;index" json:"claim_id"`
	Claim      *Claim    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Author     string    `gorm:"type:text;not null" json:"author"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsInternal bool      `gorm:"not null;default:false" json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}
