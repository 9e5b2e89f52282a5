package claims

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"flightclaim/backend/internal/localization"
	"flightclaim/backend/internal/logger"
	"flightclaim/backend/internal/metrics"
	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/notify"
	"flightclaim/backend/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	fra = &models.Airport{IATA: "FRA", Latitude: 50.0379, Longitude: 8.5622}
	jfk = &models.Airport{IATA: "JFK", Latitude: 40.6413, Longitude: -73.7781}
	cdg = &models.Airport{IATA: "CDG", Latitude: 49.0097, Longitude: 2.5479}
)

type fixture struct {
	svc      *Service
	store    *MockStore
	mailer   *MockMailer
	notifier *MockNotifier
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := localization.NewDefault()
	require.NoError(t, err)
	tmpl, err := notify.NewTemplates(loc)
	require.NoError(t, err)

	f := &fixture{
		store:    new(MockStore),
		mailer:   new(MockMailer),
		notifier: new(MockNotifier),
		metrics:  metrics.NewMetrics("test", prometheus.NewRegistry()),
	}
	f.svc = NewService(f.store, tmpl, f.mailer, f.notifier, f.metrics, logger.NewNop())
	return f
}

func validClaim() *models.Claim {
	return &models.Claim{
		FirstName:        " Anna ",
		LastName:         "Schmidt",
		Email:            "Anna@Example.com",
		FlightNumber:     "lh 400",
		DepartureAirport: "fra",
		ArrivalAirport:   "jfk",
		FlightDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		DisruptionType:   models.DisruptionDelay,
		DelayMinutes:     300,
		Status:           models.ClaimApproved,
		Language:         "DE",
	}
}

func TestSubmit_Success(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.store.On("GetAirportByIATA", mock.Anything, "FRA").Return(fra, nil)
	f.store.On("GetAirportByIATA", mock.Anything, "JFK").Return(jfk, nil)
	f.store.On("CreateClaim", mock.Anything, mock.AnythingOfType("*models.Claim")).
		Run(func(args mock.Arguments) {
			c := args.Get(1).(*models.Claim)
			c.ID = "claim-1"
			c.Reference = "FC-0000AAAA"
		}).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(e notify.Email) bool {
		return e.To == "anna@example.com" && e.Subject == "Ihr Antrag FC-0000AAAA ist eingegangen"
	})).Return(nil)
	f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(text string) bool {
		return strings.HasPrefix(text, "New claim FC-0000AAAA")
	})).Return(nil)
	c := validClaim()

	// Act
	err := f.svc.Submit(context.Background(), c)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.ClaimSubmitted, c.Status)
	assert.Equal(t, "LH400", c.FlightNumber)
	assert.Equal(t, "FRA", c.DepartureAirport)
	assert.Equal(t, "anna@example.com", c.Email)
	assert.Equal(t, "Anna", c.FirstName)
	assert.Equal(t, "de", c.Language)
	assert.Equal(t, 600, c.EstimatedCompensation)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ClaimsSubmitted))
	f.store.AssertExpectations(t)
	f.mailer.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestSubmit_NotificationFailuresDoNotFail(t *testing.T) {
	f := newFixture(t)
	f.store.On("GetAirportByIATA", mock.Anything, mock.Anything).Return(nil, storage.ErrNotFound)
	f.store.On("CreateClaim", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("telegram down"))
	c := validClaim()

	require.NoError(t, f.svc.Submit(context.Background(), c))

	assert.Zero(t, c.EstimatedCompensation)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.UpstreamRequests.WithLabelValues("mail", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.UpstreamRequests.WithLabelValues("telegram", "error")))
}

func TestSubmit_EstimateFailureLogsFlight(t *testing.T) {
	f := newFixture(t)
	core, logs := observer.New(zapcore.WarnLevel)
	f.svc.log = logger.New(zap.New(core))
	f.store.On("GetAirportByIATA", mock.Anything, "FRA").Return(nil, errors.New("connection reset"))
	f.store.On("CreateClaim", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.svc.Submit(context.Background(), validClaim()))

	entries := logs.FilterMessage("compensation estimate failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "LH400", fields["flight_number"])
	assert.Equal(t, "FRA", fields["from"])
	assert.Equal(t, "JFK", fields["to"])
	assert.NotContains(t, fields, "reference")
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *models.Claim)
		field  string
	}{
		{"missing first name", func(c *models.Claim) { c.FirstName = " " }, "first_name"},
		{"bad email", func(c *models.Claim) { c.Email = "nope" }, "email"},
		{"bad flight number", func(c *models.Claim) { c.FlightNumber = "X" }, "flight_number"},
		{"bad departure", func(c *models.Claim) { c.DepartureAirport = "FRAN" }, "departure_airport"},
		{"same airports", func(c *models.Claim) { c.ArrivalAirport = "FRA" }, "arrival_airport"},
		{"missing date", func(c *models.Claim) { c.FlightDate = time.Time{} }, "flight_date"},
		{"unknown disruption", func(c *models.Claim) { c.DisruptionType = "strike" }, "disruption_type"},
		{"negative delay", func(c *models.Claim) { c.DelayMinutes = -1 }, "delay_minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			c := validClaim()
			tt.mutate(c)

			err := f.svc.Submit(context.Background(), c)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			f.store.AssertNotCalled(t, "CreateClaim", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmit_StoreError(t *testing.T) {
	f := newFixture(t)
	f.store.On("GetAirportByIATA", mock.Anything, mock.Anything).Return(nil, storage.ErrNotFound)
	f.store.On("CreateClaim", mock.Anything, mock.Anything).Return(errors.New("db down"))

	err := f.svc.Submit(context.Background(), validClaim())

	assert.ErrorContains(t, err, "db down")
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestUpdateStatus(t *testing.T) {
	t.Run("invalid status", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateStatus(context.Background(), "claim-1", "paid")

		assert.ErrorIs(t, err, ErrInvalidStatus)
		f.store.AssertNotCalled(t, "UpdateClaimStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown claim", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("UpdateClaimStatus", mock.Anything, "missing", models.ClaimApproved).Return(nil, storage.ErrNotFound)

		_, err := f.svc.UpdateStatus(context.Background(), "missing", models.ClaimApproved)

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("emails the customer", func(t *testing.T) {
		f := newFixture(t)
		updated := &models.Claim{ID: "claim-1", Reference: "FC-0000AAAA", Email: "anna@example.com", Status: models.ClaimApproved}
		f.store.On("UpdateClaimStatus", mock.Anything, "claim-1", models.ClaimApproved).Return(updated, nil)
		f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(e notify.Email) bool {
			return e.Subject == "Update on your claim FC-0000AAAA"
		})).Return(nil)

		got, err := f.svc.UpdateStatus(context.Background(), "claim-1", models.ClaimApproved)

		require.NoError(t, err)
		assert.Equal(t, updated, got)
		f.mailer.AssertExpectations(t)
	})
}

func TestAddComment(t *testing.T) {
	claim := &models.Claim{ID: "claim-1", Reference: "FC-0000AAAA", Email: "anna@example.com"}

	t.Run("empty content", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.AddComment(context.Background(), "claim-1", "ops", "  ", false)

		assert.ErrorIs(t, err, ErrEmptyComment)
	})

	t.Run("unknown claim", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetClaim", mock.Anything, "missing").Return(nil, storage.ErrNotFound)

		_, err := f.svc.AddComment(context.Background(), "missing", "ops", "hi", false)

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("internal comment is not emailed", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetClaim", mock.Anything, "claim-1").Return(claim, nil)
		f.store.On("AddClaimComment", mock.Anything, mock.AnythingOfType("*models.ClaimComment")).Return(nil)

		comment, err := f.svc.AddComment(context.Background(), "claim-1", "ops", "check passport", true)

		require.NoError(t, err)
		assert.True(t, comment.IsInternal)
		assert.Equal(t, "claim-1", comment.ClaimID)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("external comment is emailed", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetClaim", mock.Anything, "claim-1").Return(claim, nil)
		f.store.On("AddClaimComment", mock.Anything, mock.AnythingOfType("*models.ClaimComment")).Return(nil)
		f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(e notify.Email) bool {
			return e.To == "anna@example.com" && strings.Contains(e.HTML, "Please upload your boarding pass")
		})).Return(nil)

		_, err := f.svc.AddComment(context.Background(), "claim-1", "ops", "Please upload your boarding pass", false)

		require.NoError(t, err)
		f.mailer.AssertExpectations(t)
	})
}

func TestTrack_HidesInternalComments(t *testing.T) {
	f := newFixture(t)
	claim := &models.Claim{ID: "claim-1", Reference: "FC-0000AAAA"}
	public := []models.ClaimComment{{ID: 2, Content: "public"}}
	f.store.On("GetClaimByReference", mock.Anything, "FC-0000AAAA", "anna@example.com").Return(claim, nil)
	f.store.On("ListClaimComments", mock.Anything, "claim-1", false).Return(public, nil)

	got, comments, err := f.svc.Track(context.Background(), " FC-0000AAAA ", "anna@example.com")

	require.NoError(t, err)
	assert.Equal(t, claim, got)
	assert.Equal(t, public, comments)
	f.store.AssertExpectations(t)
}

func TestTrack_RequiresBoth(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Track(context.Background(), "FC-0000AAAA", "")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestEstimate(t *testing.T) {
	f := newFixture(t)
	f.store.On("GetAirportByIATA", mock.Anything, "FRA").Return(fra, nil)
	f.store.On("GetAirportByIATA", mock.Anything, "JFK").Return(jfk, nil)
	f.store.On("GetAirportByIATA", mock.Anything, "CDG").Return(cdg, nil)
	f.store.On("GetAirportByIATA", mock.Anything, "XXX").Return(nil, storage.ErrNotFound)

	q, err := f.svc.Estimate(context.Background(), "fra", "jfk", 200, "")
	require.NoError(t, err)
	assert.Equal(t, 300, q.Amount)
	assert.True(t, q.Eligible)
	assert.InDelta(t, 6200, q.DistanceKm, 100)

	q, err = f.svc.Estimate(context.Background(), "FRA", "CDG", 0, models.DisruptionCancellation)
	require.NoError(t, err)
	assert.Equal(t, 250, q.Amount)

	q, err = f.svc.Estimate(context.Background(), "FRA", "CDG", 120, models.DisruptionDelay)
	require.NoError(t, err)
	assert.False(t, q.Eligible)

	_, err = f.svc.Estimate(context.Background(), "FRA", "XXX", 200, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = f.svc.Estimate(context.Background(), "FR", "JFK", 200, "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestContact(t *testing.T) {
	t.Run("invalid email", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Contact(context.Background(), ContactRequest{Name: "Jean", Email: "x", Message: "hi"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "email", verr.Field)
	})

	t.Run("auto-reply and admin notification", func(t *testing.T) {
		f := newFixture(t)
		f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(e notify.Email) bool {
			return e.To == "jean@example.com" && e.Subject == "Nous avons bien reçu votre message"
		})).Return(nil)
		f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(text string) bool {
			return strings.Contains(text, "Jean <jean@example.com>")
		})).Return(nil)

		err := f.svc.Contact(context.Background(), ContactRequest{Name: "Jean", Email: "Jean@Example.com", Message: "Bonjour", Language: "fr"})

		require.NoError(t, err)
		f.mailer.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})
}
