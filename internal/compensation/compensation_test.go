package compensation_test

import (
	"testing"

	"flightclaim/backend/internal/compensation"
	"flightclaim/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

var (
	fra = models.Airport{IATA: "FRA", Latitude: 50.0333, Longitude: 8.5706}
	lhr = models.Airport{IATA: "LHR", Latitude: 51.4700, Longitude: -0.4543}
	jfk = models.Airport{IATA: "JFK", Latitude: 40.6413, Longitude: -73.7781}
	tfs = models.Airport{IATA: "TFS", Latitude: 28.0445, Longitude: -16.5725}
)

func TestDistanceKm(t *testing.T) {
	assert.InDelta(t, 655, compensation.DistanceKm(fra, lhr), 10)
	assert.InDelta(t, 6200, compensation.DistanceKm(fra, jfk), 60)
	assert.InDelta(t, 0, compensation.DistanceKm(fra, fra), 1e-9)
	assert.InDelta(t, compensation.DistanceKm(fra, jfk), compensation.DistanceKm(jfk, fra), 1e-6)
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name       string
		distance   float64
		delay      int
		disruption models.DisruptionType
		want       int
	}{
		{"short delay under three hours", 655, 179, models.DisruptionDelay, 0},
		{"short delay exactly three hours", 655, 180, models.DisruptionDelay, 250},
		{"medium band", 3100, 200, models.DisruptionDelay, 400},
		{"band edge 1500 km", 1500, 240, models.DisruptionDelay, 250},
		{"band edge 3500 km", 3500, 240, models.DisruptionDelay, 400},
		{"long haul reduced", 6200, 200, models.DisruptionDelay, 300},
		{"long haul full", 6200, 240, models.DisruptionDelay, 600},
		{"cancellation ignores delay", 655, 0, models.DisruptionCancellation, 250},
		{"denied boarding", 3100, 0, models.DisruptionDeniedBoarding, 400},
		{"missed connection", 6200, 30, models.DisruptionMissedConnection, 600},
		{"unknown disruption", 6200, 600, models.DisruptionType("diverted"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compensation.Estimate(tt.distance, tt.delay, tt.disruption))
		})
	}
}

func TestEstimate_RealRoute(t *testing.T) {
	assert.Equal(t, 400, compensation.Estimate(compensation.DistanceKm(fra, tfs), 190, models.DisruptionDelay))
}
