// Package compensation estimates EU261 compensation from route distance and disruption.
package compensation

import (
	"math"

	"flightclaim/backend/internal/config"
	"flightclaim/backend/internal/models"
)

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between two airports.
func DistanceKm(from, to models.Airport) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Band returns the full EU261 amount in EUR for a route distance.
func Band(distanceKm float64) int {
	switch {
	case distanceKm <= config.ShortHaulMaxKm:
		return config.CompensationShortHaul
	case distanceKm <= config.MediumHaulMaxKm:
		return config.CompensationMediumHaul
	default:
		return config.CompensationLongHaul
	}
}

// Estimate returns the expected compensation in EUR, 0 when not eligible.
// Delays need at least three hours at arrival; long-haul delays between three and
// four hours are paid at half rate.
func Estimate(distanceKm float64, delayMinutes int, disruption models.DisruptionType) int {
	amount := Band(distanceKm)
	switch disruption {
	case models.DisruptionCancellation, models.DisruptionDeniedBoarding, models.DisruptionMissedConnection:
		return amount
	case models.DisruptionDelay:
		delay := float64(delayMinutes)
		if delay < config.MinEligibleDelay.Minutes() {
			return 0
		}
		if amount == config.CompensationLongHaul && delay < config.LongHaulReducedDelay.Minutes() {
			return amount / 2
		}
		return amount
	}
	return 0
}
