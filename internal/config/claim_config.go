package config

import "time"

const (
	// Compensation (EUR, Regulation (EC) No 261/2004)
	CompensationShortHaul  = 250
	CompensationMediumHaul = 400
	CompensationLongHaul   = 600
	ShortHaulMaxKm         = 1500
	MediumHaulMaxKm        = 3500
	MinEligibleDelay       = 3 * time.Hour
	LongHaulReducedDelay   = 4 * time.Hour

	// Flight search
	FlightWindowCount = 2

	// Chat assistant
	EmbeddingDimensions    = 384
	KnowledgeTopK          = 5
	KnowledgeMinSimilarity = 0.3
	ChatHistoryLimit       = 10
	ChatMaxMessageRunes    = 2000

	// Listing
	AirportSearchLimit = 10
	DefaultPageSize    = 20
	MaxPageSize        = 100

	// Rate limiting
	RateLimitWindow = time.Minute
)

// FlightSearchDayOffsets is the order in which dates are tried when the requested
// date returns no flights: exact, next day, one week earlier.
var FlightSearchDayOffsets = []int{0, 1, -7}

// FlightSearchWindows are the local-time windows fetched in parallel for one day.
// The upstream caps a single request at 12 hours.
var FlightSearchWindows = [FlightWindowCount][2]string{
	{"00:00", "11:59"},
	{"12:00", "23:59"},
}
