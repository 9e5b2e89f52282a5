package flights

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"flightclaim/backend/internal/config"
	"flightclaim/backend/internal/validate"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidQuery wraps every validation failure of a Query.
var ErrInvalidQuery = errors.New("invalid flight query")

// Query is a flight lookup from the claim form.
type Query struct {
	From         string `form:"from" json:"from"`
	To           string `form:"to" json:"to"`
	Date         string `form:"date" json:"date"`
	FlightNumber string `form:"flightNumber" json:"flight_number"`
}

// Normalize upper-cases the codes and validates the query.
func (q *Query) Normalize() error {
	q.From = strings.ToUpper(strings.TrimSpace(q.From))
	q.To = strings.ToUpper(strings.TrimSpace(q.To))
	q.Date = strings.TrimSpace(q.Date)
	q.FlightNumber = validate.NormalizeFlightNumber(q.FlightNumber)

	if q.From == "" {
		return fmt.Errorf("%w: from required", ErrInvalidQuery)
	}
	if err := validate.IATA(q.From); err != nil {
		return fmt.Errorf("%w: from: %v", ErrInvalidQuery, err)
	}
	if q.To != "" {
		if err := validate.IATA(q.To); err != nil {
			return fmt.Errorf("%w: to: %v", ErrInvalidQuery, err)
		}
	}
	if q.Date == "" {
		return fmt.Errorf("%w: date required", ErrInvalidQuery)
	}
	if _, err := validate.Date(q.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if q.FlightNumber != "" {
		if err := validate.FlightNumber(q.FlightNumber); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
	}
	return nil
}

// CacheKey identifies a normalised query.
func (q Query) CacheKey() string {
	return fmt.Sprintf("flights:%s:%s:%s:%s", q.From, q.To, q.Date, q.FlightNumber)
}

// SearchResult reports which date actually produced the flights.
type SearchResult struct {
	Flights       []Flight `json:"flights"`
	RequestedDate string   `json:"requested_date"`
	SearchedDate  string   `json:"searched_date"`
	FallbackUsed  bool     `json:"fallback_used"`
}

// Search tries the requested date, then the next day, then one week earlier,
// and returns the first attempt that yields flights.
func (c *Client) Search(ctx context.Context, q Query) (*SearchResult, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	requested, _ := validate.Date(q.Date)

	result := &SearchResult{Flights: []Flight{}, RequestedDate: q.Date, SearchedDate: q.Date}
	for _, offset := range config.FlightSearchDayOffsets {
		day := requested.AddDate(0, 0, offset)
		found, err := c.searchDay(ctx, q, day)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			result.Flights = found
			result.SearchedDate = day.Format(validate.DateLayout)
			result.FallbackUsed = offset != 0
			if result.FallbackUsed {
				c.log.Info("flight search fallback", "from", q.From, "requested", q.Date, "searched", result.SearchedDate)
			}
			return result, nil
		}
	}
	return result, nil
}

// searchDay fetches all windows of one day concurrently and merges them.
func (c *Client) searchDay(ctx context.Context, q Query, day time.Time) ([]Flight, error) {
	windows := make([][]Flight, len(config.FlightSearchWindows))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range config.FlightSearchWindows {
		g.Go(func() error {
			found, err := c.fetchWindow(gctx, q.From, day, w[0], w[1])
			if err != nil {
				return err
			}
			windows[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return filter(merge(windows...), q), nil
}

// merge concatenates windows and drops duplicates (same number, same scheduled departure).
func merge(windows ...[]Flight) []Flight {
	seen := make(map[string]bool)
	var out []Flight
	for _, w := range windows {
		for _, f := range w {
			key := validate.NormalizeFlightNumber(f.Number) + "|" + f.DepartureUTC.Format(time.RFC3339) + "|" + f.ScheduledDeparture
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, f)
		}
	}
	return out
}

func filter(flights []Flight, q Query) []Flight {
	out := flights[:0]
	for _, f := range flights {
		if q.To != "" && f.ArrivalAirport != q.To {
			continue
		}
		if q.FlightNumber != "" && validate.NormalizeFlightNumber(f.Number) != q.FlightNumber {
			continue
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DepartureUTC.Before(out[j].DepartureUTC)
	})
	return out
}
