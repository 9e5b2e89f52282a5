// Package flights looks up scheduled departures through the AeroDataBox API on RapidAPI.
package flights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flightclaim/backend/internal/logger"
	"flightclaim/backend/internal/metrics"
)

const (
	DefaultHost = "aerodatabox.p.rapidapi.com"

	upstreamName    = "aerodatabox"
	windowLayout    = "2006-01-02T15:04"
	timestampLayout = "2006-01-02 15:04Z07:00"
)

var (
	ErrRateLimited   = errors.New("flight data provider rate limit reached")
	ErrNotConfigured = errors.New("flight search is not configured")
)

// Flight is one departure as returned to the claim form.
type Flight struct {
	Number             string    `json:"flight_number"`
	Airline            string    `json:"airline"`
	AirlineIATA        string    `json:"airline_iata,omitempty"`
	DepartureAirport   string    `json:"departure_airport"`
	ArrivalAirport     string    `json:"arrival_airport"`
	ArrivalAirportName string    `json:"arrival_airport_name,omitempty"`
	ScheduledDeparture string    `json:"scheduled_departure"`
	ScheduledArrival   string    `json:"scheduled_arrival,omitempty"`
	DepartureUTC       time.Time `json:"departure_utc"`
	Status             string    `json:"status,omitempty"`
	Terminal           string    `json:"terminal,omitempty"`
	Aircraft           string    `json:"aircraft,omitempty"`
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at another server, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	host       string
	log        logger.Logger
	metrics    *metrics.Metrics
}

// NewClient builds an AeroDataBox client. An empty apiKey makes Search return ErrNotConfigured.
func NewClient(apiKey, host string, opts ...Option) *Client {
	if host == "" {
		host = DefaultHost
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://" + host,
		apiKey:     apiKey,
		host:       host,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire format of the FIDS endpoint.
type fidsResponse struct {
	Departures []fidsFlight `json:"departures"`
}

type fidsFlight struct {
	Number    string       `json:"number"`
	Status    string       `json:"status"`
	Departure fidsMovement `json:"departure"`
	Arrival   fidsMovement `json:"arrival"`
	Airline   struct {
		Name string `json:"name"`
		IATA string `json:"iata"`
	} `json:"airline"`
	Aircraft struct {
		Model string `json:"model"`
	} `json:"aircraft"`
}

type fidsMovement struct {
	Airport struct {
		IATA string `json:"iata"`
		Name string `json:"name"`
	} `json:"airport"`
	ScheduledTime struct {
		UTC   string `json:"utc"`
		Local string `json:"local"`
	} `json:"scheduledTime"`
	Terminal string `json:"terminal"`
}

// fetchWindow fetches the departures of one airport between two local times of a day.
func (c *Client) fetchWindow(ctx context.Context, from string, day time.Time, start, end string) ([]Flight, error) {
	fromLocal, err := atClock(day, start)
	if err != nil {
		return nil, err
	}
	toLocal, err := atClock(day, end)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/flights/airports/iata/%s/%s/%s", c.baseURL,
		url.PathEscape(from), fromLocal.Format(windowLayout), toLocal.Format(windowLayout))
	params := url.Values{}
	params.Set("withLeg", "true")
	params.Set("direction", "Departure")
	params.Set("withCancelled", "true")
	params.Set("withCodeshared", "false")
	params.Set("withCargo", "false")
	params.Set("withPrivate", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Upstream(upstreamName, "error")
		return nil, fmt.Errorf("aerodatabox request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		c.metrics.Upstream(upstreamName, "empty")
		return nil, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		c.metrics.Upstream(upstreamName, "rate_limited")
		return nil, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.metrics.Upstream(upstreamName, "error")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("aerodatabox non-2xx", "status", resp.StatusCode, "body", string(body), "airport", from)
		return nil, fmt.Errorf("aerodatabox: unexpected status %d", resp.StatusCode)
	}

	var payload fidsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			c.metrics.Upstream(upstreamName, "empty")
			return nil, nil
		}
		c.metrics.Upstream(upstreamName, "error")
		return nil, fmt.Errorf("aerodatabox decode: %w", err)
	}
	c.metrics.Upstream(upstreamName, "ok")

	flights := make([]Flight, 0, len(payload.Departures))
	for _, d := range payload.Departures {
		flights = append(flights, toFlight(from, d))
	}
	return flights, nil
}

func toFlight(from string, d fidsFlight) Flight {
	f := Flight{
		Number:             d.Number,
		Airline:            d.Airline.Name,
		AirlineIATA:        d.Airline.IATA,
		DepartureAirport:   strings.ToUpper(d.Departure.Airport.IATA),
		ArrivalAirport:     strings.ToUpper(d.Arrival.Airport.IATA),
		ArrivalAirportName: d.Arrival.Airport.Name,
		ScheduledDeparture: d.Departure.ScheduledTime.Local,
		ScheduledArrival:   d.Arrival.ScheduledTime.Local,
		Status:             d.Status,
		Terminal:           d.Departure.Terminal,
		Aircraft:           d.Aircraft.Model,
	}
	if f.DepartureAirport == "" {
		f.DepartureAirport = from
	}
	if t, err := time.Parse(timestampLayout, d.Departure.ScheduledTime.UTC); err == nil {
		f.DepartureUTC = t.UTC()
	} else if t, err := time.Parse(timestampLayout, d.Departure.ScheduledTime.Local); err == nil {
		f.DepartureUTC = t.UTC()
	}
	return f
}

func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("window clock %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
