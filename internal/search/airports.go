// Package search keeps an in-memory full-text index of the airport table for autocomplete.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"flightclaim/backend/internal/logger"
	"flightclaim/backend/internal/models"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"
)

const (
	iataBoost = 10
	cityBoost = 3
	nameBoost = 2
)

// AirportStore is the storage the index is built from and falls back to.
type AirportStore interface {
	ListAirports(ctx context.Context) ([]models.Airport, error)
	SearchAirports(ctx context.Context, q string, limit int) ([]models.Airport, error)
}

// AirportIndex ranks airports by exact IATA code first, then by prefix on city and name.
type AirportIndex struct {
	store AirportStore
	log   logger.Logger

	mu       sync.RWMutex
	index    bleve.Index
	airports map[string]models.Airport
}

// airportMapping indexes the code as a single untouched term so codes that are also
// English stop words (THE, AND, FOR) stay searchable. Text fields keep the standard analyzer.
func airportMapping() mapping.IndexMapping {
	code := bleve.NewTextFieldMapping()
	code.Analyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("iata", code)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

func NewAirportIndex(store AirportStore, log logger.Logger) (*AirportIndex, error) {
	index, err := bleve.NewMemOnly(airportMapping())
	if err != nil {
		return nil, fmt.Errorf("create airport index: %w", err)
	}
	return &AirportIndex{
		store:    store,
		log:      log,
		index:    index,
		airports: make(map[string]models.Airport),
	}, nil
}

// Build loads the whole airport table into the index.
func (a *AirportIndex) Build(ctx context.Context) error {
	airports, err := a.store.ListAirports(ctx)
	if err != nil {
		return fmt.Errorf("list airports: %w", err)
	}
	if err := a.Load(airports); err != nil {
		return err
	}
	a.log.Info("airport index built", "airports", len(airports))
	return nil
}

// Load indexes airports in one batch, replacing entries with the same IATA code.
func (a *AirportIndex) Load(airports []models.Airport) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	batch := a.index.NewBatch()
	for _, ap := range airports {
		code := strings.ToUpper(ap.IATA)
		if err := batch.Index(code, map[string]interface{}{
			"iata":    strings.ToLower(code),
			"city":    ap.City,
			"name":    ap.Name,
			"country": ap.Country,
		}); err != nil {
			return fmt.Errorf("index airport %s: %w", code, err)
		}
		a.airports[code] = ap
	}
	if err := a.index.Batch(batch); err != nil {
		return fmt.Errorf("write airport batch: %w", err)
	}
	return nil
}

// Len returns the number of indexed airports.
func (a *AirportIndex) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.airports)
}

// Search returns up to limit airports. When the index is empty or fails, the storage
// search answers instead.
func (a *AirportIndex) Search(ctx context.Context, q string, limit int) ([]models.Airport, error) {
	q = strings.TrimSpace(q)
	if q == "" || limit <= 0 {
		return []models.Airport{}, nil
	}
	if a.Len() == 0 {
		return a.store.SearchAirports(ctx, q, limit)
	}

	codes, err := a.codes(q, limit)
	if err != nil {
		a.log.Warn("airport index search failed, using database", "q", q, "error", err)
		return a.store.SearchAirports(ctx, q, limit)
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.Airport, 0, len(codes))
	for _, code := range codes {
		if ap, ok := a.airports[code]; ok {
			out = append(out, ap)
		}
	}
	return out, nil
}

// codes runs the ranked query and returns the matching IATA codes, best first.
func (a *AirportIndex) codes(q string, limit int) ([]string, error) {
	words := strings.Fields(strings.ToLower(q))

	// every word must prefix-match the city, name or country
	perWord := make([]query.Query, 0, len(words))
	for _, w := range words {
		city := bleve.NewPrefixQuery(w)
		city.SetField("city")
		city.SetBoost(cityBoost)
		name := bleve.NewPrefixQuery(w)
		name.SetField("name")
		name.SetBoost(nameBoost)
		country := bleve.NewPrefixQuery(w)
		country.SetField("country")
		perWord = append(perWord, bleve.NewDisjunctionQuery(city, name, country))
	}
	alternatives := []query.Query{bleve.NewConjunctionQuery(perWord...)}

	if len(words) == 1 && len(words[0]) == 3 {
		iata := bleve.NewTermQuery(words[0])
		iata.SetField("iata")
		iata.SetBoost(iataBoost)
		alternatives = append(alternatives, iata)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(alternatives...), limit, 0, false)

	a.mu.RLock()
	res, err := a.index.Search(req)
	a.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		codes = append(codes, hit.ID)
	}
	return codes, nil
}

// Close releases the index.
func (a *AirportIndex) Close() error {
	return a.index.Close()
}
