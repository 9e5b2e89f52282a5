package storage

import (
	"context"
	"strings"

	"flightclaim/backend/internal/models"

	"gorm.io/gorm/clause"
)

// SearchAirports ranks an exact IATA hit first, then city/name prefix matches.
func (s *Service) SearchAirports(ctx context.Context, q string, limit int) ([]models.Airport, error) {
	q = strings.TrimSpace(q)
	code := strings.ToUpper(q)
	prefix := escapeLike(q) + "%"

	var airports []models.Airport
	err := s.DB.WithContext(ctx).
		Where("iata = ? OR city ILIKE ? OR name ILIKE ?", code, prefix, prefix).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN iata = ? THEN 0 ELSE 1 END, city, name",
			Vars:               []interface{}{code},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&airports).Error
	return airports, err
}

func (s *Service) GetAirportByIATA(ctx context.Context, code string) (*models.Airport, error) {
	var airport models.Airport
	if err := s.DB.WithContext(ctx).Where("iata = ?", strings.ToUpper(code)).First(&airport).Error; err != nil {
		return nil, translate(err)
	}
	return &airport, nil
}

func (s *Service) ListAirports(ctx context.Context) ([]models.Airport, error) {
	var airports []models.Airport
	err := s.DB.WithContext(ctx).Order("iata ASC").Find(&airports).Error
	return airports, err
}

// UpsertAirport inserts or refreshes an airport keyed by IATA code.
func (s *Service) UpsertAirport(ctx context.Context, airport *models.Airport) error {
	airport.IATA = strings.ToUpper(airport.IATA)
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "iata"}},
			DoUpdates: clause.AssignmentColumns([]string{"icao", "name", "city", "country", "latitude", "longitude"}),
		}).
		Create(airport).Error
}
