package storage

import (
	"context"

	"flightclaim/backend/internal/models"

	"github.com/pgvector/pgvector-go"
)

const nearestKnowledgeSQL = `SELECT id, content, source, 1 - (embedding <=> ?) AS similarity
FROM knowledge_base
ORDER BY embedding <=> ?
LIMIT ?`

// NearestKnowledge returns the k chunks closest to embedding by cosine distance.
func (s *Service) NearestKnowledge(ctx context.Context, embedding []float32, k int) ([]models.KnowledgeMatch, error) {
	vec := pgvector.NewVector(embedding)
	var matches []models.KnowledgeMatch
	if err := s.DB.WithContext(ctx).Raw(nearestKnowledgeSQL, vec, vec, k).Scan(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *Service) CreateKnowledge(ctx context.Context, kb *models.KnowledgeBase) error {
	return create(ctx, s.DB, kb)
}

func (s *Service) CountKnowledge(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.KnowledgeBase{}).Count(&n).Error
	return n, err
}
