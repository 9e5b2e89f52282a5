package storage

import (
	"context"
	"strings"

	"flightclaim/backend/internal/models"
)

func (s *Service) CreateClaim(ctx context.Context, claim *models.Claim) error {
	return create(ctx, s.DB, claim)
}

func (s *Service) GetClaim(ctx context.Context, id string) (*models.Claim, error) {
	var claim models.Claim
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&claim).Error; err != nil {
		return nil, translate(err)
	}
	return &claim, nil
}

// GetClaimByReference is the customer lookup: both reference and email must match.
func (s *Service) GetClaimByReference(ctx context.Context, reference, email string) (*models.Claim, error) {
	var claim models.Claim
	err := s.DB.WithContext(ctx).
		Where("reference = ? AND lower(email) = ?", strings.ToUpper(strings.TrimSpace(reference)), strings.ToLower(strings.TrimSpace(email))).
		First(&claim).Error
	if err != nil {
		return nil, translate(err)
	}
	return &claim, nil
}

// ListClaims returns one page of claims, newest first, and the total match count.
func (s *Service) ListClaims(ctx context.Context, filter ClaimFilter) ([]models.Claim, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Claim{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + escapeLike(term) + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR reference ILIKE ? OR flight_number ILIKE ?",
			like, like, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var claims []models.Claim
	err := q.Order("created_at DESC").
		Offset(offset(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&claims).Error
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

// UpdateClaimStatus changes the status and returns the updated claim.
func (s *Service) UpdateClaimStatus(ctx context.Context, id string, status models.ClaimStatus) (*models.Claim, error) {
	res := s.DB.WithContext(ctx).Model(&models.Claim{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetClaim(ctx, id)
}

func (s *Service) AddClaimComment(ctx context.Context, comment *models.ClaimComment) error {
	return create(ctx, s.DB, comment)
}

// ListClaimComments returns comments oldest first. Internal notes are dropped unless includeInternal.
func (s *Service) ListClaimComments(ctx context.Context, claimID string, includeInternal bool) ([]models.ClaimComment, error) {
	var comments []models.ClaimComment
	q := s.DB.WithContext(ctx).Where("claim_id = ?", claimID)
	if !includeInternal {
		q = q.Where("is_internal = ?", false)
	}
	if err := q.Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
