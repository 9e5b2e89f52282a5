package storage

import (
	"context"
	"strings"

	"flightclaim/backend/internal/models"
)

func (s *Service) GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&admin).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (s *Service) CreateAdmin(ctx context.Context, admin *models.AdminUser) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	return create(ctx, s.DB, admin)
}
