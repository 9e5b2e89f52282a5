package storage

import (
	"context"

	"flightclaim/backend/internal/models"

	"gorm.io/gorm"
)

func publishedScope(only bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if only {
			return db.Where("status = ?", models.ContentPublished)
		}
		return db
	}
}

func activeScope(only bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if only {
			return db.Where("active = ?", true)
		}
		return db
	}
}

func getBySlug[T any](ctx context.Context, db *gorm.DB, slug string, publishedOnly bool) (*T, error) {
	var row T
	err := db.WithContext(ctx).Scopes(publishedScope(publishedOnly)).Where("slug = ?", slug).First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// Blog

func (s *Service) ListBlogPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := s.DB.WithContext(ctx).Scopes(publishedScope(publishedOnly)).
		Order("published_at DESC NULLS LAST, created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (s *Service) GetBlogPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	return getBySlug[models.BlogPost](ctx, s.DB, slug, publishedOnly)
}

func (s *Service) CreateBlogPost(ctx context.Context, post *models.BlogPost) error {
	return create(ctx, s.DB, post)
}

func (s *Service) UpdateBlogPost(ctx context.Context, id uint, fields Fields) (*models.BlogPost, error) {
	return updateByID[models.BlogPost](ctx, s.DB, id, fields)
}

func (s *Service) DeleteBlogPost(ctx context.Context, id uint) error {
	return deleteByID[models.BlogPost](ctx, s.DB, id)
}

// Pages

func (s *Service) ListPages(ctx context.Context, publishedOnly bool) ([]models.PageContent, error) {
	var pages []models.PageContent
	err := s.DB.WithContext(ctx).Scopes(publishedScope(publishedOnly)).Order("slug ASC").Find(&pages).Error
	return pages, err
}

func (s *Service) GetPageBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.PageContent, error) {
	return getBySlug[models.PageContent](ctx, s.DB, slug, publishedOnly)
}

func (s *Service) CreatePage(ctx context.Context, page *models.PageContent) error {
	return create(ctx, s.DB, page)
}

func (s *Service) UpdatePage(ctx context.Context, id uint, fields Fields) (*models.PageContent, error) {
	return updateByID[models.PageContent](ctx, s.DB, id, fields)
}

func (s *Service) DeletePage(ctx context.Context, id uint) error {
	return deleteByID[models.PageContent](ctx, s.DB, id)
}

// Partners

func (s *Service) ListPartners(ctx context.Context, activeOnly bool) ([]models.Partner, error) {
	var partners []models.Partner
	err := s.DB.WithContext(ctx).Scopes(activeScope(activeOnly)).Order("sort_order ASC, name ASC").Find(&partners).Error
	return partners, err
}

func (s *Service) CreatePartner(ctx context.Context, partner *models.Partner) error {
	return create(ctx, s.DB, partner)
}

func (s *Service) UpdatePartner(ctx context.Context, id uint, fields Fields) (*models.Partner, error) {
	return updateByID[models.Partner](ctx, s.DB, id, fields)
}

func (s *Service) DeletePartner(ctx context.Context, id uint) error {
	return deleteByID[models.Partner](ctx, s.DB, id)
}

// Press

func (s *Service) ListPressReleases(ctx context.Context, publishedOnly bool) ([]models.PressRelease, error) {
	var releases []models.PressRelease
	err := s.DB.WithContext(ctx).Scopes(publishedScope(publishedOnly)).
		Order("published_at DESC NULLS LAST, created_at DESC").
		Find(&releases).Error
	return releases, err
}

func (s *Service) GetPressReleaseBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.PressRelease, error) {
	return getBySlug[models.PressRelease](ctx, s.DB, slug, publishedOnly)
}

func (s *Service) CreatePressRelease(ctx context.Context, release *models.PressRelease) error {
	return create(ctx, s.DB, release)
}

func (s *Service) UpdatePressRelease(ctx context.Context, id uint, fields Fields) (*models.PressRelease, error) {
	return updateByID[models.PressRelease](ctx, s.DB, id, fields)
}

func (s *Service) DeletePressRelease(ctx context.Context, id uint) error {
	return deleteByID[models.PressRelease](ctx, s.DB, id)
}

// Team

func (s *Service) ListTeamMembers(ctx context.Context, activeOnly bool) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := s.DB.WithContext(ctx).Scopes(activeScope(activeOnly)).Order("sort_order ASC, name ASC").Find(&members).Error
	return members, err
}

func (s *Service) CreateTeamMember(ctx context.Context, member *models.TeamMember) error {
	return create(ctx, s.DB, member)
}

func (s *Service) UpdateTeamMember(ctx context.Context, id uint, fields Fields) (*models.TeamMember, error) {
	return updateByID[models.TeamMember](ctx, s.DB, id, fields)
}

func (s *Service) DeleteTeamMember(ctx context.Context, id uint) error {
	return deleteByID[models.TeamMember](ctx, s.DB, id)
}
