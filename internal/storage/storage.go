package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"flightclaim/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup or update matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column (slug, reference, email) already exists.
	ErrDuplicate = errors.New("duplicate record")
)

// ClaimFilter narrows the admin claim list.
type ClaimFilter struct {
	Status models.ClaimStatus
	Query  string
	Page   int
	Limit  int
}

// Fields is a whitelisted set of column updates for PATCH endpoints.
type Fields map[string]interface{}

type Storage interface {
	CreateClaim(ctx context.Context, claim *models.Claim) error
	GetClaim(ctx context.Context, id string) (*models.Claim, error)
	GetClaimByReference(ctx context.Context, reference, email string) (*models.Claim, error)
	ListClaims(ctx context.Context, filter ClaimFilter) ([]models.Claim, int64, error)
	UpdateClaimStatus(ctx context.Context, id string, status models.ClaimStatus) (*models.Claim, error)
	AddClaimComment(ctx context.Context, comment *models.ClaimComment) error
	ListClaimComments(ctx context.Context, claimID string, includeInternal bool) ([]models.ClaimComment, error)

	ListBlogPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error)
	CreateBlogPost(ctx context.Context, post *models.BlogPost) error
	UpdateBlogPost(ctx context.Context, id uint, fields Fields) (*models.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id uint) error

	ListPages(ctx context.Context, publishedOnly bool) ([]models.PageContent, error)
	GetPageBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.PageContent, error)
	CreatePage(ctx context.Context, page *models.PageContent) error
	UpdatePage(ctx context.Context, id uint, fields Fields) (*models.PageContent, error)
	DeletePage(ctx context.Context, id uint) error

	ListPartners(ctx context.Context, activeOnly bool) ([]models.Partner, error)
	CreatePartner(ctx context.Context, partner *models.Partner) error
	UpdatePartner(ctx context.Context, id uint, fields Fields) (*models.Partner, error)
	DeletePartner(ctx context.Context, id uint) error

	ListPressReleases(ctx context.Context, publishedOnly bool) ([]models.PressRelease, error)
	GetPressReleaseBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.PressRelease, error)
	CreatePressRelease(ctx context.Context, release *models.PressRelease) error
	UpdatePressRelease(ctx context.Context, id uint, fields Fields) (*models.PressRelease, error)
	DeletePressRelease(ctx context.Context, id uint) error

	ListTeamMembers(ctx context.Context, activeOnly bool) ([]models.TeamMember, error)
	CreateTeamMember(ctx context.Context, member *models.TeamMember) error
	UpdateTeamMember(ctx context.Context, id uint, fields Fields) (*models.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id uint) error

	CreateChatSession(ctx context.Context, session *models.ChatSession) error
	GetChatSession(ctx context.Context, id string) (*models.ChatSession, error)
	ListChatSessions(ctx context.Context, page, limit int) ([]models.ChatSession, int64, error)
	AppendChatMessage(ctx context.Context, msg *models.ChatMessage) error
	RecentChatMessages(ctx context.Context, sessionID string, n int) ([]models.ChatMessage, error)

	NearestKnowledge(ctx context.Context, embedding []float32, k int) ([]models.KnowledgeMatch, error)
	CreateKnowledge(ctx context.Context, kb *models.KnowledgeBase) error
	CountKnowledge(ctx context.Context) (int64, error)

	SearchAirports(ctx context.Context, q string, limit int) ([]models.Airport, error)
	GetAirportByIATA(ctx context.Context, code string) (*models.Airport, error)
	ListAirports(ctx context.Context) ([]models.Airport, error)
	UpsertAirport(ctx context.Context, airport *models.Airport) error

	GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	CreateAdmin(ctx context.Context, admin *models.AdminUser) error

	CacheGet(ctx context.Context, key string) ([]byte, bool, error)
	CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

var _ Storage = (*Service)(nil)

// NewStorageService Constructor. rdb may be nil: caching and rate limiting are then disabled.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// updateByID applies fields to the row with the given id and returns the fresh row.
func updateByID[T any](ctx context.Context, db *gorm.DB, id uint, fields Fields) (*T, error) {
	var row T
	if len(fields) > 0 {
		res := db.WithContext(ctx).Model(&row).Where("id = ?", id).Updates(map[string]interface{}(fields))
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint) error {
	var row T
	res := db.WithContext(ctx).Delete(&row, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func create[T any](ctx context.Context, db *gorm.DB, row *T) error {
	return translate(db.WithContext(ctx).Create(row).Error)
}
