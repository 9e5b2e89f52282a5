package handler

import (
	"context"
	"time"

	"flightclaim/backend/internal/assistant"
	"flightclaim/backend/internal/flights"
	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage implements storage.Storage.
type MockStorage struct {
	mock.Mock
}

var _ storage.Storage = (*MockStorage)(nil)

func (m *MockStorage) CreateClaim(ctx context.Context, claim *models.Claim) error {
	return m.Called(ctx, claim).Error(0)
}

func (m *MockStorage) GetClaim(ctx context.Context, id string) (*models.Claim, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Claim), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetClaimByReference(ctx context.Context, reference, email string) (*models.Claim, error) {
	args := m.Called(ctx, reference, email)
	if v := args.Get(0); v != nil {
		return v.(*models.Claim), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListClaims(ctx context.Context, filter storage.ClaimFilter) ([]models.Claim, int64, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]models.Claim), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockStorage) UpdateClaimStatus(ctx context.Context, id string, status models.ClaimStatus) (*models.Claim, error) {
	args := m.Called(ctx, id, status)
	if v := args.Get(0); v != nil {
		return v.(*models.Claim), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) AddClaimComment(ctx context.Context, comment *models.ClaimComment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockStorage) ListClaimComments(ctx context.Context, claimID string, includeInternal bool) ([]models.ClaimComment, error) {
	args := m.Called(ctx, claimID, includeInternal)
	if v := args.Get(0); v != nil {
		return v.([]models.ClaimComment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListBlogPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	args := m.Called(ctx, publishedOnly)
	if v := args.Get(0); v != nil {
		return v.([]models.BlogPost), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetBlogPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	args := m.Called(ctx, slug, publishedOnly)
	if v := args.Get(0); v != nil {
		return v.(*models.BlogPost), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreateBlogPost(ctx context.Context, post *models.BlogPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockStorage) UpdateBlogPost(ctx context.Context, id uint, fields storage.Fields) (*models.BlogPost, error) {
	args := m.Called(ctx, id, fields)
	if v := args.Get(0); v != nil {
		return v.(*models.BlogPost), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) DeleteBlogPost(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStorage) ListPages(ctx context.Context, publishedOnly bool) ([]models.PageContent, error) {
	args := m.Called(ctx, publishedOnly)
	if v := args.Get(0); v != nil {
		return v.([]models.PageContent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetPageBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.PageContent, error) {
	args := m.Called(ctx, slug, publishedOnly)
	if v := args.Get(0); v != nil {
		return v.(*models.PageContent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreatePage(ctx context.Context, page *models.PageContent) error {
	return m.Called(ctx, page).Error(0)
}

func (m *MockStorage) UpdatePage(ctx context.Context, id uint, fields storage.Fields) (*models.PageContent, error) {
	args := m.Called(ctx, id, fields)
	if v := args.Get(0); v != nil {
		return v.(*models.PageContent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) DeletePage(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStorage) ListPartners(ctx context.Context, activeOnly bool) ([]models.Partner, error) {
	args := m.Called(ctx, activeOnly)
	if v := args.Get(0); v != nil {
		return v.([]models.Partner), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreatePartner(ctx context.Context, partner *models.Partner) error {
	return m.Called(ctx, partner).Error(0)
}

func (m *MockStorage) UpdatePartner(ctx context.Context, id uint, fields storage.Fields) (*models.Partner, error) {
	args := m.Called(ctx, id, fields)
	if v := args.Get(0); v != nil {
		return v.(*models.Partner), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) DeletePartner(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStorage) ListPressReleases(ctx context.Context, publishedOnly bool) ([]models.PressRelease, error) {
	args := m.Called(ctx, publishedOnly)
	if v := args.Get(0); v != nil {
		return v.([]models.PressRelease), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetPressReleaseBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.PressRelease, error) {
	args := m.Called(ctx, slug, publishedOnly)
	if v := args.Get(0); v != nil {
		return v.(*models.PressRelease), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreatePressRelease(ctx context.Context, release *models.PressRelease) error {
	return m.Called(ctx, release).Error(0)
}

func (m *MockStorage) UpdatePressRelease(ctx context.Context, id uint, fields storage.Fields) (*models.PressRelease, error) {
	args := m.Called(ctx, id, fields)
	if v := args.Get(0); v != nil {
		return v.(*models.PressRelease), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) DeletePressRelease(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStorage) ListTeamMembers(ctx context.Context, activeOnly bool) ([]models.TeamMember, error) {
	args := m.Called(ctx, activeOnly)
	if v := args.Get(0); v != nil {
		return v.([]models.TeamMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreateTeamMember(ctx context.Context, member *models.TeamMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockStorage) UpdateTeamMember(ctx context.Context, id uint, fields storage.Fields) (*models.TeamMember, error) {
	args := m.Called(ctx, id, fields)
	if v := args.Get(0); v != nil {
		return v.(*models.TeamMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) DeleteTeamMember(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStorage) CreateChatSession(ctx context.Context, session *models.ChatSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockStorage) GetChatSession(ctx context.Context, id string) (*models.ChatSession, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.ChatSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListChatSessions(ctx context.Context, page, limit int) ([]models.ChatSession, int64, error) {
	args := m.Called(ctx, page, limit)
	if v := args.Get(0); v != nil {
		return v.([]models.ChatSession), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockStorage) AppendChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockStorage) RecentChatMessages(ctx context.Context, sessionID string, n int) ([]models.ChatMessage, error) {
	args := m.Called(ctx, sessionID, n)
	if v := args.Get(0); v != nil {
		return v.([]models.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) NearestKnowledge(ctx context.Context, embedding []float32, k int) ([]models.KnowledgeMatch, error) {
	args := m.Called(ctx, embedding, k)
	if v := args.Get(0); v != nil {
		return v.([]models.KnowledgeMatch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreateKnowledge(ctx context.Context, kb *models.KnowledgeBase) error {
	return m.Called(ctx, kb).Error(0)
}

func (m *MockStorage) CountKnowledge(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) SearchAirports(ctx context.Context, q string, limit int) ([]models.Airport, error) {
	args := m.Called(ctx, q, limit)
	if v := args.Get(0); v != nil {
		return v.([]models.Airport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetAirportByIATA(ctx context.Context, code string) (*models.Airport, error) {
	args := m.Called(ctx, code)
	if v := args.Get(0); v != nil {
		return v.(*models.Airport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListAirports(ctx context.Context) ([]models.Airport, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.Airport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) UpsertAirport(ctx context.Context, airport *models.Airport) error {
	return m.Called(ctx, airport).Error(0)
}

func (m *MockStorage) GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*models.AdminUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreateAdmin(ctx context.Context, admin *models.AdminUser) error {
	return m.Called(ctx, admin).Error(0)
}

func (m *MockStorage) CacheGet(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Bool(1), args.Error(2)
	}
	return nil, false, args.Error(2)
}

func (m *MockStorage) CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockStorage) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

type MockReplier struct {
	mock.Mock
}

func (m *MockReplier) Reply(ctx context.Context, req assistant.Request) (*assistant.Reply, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*assistant.Reply), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, q flights.Query) (*flights.SearchResult, error) {
	args := m.Called(ctx, q)
	if v := args.Get(0); v != nil {
		return v.(*flights.SearchResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAirports struct {
	mock.Mock
}

func (m *MockAirports) Search(ctx context.Context, q string, limit int) ([]models.Airport, error) {
	args := m.Called(ctx, q, limit)
	if v := args.Get(0); v != nil {
		return v.([]models.Airport), args.Error(1)
	}
	return nil, args.Error(1)
}
