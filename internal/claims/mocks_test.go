package claims

import (
	"context"

	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/notify"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateClaim(ctx context.Context, claim *models.Claim) error {
	return m.Called(ctx, claim).Error(0)
}

func (m *MockStore) GetClaim(ctx context.Context, id string) (*models.Claim, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Claim), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetClaimByReference(ctx context.Context, reference, email string) (*models.Claim, error) {
	args := m.Called(ctx, reference, email)
	if c := args.Get(0); c != nil {
		return c.(*models.Claim), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) UpdateClaimStatus(ctx context.Context, id string, status models.ClaimStatus) (*models.Claim, error) {
	args := m.Called(ctx, id, status)
	if c := args.Get(0); c != nil {
		return c.(*models.Claim), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) AddClaimComment(ctx context.Context, comment *models.ClaimComment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockStore) ListClaimComments(ctx context.Context, claimID string, includeInternal bool) ([]models.ClaimComment, error) {
	args := m.Called(ctx, claimID, includeInternal)
	if c := args.Get(0); c != nil {
		return c.([]models.ClaimComment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetAirportByIATA(ctx context.Context, code string) (*models.Airport, error) {
	args := m.Called(ctx, code)
	if a := args.Get(0); a != nil {
		return a.(*models.Airport), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, e notify.Email) error {
	return m.Called(ctx, e).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}
