package storage_test

import (
	"context"
	"testing"
	"time"

	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockService(t *testing.T) (*storage.Service, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return storage.NewStorageService(db, nil), mock
}

func TestGetClaim_NotFound(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(`SELECT \* FROM "claims" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference"}))

	claim, err := svc.GetClaim(context.Background(), "missing")

	assert.Nil(t, claim)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClaimByReference_Found(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(`SELECT \* FROM "claims" WHERE reference = \$1 AND lower\(email\) = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference", "email"}).
			AddRow("c-1", "FC-1A2B3C4D", "ada@example.com"))

	claim, err := svc.GetClaimByReference(context.Background(), " fc-1a2b3c4d ", "Ada@Example.com")

	require.NoError(t, err)
	assert.Equal(t, "c-1", claim.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClaims_EscapesLikeWildcards(t *testing.T) {
	svc, mock := newMockService(t)
	like := `%50\%\_off\\%`
	mock.ExpectQuery(`SELECT count\(\*\) FROM "claims" WHERE .*first_name ILIKE`).
		WithArgs(like, like, like, like, like).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "claims" WHERE .*ORDER BY created_at DESC`).
		WithArgs(like, like, like, like, like).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	claims, total, err := svc.ListClaims(context.Background(), storage.ClaimFilter{Query: ` 50%_off\ `, Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.Empty(t, claims)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAirports_EscapesLikeWildcards(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(`SELECT \* FROM "airports" WHERE iata = \$1 OR city ILIKE \$2 OR name ILIKE \$3`).
		WithArgs("_%", `\_\%%`, `\_\%%`, "_%").
		WillReturnRows(sqlmock.NewRows([]string{"iata"}))

	airports, err := svc.SearchAirports(context.Background(), "_%", 10)

	require.NoError(t, err)
	assert.Empty(t, airports)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClaimStatus_UnknownID(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectExec(`UPDATE "claims" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claim, err := svc.UpdateClaimStatus(context.Background(), "nope", models.ClaimApproved)

	assert.Nil(t, claim)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClaimStatus_ReturnsFreshRow(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectExec(`UPDATE "claims" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "claims" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("c-1", "approved"))

	claim, err := svc.UpdateClaimStatus(context.Background(), "c-1", models.ClaimApproved)

	require.NoError(t, err)
	assert.Equal(t, models.ClaimApproved, claim.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClaimComments_ExcludesInternal(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(`SELECT \* FROM "claim_comments" WHERE claim_id = \$1 AND is_internal = \$2 ORDER BY created_at ASC`).
		WithArgs("c-1", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "claim_id", "content", "is_internal"}).
			AddRow(1, "c-1", "We contacted the airline", false))

	comments, err := svc.ListClaimComments(context.Background(), "c-1", false)

	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.False(t, comments[0].IsInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBlogPost_DuplicateSlug(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(`INSERT INTO "blog_posts"`).
		WillReturnError(gorm.ErrDuplicatedKey)

	err := svc.CreateBlogPost(context.Background(), &models.BlogPost{Slug: "eu261", Title: "EU261", Status: models.ContentDraft})

	assert.ErrorIs(t, err, storage.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPageBySlug_PublishedOnly(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(`SELECT \* FROM "page_contents" WHERE .*status = .*slug = |SELECT \* FROM "page_contents" WHERE .*slug = .*status = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}))

	page, err := svc.GetPageBySlug(context.Background(), "about", true)

	assert.Nil(t, page)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePartner_UnknownID(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectExec(`UPDATE "partners" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	partner, err := svc.UpdatePartner(context.Background(), 42, storage.Fields{"name": "Acme"})

	assert.Nil(t, partner)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTeamMember(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "deleted", affected: 1, wantErr: nil},
		{name: "unknown id", affected: 0, wantErr: storage.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newMockService(t)
			mock.ExpectExec(`DELETE FROM "team_members" WHERE "team_members"."id" = \$1`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := svc.DeleteTeamMember(context.Background(), 7)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNearestKnowledge_ScansSimilarity(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(`SELECT id, content, source, 1 - \(embedding <=> \$1\) AS similarity`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "source", "similarity"}).
			AddRow(1, "Delays over three hours are eligible.", "faq", 0.82).
			AddRow(2, "Extraordinary circumstances exempt the airline.", "faq", 0.41))

	matches, err := svc.NearestKnowledge(context.Background(), make([]float32, 384), 5)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, uint(1), matches[0].ID)
	assert.InDelta(t, 0.82, matches[0].Similarity, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendChatMessage_TouchesSession(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "chat_messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(`UPDATE "chat_sessions" SET "updated_at"=NOW\(\) WHERE id = \$1`).
		WithArgs("s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	msg := &models.ChatMessage{SessionID: "s-1", Role: models.RoleUser, Content: "hello"}
	err := svc.AppendChatMessage(context.Background(), msg)

	require.NoError(t, err)
	assert.Equal(t, uint(7), msg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendChatMessage_UnknownSessionRollsBack(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "chat_messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectExec(`UPDATE "chat_sessions"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := svc.AppendChatMessage(context.Background(), &models.ChatMessage{SessionID: "ghost", Role: models.RoleUser, Content: "hi"})

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentChatMessages_ChronologicalOrder(t *testing.T) {
	svc, mock := newMockService(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "chat_messages" WHERE session_id = \$1 ORDER BY created_at DESC, id DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "role", "content", "created_at"}).
			AddRow(3, "s-1", "assistant", "third", now).
			AddRow(2, "s-1", "user", "second", now.Add(-time.Second)).
			AddRow(1, "s-1", "assistant", "first", now.Add(-2*time.Second)))

	msgs, err := svc.RecentChatMessages(context.Background(), "s-1", 10)

	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{msgs[0].Content, msgs[1].Content, msgs[2].Content})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisHelpers_WithoutRedis(t *testing.T) {
	svc, _ := newMockService(t)
	ctx := context.Background()

	val, ok, err := svc.CacheGet(ctx, "flights:x")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)

	assert.NoError(t, svc.CacheSet(ctx, "flights:x", []byte("{}"), time.Minute))

	allowed, err := svc.Allow(ctx, "chat:127.0.0.1", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
}
