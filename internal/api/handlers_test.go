package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stackit/stackit-api/internal/api/shared"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/mocks"
	"github.com/stackit/stackit-api/internal/service"
)

// handlerFixture wires real services over in-memory stores, with a sqlmock
// database supplying the transaction boundaries, so handler tests exercise
// the full decode-validate-dispatch-respond path.
type handlerFixture struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	users        *mocks.MockUserStore
	communities  *mocks.MockCommunityStore
	joinRequests *mocks.MockJoinRequestStore
	invites      *mocks.MockInviteStore
	questions    *mocks.MockQuestionStore
	answers      *mocks.MockAnswerStore
	journal      *mocks.MockJournalStore

	userService *service.UserService
	memberships *service.MembershipService
	engagement  *service.EngagementService
	journalSvc  *service.JournalService
	drafts      *service.DraftService
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	// Handler tests assert on status codes, not transaction plumbing.
	sqlMock.MatchExpectationsInOrder(false)

	f := &handlerFixture{
		db:           db,
		sqlMock:      sqlMock,
		users:        mocks.NewMockUserStore(),
		communities:  mocks.NewMockCommunityStore(),
		joinRequests: mocks.NewMockJoinRequestStore(),
		invites:      mocks.NewMockInviteStore(),
		questions:    mocks.NewMockQuestionStore(),
		answers:      mocks.NewMockAnswerStore(),
		journal:      mocks.NewMockJournalStore(),
	}
	f.communities.UserSource = f.users

	logger := slog.Default()
	f.userService = service.NewUserService(f.users, &mocks.MockPasswordVerifier{}, bcrypt.MinCost, logger)
	f.memberships = service.NewMembershipService(db, f.users, f.communities, f.joinRequests, f.invites, logger)
	f.engagement = service.NewEngagementService(db, f.users, f.communities, f.questions, f.answers, f.journal, nil, logger)
	f.journalSvc = service.NewJournalService(f.users, f.journal, logger)
	f.drafts = service.NewDraftService(nil, 0, logger)
	return f
}

// allowTx lets any number of transactions begin and commit or roll back.
func (f *handlerFixture) allowTx() {
	for i := 0; i < 8; i++ {
		f.sqlMock.ExpectBegin()
	}
	for i := 0; i < 8; i++ {
		f.sqlMock.ExpectCommit()
		f.sqlMock.ExpectRollback()
	}
}

func (f *handlerFixture) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser("user-"+uuid.NewString()[:8], email, "a long enough password")
	require.NoError(t, err)
	user.HashedPassword = "a long enough password"
	user.Password = ""
	f.users.Add(user)
	return user
}

func (f *handlerFixture) seedCommunity(t *testing.T, ownerID uuid.UUID) *domain.Community {
	t.Helper()
	community, err := domain.NewCommunity("Go Learners", "", ownerID)
	require.NoError(t, err)
	f.communities.Add(community)
	f.communities.SeedMember(community.ID, ownerID)
	return community
}

// newRequest builds an authenticated request with an optional JSON body and
// chi URL parameters.
func newRequest(t *testing.T, method, target string, body any, userID uuid.UUID, params map[string]string) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
