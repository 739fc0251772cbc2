package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/slopify/slopify-api/internal/domain/appdata"
	"github.com/slopify/slopify-api/internal/domain/apprequest"
	"github.com/slopify/slopify-api/internal/domain/auth"
	"github.com/slopify/slopify-api/internal/domain/message"
	"github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
)

// MockUserService is a mock implementation of user.Service.
type MockUserService struct {
	UpsertFromLoginFunc func(ctx context.Context, providerUser user.ProviderUser, accessToken string) (*user.User, error)
	GetByIDFunc         func(ctx context.Context, id string) (*user.User, error)
	GetByUsernameFunc   func(ctx context.Context, username string) (*user.User, error)
	ListPublicFunc      func(ctx context.Context) ([]*user.User, error)
	UpdateProfileFunc   func(ctx context.Context, id string, update user.ProfileUpdate) error
}

func (m *MockUserService) UpsertFromLogin(ctx context.Context, providerUser user.ProviderUser, accessToken string) (*user.User, error) {
	if m.UpsertFromLoginFunc != nil {
		return m.UpsertFromLoginFunc(ctx, providerUser, accessToken)
	}
	return nil, nil
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserService) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockUserService) ListPublic(ctx context.Context) ([]*user.User, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id string, update user.ProfileUpdate) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, update)
	}
	return nil
}

// MockAppDataService is a mock implementation of appdata.Service.
type MockAppDataService struct {
	GetFunc    func(ctx context.Context, userID, appID, key string) (*appdata.Value, error)
	GetAllFunc func(ctx context.Context, userID, appID string) (map[string]appdata.Value, error)
	SetFunc    func(ctx context.Context, userID, appID, key string, value json.RawMessage) error
}

func (m *MockAppDataService) Get(ctx context.Context, userID, appID, key string) (*appdata.Value, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, appID, key)
	}
	return nil, nil
}

func (m *MockAppDataService) GetAll(ctx context.Context, userID, appID string) (map[string]appdata.Value, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx, userID, appID)
	}
	return map[string]appdata.Value{}, nil
}

func (m *MockAppDataService) Set(ctx context.Context, userID, appID, key string, value json.RawMessage) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, userID, appID, key, value)
	}
	return nil
}

// MockMessageService is a mock implementation of message.Service.
type MockMessageService struct {
	SendFunc         func(ctx context.Context, fromUserID, toUsername, content string) (int64, error)
	ConversationFunc func(ctx context.Context, userID, otherUsername string, since *int64) ([]*message.Message, error)
}

func (m *MockMessageService) Send(ctx context.Context, fromUserID, toUsername, content string) (int64, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, fromUserID, toUsername, content)
	}
	return 0, nil
}

func (m *MockMessageService) Conversation(ctx context.Context, userID, otherUsername string, since *int64) ([]*message.Message, error) {
	if m.ConversationFunc != nil {
		return m.ConversationFunc(ctx, userID, otherUsername, since)
	}
	return []*message.Message{}, nil
}

// MockAppRequestService is a mock implementation of apprequest.Service.
type MockAppRequestService struct {
	SubmitFunc func(ctx context.Context, userID string, submission apprequest.Submission) (*apprequest.CreatedIssue, error)
}

func (m *MockAppRequestService) Submit(ctx context.Context, userID string, submission apprequest.Submission) (*apprequest.CreatedIssue, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, userID, submission)
	}
	return nil, nil
}

// MockAuthService is a mock implementation of auth.Service.
type MockAuthService struct {
	BeginLoginFunc    func(returnOrigin string) auth.LoginRedirect
	CompleteLoginFunc func(ctx context.Context, code, returnOrigin string) (*auth.Session, error)
}

func (m *MockAuthService) BeginLogin(returnOrigin string) auth.LoginRedirect {
	if m.BeginLoginFunc != nil {
		return m.BeginLoginFunc(returnOrigin)
	}
	return auth.LoginRedirect{}
}

func (m *MockAuthService) CompleteLogin(ctx context.Context, code, returnOrigin string) (*auth.Session, error) {
	if m.CompleteLoginFunc != nil {
		return m.CompleteLoginFunc(ctx, code, returnOrigin)
	}
	return nil, nil
}

// tokenResolver treats "token-<id>" cookies as sessions for <id>.
type tokenResolver struct{}

func (tokenResolver) Resolve(token string) (string, bool) {
	id, ok := strings.CutPrefix(token, "token-")
	return id, ok && id != ""
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middlewares.RequestID(), middlewares.Session(tokenResolver{}))
	return r
}

func do(r http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req.AddCookie(&http.Cookie{Name: middlewares.SessionCookie, Value: "token-" + userID})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func ptr[T any](v T) *T { return &v }
