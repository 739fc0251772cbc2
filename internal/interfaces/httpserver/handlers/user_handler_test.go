package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/handlers"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

func setupUserRouter(svc *MockUserService) http.Handler {
	h := handlers.NewUserHandler(svc, zerolog.Nop())
	r := newTestRouter()
	r.GET("/api/me", h.Me)
	authed := r.Group("/api", middlewares.RequireSession())
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.GET("/users", h.ListUsers)
	return r
}

func octo() *user.User {
	return &user.User{ID: "1", Username: "octo", AvatarURL: ptr("https://a/1"), AccessToken: ptr("gho_secret"), DisplayName: ptr("Octo"), IsPublic: true}
}

func TestMe(t *testing.T) {
	svc := &MockUserService{GetByIDFunc: func(_ context.Context, id string) (*user.User, error) {
		if id == "1" {
			return octo(), nil
		}
		return nil, nil
	}}
	r := setupUserRouter(svc)

	w := do(r, http.MethodGet, "/api/me", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/me", "1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":{"id":"1","username":"octo","avatarUrl":"https://a/1"}}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "gho_secret")

	w = do(r, http.MethodGet, "/api/me", "99", "")
	assert.JSONEq(t, `{"user":null}`, w.Body.String())
}

func TestGetProfile(t *testing.T) {
	svc := &MockUserService{GetByIDFunc: func(_ context.Context, id string) (*user.User, error) {
		if id == "1" {
			return octo(), nil
		}
		return nil, nil
	}}
	r := setupUserRouter(svc)

	w := do(r, http.MethodGet, "/api/profile", "1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"1","username":"octo","avatarUrl":"https://a/1","displayName":"Octo","isPublic":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/profile", "99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["error"])

	w = do(r, http.MethodGet, "/api/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authenticated", decode(t, w)["error"])
}

func TestUpdateProfile(t *testing.T) {
	var got user.ProfileUpdate
	var gotID string
	svc := &MockUserService{UpdateProfileFunc: func(ctx context.Context, id string, update user.ProfileUpdate) error {
		if update.Empty() {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "No fields to update", user.ErrNoFields, "")
		}
		gotID, got = id, update
		return nil
	}}
	r := setupUserRouter(svc)

	w := do(r, http.MethodPut, "/api/profile", "1", `{"isPublic":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, "1", gotID)
	require.NotNil(t, got.IsPublic)
	assert.False(t, *got.IsPublic)
	assert.False(t, got.SetDisplayName)
	assert.Nil(t, got.DisplayName)

	w = do(r, http.MethodPut, "/api/profile", "1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No fields to update", decode(t, w)["error"])

	w = do(r, http.MethodPut, "/api/profile", "1", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/api/profile", "1", `{"displayName":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode(t, w)["error"])
}

func TestUpdateProfile_DisplayName(t *testing.T) {
	var got user.ProfileUpdate
	svc := &MockUserService{UpdateProfileFunc: func(ctx context.Context, id string, update user.ProfileUpdate) error {
		if update.Empty() {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "No fields to update", user.ErrNoFields, "")
		}
		got = update
		return nil
	}}
	r := setupUserRouter(svc)

	w := do(r, http.MethodPut, "/api/profile", "1", `{"displayName":"Al"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, got.SetDisplayName)
	require.NotNil(t, got.DisplayName)
	assert.Equal(t, "Al", *got.DisplayName)
	assert.Nil(t, got.IsPublic)

	w = do(r, http.MethodPut, "/api/profile", "1", `{"displayName":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, got.SetDisplayName)
	assert.Nil(t, got.DisplayName)

	w = do(r, http.MethodPut, "/api/profile", "1", `{"isPublic":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, got.SetDisplayName)
	require.NotNil(t, got.IsPublic)
	assert.False(t, *got.IsPublic)
}

func TestListUsers(t *testing.T) {
	svc := &MockUserService{
		GetByIDFunc: func(_ context.Context, id string) (*user.User, error) {
			if id == "1" {
				return octo(), nil
			}
			return nil, nil
		},
		ListPublicFunc: func(context.Context) ([]*user.User, error) {
			return []*user.User{octo()}, nil
		},
	}
	r := setupUserRouter(svc)

	w := do(r, http.MethodGet, "/api/users", "1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"users":[{"id":"1","username":"octo","avatarUrl":"https://a/1","displayName":"Octo"}]}`, w.Body.String())

	// a well-signed session for a user that no longer exists
	w = do(r, http.MethodGet, "/api/users", "99", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode(t, w)["error"])
}
