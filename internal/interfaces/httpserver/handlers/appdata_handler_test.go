package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slopify/slopify-api/internal/domain/appdata"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/handlers"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

func setupAppDataRouter(svc *MockAppDataService) http.Handler {
	h := handlers.NewAppDataHandler(svc, zerolog.Nop())
	r := newTestRouter()
	data := r.Group("/api/data", middlewares.RequireSession())
	data.GET("/:app_id", h.GetAll)
	data.GET("/:app_id/:key", h.Get)
	data.PUT("/:app_id/:key", h.Set)
	return r
}

func TestAppDataGet(t *testing.T) {
	svc := &MockAppDataService{GetFunc: func(_ context.Context, userID, appID, key string) (*appdata.Value, error) {
		switch key {
		case "json":
			v := appdata.DecodeStored(`{"n":1}`)
			return &v, nil
		case "raw":
			v := appdata.DecodeStored("plain text")
			return &v, nil
		}
		return nil, nil
	}}
	r := setupAppDataRouter(svc)

	w := do(r, http.MethodGet, "/api/data/notes/json", "1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"value":{"n":1}}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/data/notes/raw", "1", "")
	assert.JSONEq(t, `{"value":"plain text"}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/data/notes/absent", "1", "")
	assert.JSONEq(t, `{"value":null}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/data/notes/json", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAppDataGetAll(t *testing.T) {
	var gotUser, gotApp string
	svc := &MockAppDataService{GetAllFunc: func(_ context.Context, userID, appID string) (map[string]appdata.Value, error) {
		gotUser, gotApp = userID, appID
		return map[string]appdata.Value{
			"a": appdata.DecodeStored("[1,2]"),
			"b": appdata.DecodeStored("not json"),
		}, nil
	}}
	r := setupAppDataRouter(svc)

	w := do(r, http.MethodGet, "/api/data/todo", "7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"a":[1,2],"b":"not json"}}`, w.Body.String())
	assert.Equal(t, "7", gotUser)
	assert.Equal(t, "todo", gotApp)
}

func TestAppDataSet(t *testing.T) {
	var got json.RawMessage
	svc := &MockAppDataService{SetFunc: func(ctx context.Context, userID, appID, key string, value json.RawMessage) error {
		if _, err := appdata.Encode(value); err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "Missing value", err, "")
		}
		got = value
		return nil
	}}
	r := setupAppDataRouter(svc)

	w := do(r, http.MethodPut, "/api/data/notes/k", "1", `{"value":{"x":[1,2,3]}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.JSONEq(t, `{"x":[1,2,3]}`, string(got))

	// null is a value
	w = do(r, http.MethodPut, "/api/data/notes/k", "1", `{"value":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", string(got))

	w = do(r, http.MethodPut, "/api/data/notes/k", "1", `{"other":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing value", decode(t, w)["error"])

	w = do(r, http.MethodPut, "/api/data/notes/k", "1", `nope`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppDataStorageFailure(t *testing.T) {
	svc := &MockAppDataService{GetAllFunc: func(ctx context.Context, _, _ string) (map[string]appdata.Value, error) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list app data", errors.New("disk"), "")
	}}
	r := setupAppDataRouter(svc)

	w := do(r, http.MethodGet, "/api/data/notes", "1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "database_error", body["type"])
	assert.NotEmpty(t, body["request_id"])
}
