package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slopify/slopify-api/internal/domain/apprequest"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/handlers"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

func setupAppRequestRouter(svc *MockAppRequestService) http.Handler {
	h := handlers.NewAppRequestHandler(svc, zerolog.Nop())
	r := newTestRouter()
	r.POST("/api/submit-request", middlewares.RequireSession(), h.Submit)
	return r
}

func TestSubmitRequest(t *testing.T) {
	var got apprequest.Submission
	svc := &MockAppRequestService{SubmitFunc: func(ctx context.Context, userID string, s apprequest.Submission) (*apprequest.CreatedIssue, error) {
		got = s
		switch s.Title {
		case "upstream":
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
				`Failed to create issue: {"message":"Bad credentials"}`, apprequest.ErrIssueCreate, "")
		case "":
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"Missing required fields", apprequest.ErrMissingFields, "")
		}
		return &apprequest.CreatedIssue{URL: "https://github.test/o/r/issues/5", Number: 5}, nil
	}}
	r := setupAppRequestRouter(svc)

	w := do(r, http.MethodPost, "/api/submit-request", "1", `{"title":"Dark mode","description":"pls","type":"feature","appName":"notes"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"issueUrl":"https://github.test/o/r/issues/5","issueNumber":5}`, w.Body.String())
	assert.Equal(t, apprequest.TypeFeature, got.Type)
	assert.Equal(t, "notes", got.AppName)

	w = do(r, http.MethodPost, "/api/submit-request", "1", `{"title":"upstream","description":"d","type":"bug"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, `Failed to create issue: {"message":"Bad credentials"}`, decode(t, w)["error"])

	w = do(r, http.MethodPost, "/api/submit-request", "1", `{"description":"d","type":"bug"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/submit-request", "", `{"title":"t","description":"d","type":"bug"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
