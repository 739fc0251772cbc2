// Package apprequest turns user submitted app, feature and bug requests into tracker issues.
package apprequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/slopify/slopify-api/internal/domain/user"
)

// Type classifies a request.
type Type string

const (
	TypeApp     Type = "app"
	TypeFeature Type = "feature"
	TypeBug     Type = "bug"
)

const footer = "\n\n---\n*Submitted via Slopify*"

// Submission is the user supplied request.
type Submission struct {
	Title       string
	Description string
	Type        Type
	AppName     string
}

// Issue is what gets opened on the tracker.
type Issue struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreatedIssue is the tracker's answer.
type CreatedIssue struct {
	URL    string
	Number int
}

// IssueTracker opens issues with the given bearer token.
type IssueTracker interface {
	CreateIssue(ctx context.Context, token string, issue Issue) (*CreatedIssue, error)
}

// UserFinder resolves the caller; user.Service satisfies it.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrMissingFields   = errors.New("missing required fields")
	ErrInvalidType     = errors.New("invalid type")
	ErrNoAccessToken   = errors.New("no access token found")
	ErrIssueCreate     = errors.New("failed to create issue")
)

// UpstreamError carries the tracker's non-2xx response.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("issue tracker returned status %d: %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return ErrIssueCreate
}
