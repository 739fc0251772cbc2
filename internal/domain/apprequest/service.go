package apprequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// Format builds the tracker issue for a submission.
func Format(s Submission) (Issue, error) {
	if s.Title == "" || s.Description == "" || s.Type == "" {
		return Issue{}, ErrMissingFields
	}

	appName := s.AppName
	if appName == "" {
		appName = "Not specified"
	}

	switch s.Type {
	case TypeApp:
		return Issue{
			Title: "[New App] " + s.Title,
			Body:  "## Description\n" + s.Description + footer,
		}, nil
	case TypeFeature:
		return Issue{
			Title: "[Feature] " + s.Title,
			Body:  "## App\n" + appName + "\n\n## Description\n" + s.Description + footer,
		}, nil
	case TypeBug:
		return Issue{
			Title: "[Bug] " + s.Title,
			Body:  "## App\n" + appName + "\n\n## Description\n" + s.Description + footer,
		}, nil
	default:
		return Issue{}, ErrInvalidType
	}
}

// Service submits requests on behalf of signed-in users.
type Service interface {
	Submit(ctx context.Context, userID string, submission Submission) (*CreatedIssue, error)
}

type service struct {
	tracker  IssueTracker
	users    UserFinder
	botToken string
	log      zerolog.Logger
}

// NewService wires the request submitter. botToken, when non-empty, is used for
// every issue instead of the submitting user's OAuth token.
func NewService(tracker IssueTracker, users UserFinder, botToken string, log zerolog.Logger) Service {
	return &service{
		tracker:  tracker,
		users:    users,
		botToken: botToken,
		log:      log.With().Str("component", "apprequest-service").Logger(),
	}
}

func (s *service) Submit(ctx context.Context, userID string, submission Submission) (*CreatedIssue, error) {
	if userID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"Not authenticated", ErrUnauthenticated, "6b0e3f8a-5c2d-4d71-a9e4-0f7b3c6d2a18")
	}

	token, err := s.tokenFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	issue, err := Format(submission)
	if err != nil {
		message := "Missing required fields"
		if errors.Is(err, ErrInvalidType) {
			message = "Invalid type"
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			message, err, "8d2b6c1a-0f3e-4b7a-9c5d-7e1f2a3b4c5d")
	}

	created, err := s.tracker.CreateIssue(ctx, token, issue)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("Failed to create issue: %s", upstreamText(err)), err, "b5e0c9d4-3a2f-4e6b-8c7d-9f0a1b2c3d4e")
	}

	s.log.Info().
		Str("user_id", userID).
		Str("type", string(submission.Type)).
		Int("issue_number", created.Number).
		Msg("app request submitted")
	return created, nil
}

func (s *service) tokenFor(ctx context.Context, userID string) (string, error) {
	if s.botToken != "" {
		return s.botToken, nil
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u == nil || u.AccessToken == nil || *u.AccessToken == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"No access token found", ErrNoAccessToken, "2c4e6f80-1a3b-4c5d-8e9f-0a1b2c3d4e5f")
	}
	return *u.AccessToken, nil
}

// upstreamText prefers the tracker's own response body over the wrapped chain.
func upstreamText(err error) string {
	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.Body != "" {
		return upstream.Body
	}
	return err.Error()
}
