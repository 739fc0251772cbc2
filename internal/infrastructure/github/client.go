// Package github talks to GitHub: the OAuth web flow, the authenticated user
// profile and issue creation.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"github.com/slopify/slopify-api/internal/domain/apprequest"
	"github.com/slopify/slopify-api/internal/domain/auth"
	"github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/infrastructure/metrics"
)

const userAgent = "Slopify"

// Config describes the OAuth app and the API base the client talks to.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	APIURL       string
	IssueOwner   string
	IssueRepo    string
	Timeout      time.Duration
}

// Client implements the login provider and the issue tracker against GitHub.
type Client struct {
	oauth      oauth2.Config
	http       *http.Client
	api        *resty.Client
	issueOwner string
	issueRepo  string
}

var (
	_ auth.Provider           = (*Client)(nil)
	_ apprequest.IssueTracker = (*Client)(nil)
)

// NewClient builds a GitHub client. Requests are not retried.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	api := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.APIURL, "/")).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/vnd.github+json")

	return &Client{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		http:       &http.Client{Timeout: timeout},
		api:        api,
		issueOwner: cfg.IssueOwner,
		issueRepo:  cfg.IssueRepo,
	}
}

// AuthCodeURL returns the authorize URL the browser is redirected to.
func (c *Client) AuthCodeURL(redirectURI, state string, scopes []string) string {
	conf := c.oauth
	conf.RedirectURL = redirectURI
	conf.Scopes = scopes
	return conf.AuthCodeURL(state)
}

// CompleteLogin exchanges the code for a token and loads the profile it belongs to.
func (c *Client) CompleteLogin(ctx context.Context, code, redirectURI string) (*auth.LoginResult, error) {
	token, err := c.exchange(ctx, code, redirectURI)
	if err != nil {
		return nil, err
	}

	profile, err := c.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	return &auth.LoginResult{User: *profile, AccessToken: token}, nil
}

func (c *Client) exchange(ctx context.Context, code, redirectURI string) (string, error) {
	conf := c.oauth
	conf.RedirectURL = redirectURI

	start := time.Now()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	token, err := conf.Exchange(ctx, code)
	record("token", err == nil && token.AccessToken != "", start)
	if err != nil {
		return "", fmt.Errorf("%w: %v", auth.ErrAuthExchange, err)
	}
	if token.AccessToken == "" {
		return "", auth.ErrAuthExchange
	}
	return token.AccessToken, nil
}

func (c *Client) fetchUser(ctx context.Context, token string) (*user.ProviderUser, error) {
	var profile user.ProviderUser
	start := time.Now()
	resp, err := c.api.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&profile).
		Get("/user")
	record("user", err == nil && !resp.IsError(), start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrProfileFetch, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s", auth.ErrProfileFetch, resp.StatusCode(), resp.String())
	}
	return &profile, nil
}

type createdIssue struct {
	HTMLURL string `json:"html_url"`
	Number  int    `json:"number"`
}

// CreateIssue opens an issue on the configured repository using token.
// Non-2xx answers are returned as *apprequest.UpstreamError carrying the body verbatim.
func (c *Client) CreateIssue(ctx context.Context, token string, issue apprequest.Issue) (*apprequest.CreatedIssue, error) {
	var result createdIssue
	start := time.Now()
	resp, err := c.api.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetPathParams(map[string]string{
			"owner": c.issueOwner,
			"repo":  c.issueRepo,
		}).
		SetBody(issue).
		SetResult(&result).
		Post("/repos/{owner}/{repo}/issues")
	record("issue", err == nil && !resp.IsError(), start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apprequest.ErrIssueCreate, err)
	}
	if resp.IsError() {
		return nil, &apprequest.UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return &apprequest.CreatedIssue{URL: result.HTMLURL, Number: result.Number}, nil
}

func record(operation string, ok bool, start time.Time) {
	status := "success"
	if !ok {
		status = "error"
	}
	metrics.RecordGitHubRequest(operation, status, time.Since(start).Seconds())
}
