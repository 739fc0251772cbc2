// Package user provides the user directory: identity records created from GitHub logins.
package user

import (
	"context"
	"errors"
)

// User models a person who signed in through the external identity provider.
type User struct {
	ID          string
	Username    string
	AvatarURL   *string
	AccessToken *string
	DisplayName *string
	IsPublic    bool
	CreatedAt   int64 // epoch seconds, set once on first insert
}

// ProviderUser is the profile returned by the identity provider.
type ProviderUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// ProfileUpdate is a partial update. DisplayName is written only when
// SetDisplayName is true, and a nil DisplayName then clears it.
// A nil IsPublic is left untouched.
type ProfileUpdate struct {
	SetDisplayName bool
	DisplayName    *string
	IsPublic       *bool
}

// Empty reports whether no field was supplied.
func (p ProfileUpdate) Empty() bool {
	return !p.SetDisplayName && p.IsPublic == nil
}

// Repository defines storage operations for users.
// Finders return (nil, nil) when no row matches.
type Repository interface {
	Upsert(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ListPublic(ctx context.Context) ([]*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
}

var (
	// ErrInvalidIdentity indicates the provider profile lacks an id or login.
	ErrInvalidIdentity = errors.New("invalid identity: provider id and login are required")
	// ErrNoFields indicates a profile update without any field to change.
	ErrNoFields = errors.New("no fields to update")
	// ErrUnauthenticated indicates the caller has no session.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrNotFound indicates the user does not exist.
	ErrNotFound = errors.New("user not found")
)
