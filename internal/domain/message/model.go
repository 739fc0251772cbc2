// Package message implements the append-only two-party message log.
package message

import (
	"context"
	"errors"

	"github.com/slopify/slopify-api/internal/domain/user"
)

const (
	// MaxContentLength is the upper bound on trimmed content, in characters.
	MaxContentLength = 2000
	// ConversationLimit caps the rows returned by one conversation call.
	ConversationLimit = 200
)

// Message is immutable once created.
type Message struct {
	ID            uint64  `json:"id"`
	FromUserID    string  `json:"fromUserId"`
	FromUsername  string  `json:"fromUsername"`
	FromAvatarURL *string `json:"fromAvatarUrl"`
	ToUserID      string  `json:"toUserId"`
	ToUsername    string  `json:"toUsername"`
	Content       string  `json:"content"`
	CreatedAt     int64   `json:"createdAt"` // epoch milliseconds
}

// ConversationQuery selects the messages exchanged by two users.
type ConversationQuery struct {
	UserID  string
	OtherID string
	Since   *int64 // exclusive lower bound on CreatedAt
	Limit   int
}

// Repository persists messages.
type Repository interface {
	Create(ctx context.Context, msg *Message) error
	// ListConversation returns both directions ordered by CreatedAt, then ID, ascending.
	ListConversation(ctx context.Context, query ConversationQuery) ([]*Message, error)
}

// UserFinder resolves usernames to users; user.Service satisfies it.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrMissingFields      = errors.New(`missing "to" or "content"`)
	ErrMissingPeer        = errors.New(`missing "with" parameter`)
	ErrInvalidContent     = errors.New("invalid message content")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrSelfMessage        = errors.New("cannot message yourself")
	ErrPeerNotFound       = errors.New("user not found")
	ErrInvalidSinceFilter = errors.New("invalid since parameter")
)
