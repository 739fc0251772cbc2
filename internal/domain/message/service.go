package message

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// Service exposes sending and poll-based retrieval of direct messages.
type Service interface {
	Send(ctx context.Context, fromUserID, toUsername, content string) (int64, error)
	Conversation(ctx context.Context, userID, otherUsername string, since *int64) ([]*Message, error)
}

type service struct {
	repo  Repository
	users UserFinder
	log   zerolog.Logger
	now   func() time.Time
}

// NewService wires the messaging service.
func NewService(repo Repository, users UserFinder, log zerolog.Logger) Service {
	return &service{
		repo:  repo,
		users: users,
		log:   log.With().Str("component", "message-service").Logger(),
		now:   time.Now,
	}
}

// Send validates and appends a message, returning its server-assigned timestamp.
func (s *service) Send(ctx context.Context, fromUserID, toUsername, content string) (int64, error) {
	if fromUserID == "" {
		return 0, newError(ctx, platformerrors.ErrorTypeUnauthorized, "Not authenticated", ErrUnauthenticated, "3a7d1e5b-8c2f-4f60-9b14-6e0d2c8a7f31")
	}
	if toUsername == "" || content == "" {
		return 0, newError(ctx, platformerrors.ErrorTypeValidation, `Missing "to" or "content"`, ErrMissingFields, "e2b8c4d1-7a3f-4e95-8c06-1b9d4f2e7a53")
	}

	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > MaxContentLength {
		return 0, newError(ctx, platformerrors.ErrorTypeValidation, "Invalid message content", ErrInvalidContent, "5f1a9d3c-2e7b-4c48-a0d6-8b3e1f7c9a25")
	}

	recipient, err := s.users.GetByUsername(ctx, toUsername)
	if err != nil {
		return 0, err
	}
	if recipient == nil {
		return 0, newError(ctx, platformerrors.ErrorTypeNotFound, "Recipient not found", ErrRecipientNotFound, "b7e3a1f9-4c8d-4d2e-9f05-3a6c8e1b4d72")
	}
	if recipient.ID == fromUserID {
		return 0, newError(ctx, platformerrors.ErrorTypeValidation, "Cannot message yourself", ErrSelfMessage, "1d6c8f2a-9b4e-4a7d-8e31-5c2f9a7b3e60")
	}

	msg := &Message{
		FromUserID: fromUserID,
		ToUserID:   recipient.ID,
		Content:    content,
		CreatedAt:  s.now().UnixMilli(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return 0, err
	}

	s.log.Debug().
		Str("from_user_id", fromUserID).
		Str("to_user_id", recipient.ID).
		Int64("created_at", msg.CreatedAt).
		Msg("message stored")
	return msg.CreatedAt, nil
}

// Conversation returns at most ConversationLimit messages; callers page forward with since.
func (s *service) Conversation(ctx context.Context, userID, otherUsername string, since *int64) ([]*Message, error) {
	if userID == "" {
		return nil, newError(ctx, platformerrors.ErrorTypeUnauthorized, "Not authenticated", ErrUnauthenticated, "9c4e2b7a-1d5f-4a83-b6e0-2f8d7c3a5e14")
	}
	if otherUsername == "" {
		return nil, newError(ctx, platformerrors.ErrorTypeValidation, `Missing "with" parameter`, ErrMissingPeer, "8a2f5c7e-3d1b-4e96-b4a8-7f0e2d5c1b39")
	}

	peer, err := s.users.GetByUsername(ctx, otherUsername)
	if err != nil {
		return nil, err
	}
	if peer == nil {
		return nil, newError(ctx, platformerrors.ErrorTypeNotFound, "User not found", ErrPeerNotFound, "4e9b1d7c-6a2f-4b53-8d07-9c1e3a6f2b84")
	}

	messages, err := s.repo.ListConversation(ctx, ConversationQuery{
		UserID:  userID,
		OtherID: peer.ID,
		Since:   since,
		Limit:   ConversationLimit,
	})
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*Message{}
	}
	return messages, nil
}

func newError(ctx context.Context, errType platformerrors.ErrorType, message string, cause error, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, errType, message, cause, code)
}
