package responses

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/domain/message"
	"github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// HandleError writes err with the status mapped from its platform error type.
func HandleError(c *gin.Context, err error, log zerolog.Logger) {
	platformerrors.WriteError(c, err, log)
}

// HandleErrorWithStatus writes err with status when it is a platform error of
// errorType, and falls back to HandleError otherwise.
func HandleErrorWithStatus(c *gin.Context, err error, errorType platformerrors.ErrorType, status int, log zerolog.Logger) {
	if platformErr := platformerrors.GetPlatformError(err); platformErr != nil && platformErr.Type == errorType {
		platformerrors.WriteHTTPErrorWithStatus(c, status, platformErr, log)
		return
	}
	HandleError(c, err, log)
}

// SuccessResponse acknowledges a write.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// SessionUser is the signed-in user as shown by /api/me.
type SessionUser struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl"`
}

// MeResponse carries a null user for anonymous callers.
type MeResponse struct {
	User *SessionUser `json:"user"`
}

// ProfileResponse is the caller's own profile.
type ProfileResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	AvatarURL   *string `json:"avatarUrl"`
	DisplayName *string `json:"displayName"`
	IsPublic    bool    `json:"isPublic"`
}

// PublicUser is a directory entry visible to other signed-in users.
type PublicUser struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	AvatarURL   *string `json:"avatarUrl"`
	DisplayName *string `json:"displayName"`
}

type UserListResponse struct {
	Users []PublicUser `json:"users"`
}

type ValueResponse struct {
	Value any `json:"value"`
}

type DataResponse struct {
	Data any `json:"data"`
}

type MessageListResponse struct {
	Messages []*message.Message `json:"messages"`
}

type SendMessageResponse struct {
	Success   bool  `json:"success"`
	Timestamp int64 `json:"timestamp"`
}

type SubmitRequestResponse struct {
	Success     bool   `json:"success"`
	IssueURL    string `json:"issueUrl"`
	IssueNumber int    `json:"issueNumber"`
}

func NewSessionUser(u *user.User) *SessionUser {
	if u == nil {
		return nil
	}
	return &SessionUser{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}

func NewProfileResponse(u *user.User) ProfileResponse {
	return ProfileResponse{
		ID:          u.ID,
		Username:    u.Username,
		AvatarURL:   u.AvatarURL,
		DisplayName: u.DisplayName,
		IsPublic:    u.IsPublic,
	}
}

func NewUserListResponse(users []*user.User) UserListResponse {
	out := make([]PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, PublicUser{
			ID:          u.ID,
			Username:    u.Username,
			AvatarURL:   u.AvatarURL,
			DisplayName: u.DisplayName,
		})
	}
	return UserListResponse{Users: out}
}
