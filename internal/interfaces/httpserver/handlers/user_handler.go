package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/responses"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// UserHandler exposes the session user, the own profile and the public directory.
type UserHandler struct {
	users user.Service
	log   zerolog.Logger
}

func NewUserHandler(users user.Service, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log.With().Str("handler", "user").Logger(),
	}
}

// updateProfileRequest documents the PUT /api/profile body; the handler
// decodes fields individually so null and omitted stay distinct.
type updateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	IsPublic    *bool   `json:"isPublic"`
}

// Me handles GET /api/me
// @Summary Current user
// @Description Returns the signed-in user, or null for anonymous callers
// @Tags Users
// @Produce json
// @Success 200 {object} responses.MeResponse
// @Router /api/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID := middlewares.UserIDFromContext(c)
	if userID == "" {
		c.JSON(http.StatusOK, responses.MeResponse{})
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.MeResponse{User: responses.NewSessionUser(u)})
}

// GetProfile handles GET /api/profile
// @Summary Own profile
// @Tags Users
// @Produce json
// @Success 200 {object} responses.ProfileResponse
// @Failure 401 {object} platformerrors.HTTPErrorResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Router /api/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	u, err := h.users.GetByID(ctx, middlewares.UserIDFromContext(c))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	if u == nil {
		responses.HandleError(c, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeNotFound,
			"User not found", user.ErrNotFound, "9e0f1a2b-3c4d-4e5f-8a6b-7c8d9e0f1a2b"), h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewProfileResponse(u))
}

// UpdateProfile handles PUT /api/profile
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Param request body updateProfileRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Failure 401 {object} platformerrors.HTTPErrorResponse
// @Router /api/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		platformerrors.WriteValidationError(c, "Invalid request body")
		return
	}

	update, err := profileUpdateFromBody(body)
	if err != nil {
		platformerrors.WriteValidationError(c, "Invalid request body")
		return
	}
	if err := h.users.UpdateProfile(c.Request.Context(), middlewares.UserIDFromContext(c), update); err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true})
}

// ListUsers handles GET /api/users
// @Summary Public user directory
// @Tags Users
// @Produce json
// @Success 200 {object} responses.UserListResponse
// @Failure 401 {object} platformerrors.HTTPErrorResponse
// @Router /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	// the session user must still exist
	caller, err := h.users.GetByID(ctx, middlewares.UserIDFromContext(c))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	if caller == nil {
		platformerrors.WriteUnauthorized(c, "Unauthorized")
		return
	}

	users, err := h.users.ListPublic(ctx)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewUserListResponse(users))
}

// profileUpdateFromBody keeps omitted fields apart from explicit nulls.
// A null displayName clears it and a null isPublic hides the profile.
func profileUpdateFromBody(body map[string]json.RawMessage) (user.ProfileUpdate, error) {
	var update user.ProfileUpdate

	if raw, ok := body["displayName"]; ok {
		update.SetDisplayName = true
		if !isJSONNull(raw) {
			var name string
			if err := json.Unmarshal(raw, &name); err != nil {
				return user.ProfileUpdate{}, err
			}
			update.DisplayName = &name
		}
	}

	if raw, ok := body["isPublic"]; ok {
		isPublic := false
		if !isJSONNull(raw) {
			if err := json.Unmarshal(raw, &isPublic); err != nil {
				return user.ProfileUpdate{}, err
			}
		}
		update.IsPublic = &isPublic
	}

	return update, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
