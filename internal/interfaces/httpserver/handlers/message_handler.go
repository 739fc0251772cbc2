package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/domain/message"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/responses"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// MessageHandler exposes direct messages between two users.
type MessageHandler struct {
	messages message.Service
	log      zerolog.Logger
}

func NewMessageHandler(messages message.Service, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		log:      log.With().Str("handler", "message").Logger(),
	}
}

type sendMessageRequest struct {
	To      string `json:"to" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Conversation handles GET /api/messages?with=<username>&since=<ms>
// @Summary Conversation with a user
// @Description Both directions, oldest first, at most 200 messages; poll with since
// @Tags Messages
// @Produce json
// @Param with query string true "Other username"
// @Param since query int false "Only messages created after this epoch millisecond"
// @Success 200 {object} responses.MessageListResponse
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Failure 401 {object} platformerrors.HTTPErrorResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Router /api/messages [get]
func (h *MessageHandler) Conversation(c *gin.Context) {
	ctx := c.Request.Context()

	var since *int64
	if raw := c.Query("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			responses.HandleError(c, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
				"Invalid since parameter", message.ErrInvalidSinceFilter, "0a1b2c3d-4e5f-4a6b-9c7d-8e9f0a1b2c3d"), h.log)
			return
		}
		since = &parsed
	}

	messages, err := h.messages.Conversation(ctx, middlewares.UserIDFromContext(c), c.Query("with"), since)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.MessageListResponse{Messages: messages})
}

// Send handles POST /api/messages
// @Summary Send a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body sendMessageRequest true "Recipient username and content"
// @Success 200 {object} responses.SendMessageResponse
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Failure 401 {object} platformerrors.HTTPErrorResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Router /api/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var missing validator.ValidationErrors
		if errors.As(err, &missing) {
			platformerrors.WriteValidationError(c, `Missing "to" or "content"`)
			return
		}
		platformerrors.WriteValidationError(c, "Invalid request body")
		return
	}

	timestamp, err := h.messages.Send(c.Request.Context(), middlewares.UserIDFromContext(c), req.To, req.Content)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.SendMessageResponse{Success: true, Timestamp: timestamp})
}
