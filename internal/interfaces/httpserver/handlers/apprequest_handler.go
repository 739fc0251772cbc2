package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/domain/apprequest"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/responses"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// AppRequestHandler turns submissions into GitHub issues.
type AppRequestHandler struct {
	requests apprequest.Service
	log      zerolog.Logger
}

func NewAppRequestHandler(requests apprequest.Service, log zerolog.Logger) *AppRequestHandler {
	return &AppRequestHandler{
		requests: requests,
		log:      log.With().Str("handler", "apprequest").Logger(),
	}
}

type submitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	AppName     string `json:"appName"`
}

// Submit handles POST /api/submit-request
// @Summary Submit an app, feature or bug request
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body submitRequest true "Request"
// @Success 200 {object} responses.SubmitRequestResponse
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Failure 401 {object} platformerrors.HTTPErrorResponse
// @Failure 500 {object} platformerrors.HTTPErrorResponse
// @Router /api/submit-request [post]
func (h *AppRequestHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "Invalid request body")
		return
	}

	created, err := h.requests.Submit(c.Request.Context(), middlewares.UserIDFromContext(c), apprequest.Submission{
		Title:       req.Title,
		Description: req.Description,
		Type:        apprequest.Type(req.Type),
		AppName:     req.AppName,
	})
	if err != nil {
		responses.HandleErrorWithStatus(c, err, platformerrors.ErrorTypeExternal, http.StatusInternalServerError, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.SubmitRequestResponse{
		Success:     true,
		IssueURL:    created.URL,
		IssueNumber: created.Number,
	})
}
