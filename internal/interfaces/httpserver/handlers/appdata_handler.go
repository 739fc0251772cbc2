package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/domain/appdata"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/responses"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// AppDataHandler exposes the per-user per-app key/value store.
type AppDataHandler struct {
	store appdata.Service
	log   zerolog.Logger
}

func NewAppDataHandler(store appdata.Service, log zerolog.Logger) *AppDataHandler {
	return &AppDataHandler{
		store: store,
		log:   log.With().Str("handler", "appdata").Logger(),
	}
}

// Get handles GET /api/data/:app_id/:key
// @Summary Read one key
// @Tags App Data
// @Produce json
// @Param app_id path string true "App ID"
// @Param key path string true "Key"
// @Success 200 {object} responses.ValueResponse
// @Failure 401 {object} platformerrors.HTTPErrorResponse
// @Router /api/data/{app_id}/{key} [get]
func (h *AppDataHandler) Get(c *gin.Context) {
	value, err := h.store.Get(c.Request.Context(), middlewares.UserIDFromContext(c), c.Param("app_id"), c.Param("key"))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	if value == nil {
		c.JSON(http.StatusOK, responses.ValueResponse{})
		return
	}
	c.JSON(http.StatusOK, responses.ValueResponse{Value: *value})
}

// GetAll handles GET /api/data/:app_id
// @Summary Read every key of an app
// @Tags App Data
// @Produce json
// @Param app_id path string true "App ID"
// @Success 200 {object} responses.DataResponse
// @Failure 401 {object} platformerrors.HTTPErrorResponse
// @Router /api/data/{app_id} [get]
func (h *AppDataHandler) GetAll(c *gin.Context) {
	data, err := h.store.GetAll(c.Request.Context(), middlewares.UserIDFromContext(c), c.Param("app_id"))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.DataResponse{Data: data})
}

// Set handles PUT /api/data/:app_id/:key
// @Summary Write one key
// @Description Body is {"value": <any JSON>}; null is a value, an absent field is not
// @Tags App Data
// @Accept json
// @Produce json
// @Param app_id path string true "App ID"
// @Param key path string true "Key"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Failure 401 {object} platformerrors.HTTPErrorResponse
// @Router /api/data/{app_id}/{key} [put]
func (h *AppDataHandler) Set(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		platformerrors.WriteValidationError(c, "Invalid request body")
		return
	}

	// an absent field stays nil and is rejected by the store
	value := body["value"]

	if err := h.store.Set(c.Request.Context(), middlewares.UserIDFromContext(c), c.Param("app_id"), c.Param("key"), value); err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true})
}
