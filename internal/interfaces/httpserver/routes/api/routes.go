package api

import (
	"github.com/gin-gonic/gin"

	"github.com/slopify/slopify-api/internal/interfaces/httpserver/handlers"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
)

// Routes registers the browser facing login flow and the /api surface.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register expects the session middleware to already run on the engine.
func (r *Routes) Register(engine *gin.Engine) {
	registerAuthRoutes(engine.Group("/auth"), r.handlers.Auth)

	group := engine.Group("/api")
	// /api/me answers anonymous callers with a null user
	group.GET("/me", r.handlers.User.Me)

	authed := group.Group("", middlewares.RequireSession())
	registerUserRoutes(authed, r.handlers.User)
	registerAppDataRoutes(authed, r.handlers.AppData)
	registerMessageRoutes(authed, r.handlers.Message)
	authed.POST("/submit-request", r.handlers.AppRequest.Submit)
}

func registerAuthRoutes(group *gin.RouterGroup, h *handlers.AuthHandler) {
	group.GET("/github", h.Login)
	group.GET("/github/callback", h.Callback)
	group.GET("/logout", h.Logout)
}

func registerUserRoutes(group *gin.RouterGroup, h *handlers.UserHandler) {
	group.GET("/profile", h.GetProfile)
	group.PUT("/profile", h.UpdateProfile)
	group.GET("/users", h.ListUsers)
}

func registerAppDataRoutes(group *gin.RouterGroup, h *handlers.AppDataHandler) {
	data := group.Group("/data")
	data.GET("/:app_id", h.GetAll)
	data.GET("/:app_id/:key", h.Get)
	data.PUT("/:app_id/:key", h.Set)
}

func registerMessageRoutes(group *gin.RouterGroup, h *handlers.MessageHandler) {
	group.GET("/messages", h.Conversation)
	group.POST("/messages", h.Send)
}
