package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/domain/auth"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/responses"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

const (
	stateCookie       = "oauth_state"
	stateCookieMaxAge = 600
)

// CookieConfig controls the attributes of the cookies set by the login flow.
type CookieConfig struct {
	Secure     bool
	SessionTTL time.Duration
}

// AuthHandler serves the GitHub login, callback and logout redirects.
type AuthHandler struct {
	auth    auth.Service
	cookies CookieConfig
	log     zerolog.Logger
}

func NewAuthHandler(service auth.Service, cookies CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:    service,
		cookies: cookies,
		log:     log.With().Str("handler", "auth").Logger(),
	}
}

// Login handles GET /auth/github
// @Summary Start GitHub login
// @Tags Authentication
// @Success 302
// @Router /auth/github [get]
func (h *AuthHandler) Login(c *gin.Context) {
	redirect := h.auth.BeginLogin(requestOrigin(c))
	h.setCookie(c, stateCookie, redirect.State, stateCookieMaxAge)
	c.Redirect(http.StatusFound, redirect.URL)
}

// Callback handles GET /auth/github/callback
// @Summary Complete GitHub login
// @Tags Authentication
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by /auth/github"
// @Success 302
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Router /auth/github/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	storedState, _ := c.Cookie(stateCookie)
	h.setCookie(c, stateCookie, "", -1)

	if storedState == "" || c.Query("state") != storedState {
		platformerrors.WriteValidationError(c, "Invalid state parameter")
		return
	}

	session, err := h.auth.CompleteLogin(c.Request.Context(), c.Query("code"), requestOrigin(c))
	if err != nil {
		responses.HandleErrorWithStatus(c, err, platformerrors.ErrorTypeExternal, http.StatusBadRequest, h.log)
		return
	}

	h.setCookie(c, middlewares.SessionCookie, session.Token, int(h.cookies.SessionTTL.Seconds()))
	c.Redirect(http.StatusFound, "/")
}

// Logout handles GET /auth/logout
// @Summary Clear the session
// @Tags Authentication
// @Success 302
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, middlewares.SessionCookie, "", -1)
	c.Redirect(http.StatusFound, "/")
}

// setCookie writes an HttpOnly SameSite=Lax cookie on /. A negative maxAge
// expires the cookie immediately.
func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   h.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}
