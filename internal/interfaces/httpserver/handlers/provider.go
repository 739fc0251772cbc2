package handlers

import (
	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/domain/appdata"
	"github.com/slopify/slopify-api/internal/domain/apprequest"
	"github.com/slopify/slopify-api/internal/domain/auth"
	"github.com/slopify/slopify-api/internal/domain/message"
	"github.com/slopify/slopify-api/internal/domain/user"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Auth       *AuthHandler
	User       *UserHandler
	AppData    *AppDataHandler
	Message    *MessageHandler
	AppRequest *AppRequestHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	authService auth.Service,
	userService user.Service,
	appDataService appdata.Service,
	messageService message.Service,
	appRequestService apprequest.Service,
	cookies CookieConfig,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Auth:       NewAuthHandler(authService, cookies, log),
		User:       NewUserHandler(userService, log),
		AppData:    NewAppDataHandler(appDataService, log),
		Message:    NewMessageHandler(messageService, log),
		AppRequest: NewAppRequestHandler(appRequestService, log),
	}
}
