//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/config"
	"github.com/slopify/slopify-api/internal/domain/appdata"
	"github.com/slopify/slopify-api/internal/domain/apprequest"
	"github.com/slopify/slopify-api/internal/domain/auth"
	"github.com/slopify/slopify-api/internal/domain/message"
	"github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/infrastructure/github"
	"github.com/slopify/slopify-api/internal/infrastructure/logger"
	"github.com/slopify/slopify-api/internal/infrastructure/repository/appdatarepo"
	"github.com/slopify/slopify-api/internal/infrastructure/repository/messagerepo"
	"github.com/slopify/slopify-api/internal/infrastructure/repository/userrepo"
	"github.com/slopify/slopify-api/internal/infrastructure/session"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/handlers"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/middlewares"
)

var storageSet = wire.NewSet(
	newDatabaseConfig,
	newGormDB,
	newReadinessCheck,
	userrepo.NewRepository,
	wire.Bind(new(user.Repository), new(*userrepo.Repository)),
	appdatarepo.NewRepository,
	wire.Bind(new(appdata.Repository), new(*appdatarepo.Repository)),
	messagerepo.NewRepository,
	wire.Bind(new(message.Repository), new(*messagerepo.Repository)),
)

var domainSet = wire.NewSet(
	user.NewService,
	wire.Bind(new(auth.UserStore), new(user.Service)),
	wire.Bind(new(message.UserFinder), new(user.Service)),
	wire.Bind(new(apprequest.UserFinder), new(user.Service)),
	newGitHubClient,
	wire.Bind(new(auth.Provider), new(*github.Client)),
	wire.Bind(new(apprequest.IssueTracker), new(*github.Client)),
	newSessionManager,
	wire.Bind(new(auth.SessionIssuer), new(*session.Manager)),
	wire.Bind(new(middlewares.SessionResolver), new(*session.Manager)),
	newAuthOptions,
	auth.NewService,
	appdata.NewService,
	message.NewService,
	newAppRequestService,
)

// BuildApplication assembles the server with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		storageSet,
		domainSet,
		newCookieConfig,
		handlers.NewProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newSessionManager(cfg *config.Config) (*session.Manager, error) {
	return session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
}

func newAppRequestService(tracker apprequest.IssueTracker, users apprequest.UserFinder, cfg *config.Config, log zerolog.Logger) apprequest.Service {
	return apprequest.NewService(tracker, users, cfg.GitHubBotToken, log)
}
