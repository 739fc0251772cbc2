package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/slopify/slopify-api/internal/config"
	"github.com/slopify/slopify-api/internal/domain/appdata"
	"github.com/slopify/slopify-api/internal/domain/apprequest"
	"github.com/slopify/slopify-api/internal/domain/auth"
	"github.com/slopify/slopify-api/internal/domain/message"
	"github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/infrastructure/database"
	"github.com/slopify/slopify-api/internal/infrastructure/github"
	"github.com/slopify/slopify-api/internal/infrastructure/logger"
	"github.com/slopify/slopify-api/internal/infrastructure/observability"
	"github.com/slopify/slopify-api/internal/infrastructure/repository/appdatarepo"
	"github.com/slopify/slopify-api/internal/infrastructure/repository/messagerepo"
	"github.com/slopify/slopify-api/internal/infrastructure/repository/userrepo"
	"github.com/slopify/slopify-api/internal/infrastructure/session"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/handlers"
)

// @title Slopify API
// @version 1.0
// @description Backend for Slopify mini-apps: GitHub login, per-app storage, messaging and request submission.
// @BasePath /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := newGormDB(ctx, newDatabaseConfig(cfg), log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize database")
	}

	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize session manager")
	}

	githubClient, err := newGitHubClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize github client")
	}

	userService := user.NewService(userrepo.NewRepository(db), log)
	authService := auth.NewService(githubClient, userService, sessions, newAuthOptions(cfg), log)
	appDataService := appdata.NewService(appdatarepo.NewRepository(db), log)
	messageService := message.NewService(messagerepo.NewRepository(db), userService, log)
	appRequestService := apprequest.NewService(githubClient, userService, cfg.GitHubBotToken, log)

	handlerProvider := handlers.NewProvider(
		authService,
		userService,
		appDataService,
		messageService,
		appRequestService,
		newCookieConfig(cfg),
		log,
	)

	httpServer := httpserver.New(cfg, log, handlerProvider, sessions, newReadinessCheck(db))
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newGitHubClient(cfg *config.Config) (*github.Client, error) {
	owner, repo, err := cfg.IssueRepo()
	if err != nil {
		return nil, err
	}
	return github.NewClient(github.Config{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		AuthURL:      cfg.GitHubAuthURL,
		TokenURL:     cfg.GitHubTokenURL,
		APIURL:       cfg.GitHubAPIURL,
		IssueOwner:   owner,
		IssueRepo:    repo,
		Timeout:      cfg.GitHubHTTPTimeout,
	}), nil
}

func newAuthOptions(cfg *config.Config) auth.Options {
	return auth.Options{
		RedirectURL: cfg.GitHubRedirectURL,
		Scopes:      cfg.GitHubOAuthScopes,
	}
}

func newCookieConfig(cfg *config.Config) handlers.CookieConfig {
	return handlers.CookieConfig{
		Secure:     cfg.CookieSecure,
		SessionTTL: cfg.SessionTTL,
	}
}

func newReadinessCheck(db *gorm.DB) httpserver.ReadinessCheck {
	return func(context.Context) error {
		return database.Ping(db)
	}
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
