package main

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yukikurage/taskboard-api/internal/config"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/handlers"
	"github.com/yukikurage/taskboard-api/internal/live"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/services"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	if err := database.Migrate(db); err != nil {
		return err
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return err
	}

	verifier, err := services.NewIdentityTokenVerifier(services.IdentityConfig{
		ClientID:     cfg.IdentityClientID,
		Issuer:       cfg.IdentityIssuer,
		PublicKeyPEM: cfg.IdentityPublicKey,
		Secret:       cfg.IdentitySecret,
	})
	if err != nil {
		return err
	}
	if verifier == nil {
		log.Info().Msg("Federated sign-in disabled: no identity key configured")
	}

	// The generator stays a nil interface when no key is configured.
	var generator services.TaskDraftGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	}

	hub := live.NewHub()
	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(repository.NewTaskRepository(db), userRepo, hub, generator)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, handlers.Services{
		Auth:     services.NewAuthService(userRepo, verifier),
		Users:    userService,
		Tasks:    taskService,
		Comments: services.NewCommentService(repository.NewCommentRepository(db), taskService, userService, hub),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("Server starting")
	if err := r.Run(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// newSessionStore uses Redis unless SESSION_STORE=cookie.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	options := sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(), // HTTPS only in production
		SameSite: http.SameSiteLaxMode,
	}

	switch cfg.SessionStore {
	case "cookie":
		store := cookie.NewStore([]byte(cfg.SessionSecret))
		store.Options(options)
		return store, nil
	case "redis", "":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		store, err := redisStore.NewStore(
			10,                        // Redis pool size
			"tcp",                     // network type
			redisAddr,                 // Redis address from config
			"",                        // password (empty = no password)
			[]byte(cfg.SessionSecret), // authentication key
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store.Options(options)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}
}
