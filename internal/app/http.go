package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/config"
	"github.com/adanyl0v/go-task-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-tracker/internal/services"
	"github.com/adanyl0v/go-task-tracker/internal/storage/postgres"
)

// newRouter mounts the v1 routes at the root behind recovery and access
// logging.
func newRouter(env string, handler v1.Handler) *gin.Engine {
	if env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(handler.HandleRecovery, handler.HandleRequestLogger)
	v1.RegisterRoutes(router, handler)
	return router
}

// MustListenAndServeHTTP serves until SIGINT or SIGTERM and then drains
// in-flight requests for at most HTTP_SHUTDOWN_TIMEOUT.
func MustListenAndServeHTTP() {
	cfg := config.Global()
	httpCfg := cfg.HTTP

	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           newRouter(cfg.Env, newV1Handler()),
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		globalLogger.Info().
			Str("addr", server.Addr).
			Msg("listening for http requests")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
		return
	case <-ctx.Done():
	}

	globalLogger.Info().Msg("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shut down http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func newV1Handler() v1.Handler {
	cfg := config.Global()

	users := postgres.NewUserRepository(globalLogger, globalPostgresPool)
	sessions := postgres.NewSessionRepository(globalLogger, globalPostgresPool)
	projects := postgres.NewProjectRepository(globalLogger, globalPostgresPool)
	tasks := postgres.NewTaskRepository(globalLogger, globalPostgresPool)
	notes := postgres.NewNoteRepository(globalLogger, globalPostgresPool)

	policy := services.NewPolicy(services.PolicyOptions{
		CreateTaskRequiresMembership: cfg.Tasks.CreateRequiresMembership,
	})

	return v1.New(globalLogger, v1.Services{
		Auth: services.NewAuthService(globalLogger, users, sessions, services.AuthServiceOptions{
			JWTIssuer:          cfg.JWT.Issuer,
			JWTSigningKey:      []byte(cfg.JWT.SigningKey),
			JWTAccessTokenTTL:  cfg.JWT.AccessTokenTTL,
			JWTRefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
		}),
		Sessions: services.NewSessionService(globalLogger, sessions),
		Users:    services.NewUserService(globalLogger, users),
		Projects: services.NewProjectService(globalLogger, policy, projects),
		Tasks:    services.NewTaskService(globalLogger, policy, projects, tasks),
		Notes:    services.NewNoteService(globalLogger, policy, projects, tasks, notes),
	})
}
