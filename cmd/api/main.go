// Command api runs the job board HTTP server.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"jobboard-backend/internal/auth"
	"jobboard-backend/internal/config"
	"jobboard-backend/internal/database"
	"jobboard-backend/internal/logger"
	"jobboard-backend/internal/notify"
	"jobboard-backend/internal/server"
	"jobboard-backend/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	gin.SetMode(cfg.API.Mode)
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	l, err := logger.New(cfg.API.Mode, cfg.API.LogLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}

func newDatabase(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (*database.DBinstanceStruct, error) {
	db, err := database.NewDBInstance(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := db.SeedAdmin(cfg.Admin); err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return db.Close() },
	})
	return db, nil
}

func newTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.Auth.JWTSecret)
}

func newBlacklist(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (auth.JwtBlacklistStore, error) {
	store, closeStore, err := auth.NewBlacklistStore(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	if cfg.Redis.Addr == "" {
		logger.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return closeStore() },
	})
	return store, nil
}

func newStorage(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (storage.Storage, error) {
	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("resume storage ready", zap.String("driver", cfg.Upload.Driver))
	if c, ok := store.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return c.Close() },
		})
	}
	return store, nil
}

func newScanner(cfg *config.Config) storage.Scanner {
	return storage.NewScanner(cfg.Upload.ClamdAddr)
}

func newSender(cfg *config.Config, logger *zap.Logger) (notify.Sender, error) {
	return notify.NewSender(cfg.Mail, logger)
}

func newPublisher(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (notify.Publisher, error) {
	p, err := notify.NewPublisher(cfg.NATS.URL, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return p.Close() },
	})
	return p, nil
}

type serverParams struct {
	fx.In

	Config    *config.Config
	DB        *database.DBinstanceStruct
	Logger    *zap.Logger
	Tokens    *auth.TokenManager
	Blacklist auth.JwtBlacklistStore
	Storage   storage.Storage
	Scanner   storage.Scanner
	Notifier  *notify.Notifier
}

func newServer(p serverParams) *server.Server {
	return &server.Server{
		Config:    p.Config,
		DB:        p.DB,
		Logger:    p.Logger,
		Tokens:    p.Tokens,
		Blacklist: p.Blacklist,
		Storage:   p.Storage,
		Scanner:   p.Scanner,
		Notifier:  p.Notifier,
	}
}

func registerHTTPServer(srv *http.Server, logger *zap.Logger, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("http server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}

func main() {
	app := fx.New(
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l}
		}),
		fx.Provide(
			loadConfig,
			newLogger,
			newDatabase,
			newTokenManager,
			newBlacklist,
			newStorage,
			newScanner,
			newSender,
			newPublisher,
			notify.NewNotifier,
			newServer,
			server.NewHTTPServer,
		),
		fx.Invoke(registerHTTPServer),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
