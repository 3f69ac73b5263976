package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"jobboard-backend/internal/auth"
	"jobboard-backend/internal/config"
	"jobboard-backend/internal/database"
	"jobboard-backend/internal/notify"
	"jobboard-backend/internal/storage"
)

// Server holds every dependency the route handlers need.
type Server struct {
	Config    *config.Config
	DB        *database.DBinstanceStruct
	Logger    *zap.Logger
	Tokens    *auth.TokenManager
	Blacklist auth.JwtBlacklistStore
	Storage   storage.Storage
	Scanner   storage.Scanner
	Notifier  *notify.Notifier
}

// NewHTTPServer declares the http.Server serving s on the configured port.
func NewHTTPServer(s *Server) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Config.API.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
