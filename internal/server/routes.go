// Package server mounts the middleware chain and every route handler.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobboard-backend/internal/auth"
	"jobboard-backend/internal/controller/application"
	"jobboard-backend/internal/controller/file"
	"jobboard-backend/internal/controller/job"
	"jobboard-backend/internal/metrics"
	"jobboard-backend/internal/middleware"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"

	// Init swagger doc
	_ "jobboard-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes builds the gin engine with every route bound to s.
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()

	r.Use(
		middleware.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.RequestLogger(s.Logger),
		metrics.GinMiddleware(),
		cors.New(corsConfig(s.Config.API.Origins())),
		middleware.SafeHeader(),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Message: "Route not found"})
	})

	lAuth := auth.NewLocalAuthHandler(s.DB, s.Tokens, s.Logger)
	logout := auth.NewLogoutController(s.Blacklist, s.Logger)
	jobs := job.NewJobController(s.DB, s.Logger)
	applications := application.NewApplicationController(s.DB, s.Notifier, s.Logger)
	files := file.NewFileController(s.Storage, s.Logger)

	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/uploads/*filepath", files.GetFile)

	api := r.Group("/api")
	{
		authRoute := api.Group("/auth")
		{
			limited := authRoute.Group("", middleware.RateLimiterMiddleware(uint(s.Config.API.RateLimitRPS)))
			limited.POST("register", lAuth.RegisterHandler)
			limited.POST("login", lAuth.LoginHandler)

			authRoute.POST("logout",
				middleware.RequireAuth(s.DB, s.Tokens),
				middleware.JwtBlacklistCheck(s.Blacklist),
				logout.LogoutHandler)
		}

		needAuth := api.Group("")
		needAuth.Use(middleware.RequireAuth(s.DB, s.Tokens), middleware.JwtBlacklistCheck(s.Blacklist))
		{
			jobRoute := needAuth.Group("/jobs")
			{
				jobRoute.GET("", jobs.ListJobsHandler)

				employer := jobRoute.Group("", middleware.CheckRole(model.RoleEmployer))
				employer.POST("", jobs.CreateJobHandler)
				employer.GET("employer/jobs", jobs.ListEmployerJobsHandler)
				employer.PUT(":id", jobs.UpdateJobHandler)
				employer.DELETE(":id", jobs.DeleteJobHandler)
			}

			applicationRoute := needAuth.Group("/applications")
			{
				applicationRoute.POST(":id/apply",
					middleware.SizeLimit(s.Config.Upload.MaxBytes),
					middleware.ResumeUpload(s.Storage, s.Scanner),
					applications.ApplyHandler)
				applicationRoute.GET(":id/applications", applications.ListApplicationsHandler)
				applicationRoute.PUT(":id/shortlist", applications.ShortlistHandler)
				applicationRoute.PUT(":id/reject", applications.RejectHandler)
			}
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", middleware.CorrelationIDHeader},
		ExposeHeaders:    []string{middleware.CorrelationIDHeader},
		AllowCredentials: true,
	}
	if len(origins) == 0 {
		// cors.New panics on an empty allow-list
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
