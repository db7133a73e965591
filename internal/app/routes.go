package app

import (
	"jotbot/internal/ai"
	"jotbot/internal/auth"
	"jotbot/internal/cache"
	"jotbot/internal/config"
	"jotbot/internal/handlers"
	"jotbot/internal/repo"
	"jotbot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, log *zap.SugaredLogger, classifier *ai.Classifier, scorer *ai.Scorer) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	sessionStore := auth.NewStore(rdb, cfg.Auth.SessionTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)
	registerAuthRoutes(api, authHandler)

	taskRepo := repo.NewPGTaskRepo(db)
	ideaRepo := repo.NewPGIdeaRepo(db)
	noteRepo := repo.NewPGNoteRepo(db)
	historyRepo := repo.NewPGHistoryRepo(db)
	views := cache.NewViewCache(rdb, cfg.Redis.DefaultTTL.Duration())

	captureSvc := service.NewCaptureService(classifier, scorer, taskRepo, ideaRepo, noteRepo, historyRepo, views, log, cfg.History.Keep)
	taskSvc := service.NewTaskService(taskRepo, views, log)
	reviewSvc := service.NewReviewService(taskRepo, ideaRepo, noteRepo, historyRepo, views, log)

	captureHandler := handlers.NewCaptureHandler(captureSvc, userSvc)
	taskHandler := handlers.NewTaskHandler(taskSvc)
	reviewHandler := handlers.NewReviewHandler(reviewSvc)

	protected := api.Group("", auth.RequireSession(sessionStore))
	registerCaptureRoutes(protected, captureHandler)
	registerTaskRoutes(protected, taskHandler)
	registerReviewRoutes(protected, reviewHandler)

	// Chat gateways authenticate users upstream and call in with the shared
	// token, addressing users by id.
	internal := r.Group("/internal/v1", auth.RequireInternalToken(cfg.Auth.InternalToken))
	internal.POST("/users/:user_id/captures", captureHandler.InternalCapture)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "jotbot API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
}

func registerCaptureRoutes(api *gin.RouterGroup, h *handlers.CaptureHandler) {
	api.POST("/captures", h.Capture)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks/top", h.Top)
	api.GET("/tasks/agenda", h.Agenda)
	api.POST("/tasks/:id/status", h.SetStatus)
	api.POST("/tasks/:id/snooze", h.Snooze)
}

func registerReviewRoutes(api *gin.RouterGroup, h *handlers.ReviewHandler) {
	api.GET("/tasks", h.ListTasks)
	api.DELETE("/tasks", h.DeleteTasks)
	api.GET("/ideas", h.ListIdeas)
	api.DELETE("/ideas", h.DeleteIdeas)
	api.GET("/notes", h.ListNotes)
	api.DELETE("/notes", h.DeleteNotes)
	api.GET("/search", h.Search)
	api.GET("/history", h.History)
}
