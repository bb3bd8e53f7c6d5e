package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/handler"
	"taskboard/internal/metrics"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/storage"
	"taskboard/internal/wallet"
	"taskboard/internal/workflow"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "taskboard/docs"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
}

// Deps are the collaborators the HTTP routes are built from.
type Deps struct {
	DB     *gorm.DB
	Tokens *auth.TokenManager
	Files  storage.FileStore
	Log    *zap.Logger
}

func Init(cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("❌ %w", err)
	}
	log.Info("✅ Connected to database")

	gin.SetMode(cfg.GinMode)
	r := NewRouter(Deps{
		DB:     db,
		Tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
		Files:  storage.NewLocalStore(cfg.UploadDir),
		Log:    log,
	})

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Log:    log,
	}, nil
}

// NewRouter wires repositories, the workflow engine and handlers onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog(d.Log), middleware.RequestMetrics())

	// Initialize services
	userRepo := repository.NewUserRepository(d.DB)
	engine := workflow.New(d.DB, workflow.WithLogger(d.Log), workflow.WithFileRemover(d.Files))
	wallets := wallet.NewService(d.DB, d.Log)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, d.Tokens, d.Log)
	walletHandler := handler.NewWalletHandler(wallets, d.Log)
	boardHandler := handler.NewBoardHandler(engine, d.Log)
	columnHandler := handler.NewColumnHandler(engine, d.Log)
	cardHandler := handler.NewCardHandler(engine, d.Log)
	sprintHandler := handler.NewSprintHandler(engine, d.Log)
	commentHandler := handler.NewCommentHandler(engine, d.Log)
	attachmentHandler := handler.NewAttachmentHandler(engine, d.Files, d.Log)

	// Public routes
	r.GET("/health", health(d.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(d.Tokens))
	{
		// Account routes
		authorized.GET("/me", userHandler.Me)
		authorized.GET("/me/wallet", walletHandler.Get)
		authorized.POST("/me/wallet/deposit", walletHandler.Deposit)
		authorized.PUT("/me/penalty", walletHandler.SetPenalty)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.POST("/boards/:id/duplicate", boardHandler.Duplicate)
		authorized.GET("/boards/:id/statistics", boardHandler.Statistics)

		// Column routes
		authorized.POST("/columns", columnHandler.Create)
		authorized.GET("/boards/:id/columns", columnHandler.GetAll)
		authorized.GET("/columns/:id", columnHandler.GetByID)
		authorized.PUT("/columns/:id", columnHandler.Update)
		authorized.DELETE("/columns/:id", columnHandler.Delete)
		authorized.POST("/boards/:id/columns/reorder", columnHandler.ReorderColumns)

		// Card routes
		authorized.POST("/cards", cardHandler.Create)
		authorized.GET("/cards", cardHandler.GetAll)
		authorized.POST("/cards/bulk-update", cardHandler.BulkUpdate)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.POST("/cards/:id/move", cardHandler.Move)
		authorized.POST("/cards/:id/start", cardHandler.Start)
		authorized.POST("/cards/:id/complete", cardHandler.Complete)

		// Sprint routes
		authorized.POST("/sprints", sprintHandler.Create)
		authorized.GET("/boards/:id/sprints", sprintHandler.GetAll)
		authorized.GET("/sprints/:id", sprintHandler.GetByID)
		authorized.GET("/sprints/:id/cards", sprintHandler.Cards)
		authorized.PUT("/sprints/:id", sprintHandler.Update)
		authorized.DELETE("/sprints/:id", sprintHandler.Delete)
		authorized.POST("/sprints/:id/start", sprintHandler.Start)
		authorized.POST("/sprints/:id/complete", sprintHandler.Complete)

		// Comment routes
		authorized.POST("/cards/:id/comments", commentHandler.Create)
		authorized.GET("/cards/:id/comments", commentHandler.GetAll)
		authorized.PUT("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		// Attachment routes
		authorized.POST("/cards/:id/attachments", attachmentHandler.Upload)
		authorized.GET("/cards/:id/attachments", attachmentHandler.GetAll)
		authorized.DELETE("/attachments/:id", attachmentHandler.Delete)
	}
	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Info("🚀 Server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("❌ failed to listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.Log.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("❌ server forced to shutdown: %w", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	s.Log.Info("✅ Server exited properly")
	return nil
}
