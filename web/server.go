package web

import (
	"context"
	"net/http"

	"inkchat/backend"
	"inkchat/config"
	"inkchat/session"
	"inkchat/web/format"
	"inkchat/web/handlers"
	"inkchat/web/middleware"
	"inkchat/web/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router   *gin.Engine
	sessions *session.Store
	logger   *zap.Logger
	config   *config.Config
}

func NewServer(cfg *config.Config, logger *zap.Logger, sessions *session.Store, client *backend.Client) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		// Add logger to context
		c.Set("logger", logger)
		c.Next()
	})
	router.Use(middleware.SessionID())

	renderer, err := format.NewRenderer(cfg.RenderCacheSize)
	if err != nil {
		return nil, err
	}

	server := &Server{
		router:   router,
		sessions: sessions,
		logger:   logger,
		config:   cfg,
	}

	server.setupRoutes(cfg, client, renderer)
	return server, nil
}

func (s *Server) setupRoutes(cfg *config.Config, client *backend.Client, renderer *format.Renderer) {
	s.router.LoadHTMLGlob("web/templates/*.tmpl")
	s.router.Static("/static", "./web/static")

	uploadService := services.NewUploadService(client, cfg.MaxUploadBytes, s.logger)
	chatService := services.NewChatService(client, s.logger)

	pageHandler := handlers.NewPageHandler(renderer, s.logger)
	uploadHandler := handlers.NewUploadHandler(uploadService, s.logger)
	chatHandler := handlers.NewChatHandler(chatService, renderer, s.logger)
	resetHandler := handlers.NewResetHandler(s.sessions, client, s.logger)

	s.router.GET("/", pageHandler.Landing)
	s.router.GET("/health", pageHandler.Health)

	// The guard runs once per view request: upload is reachable only with
	// no active document, chat only with one.
	s.router.GET("/upload", middleware.RequireNoDocument(s.sessions), pageHandler.UploadPage)
	s.router.POST("/upload", middleware.RequireNoDocument(s.sessions), uploadHandler.Submit)
	s.router.GET("/chat", middleware.RequireDocument(s.sessions), pageHandler.ChatPage)
	s.router.POST("/chat/ask", middleware.RequireDocument(s.sessions), chatHandler.Ask)
	s.router.POST("/reset", resetHandler.Reset)
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
