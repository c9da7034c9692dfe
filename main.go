package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/RayaSatriatama/dicoding-genai-backend/config"
	"github.com/RayaSatriatama/dicoding-genai-backend/controlers"
	"github.com/RayaSatriatama/dicoding-genai-backend/database"
	"github.com/RayaSatriatama/dicoding-genai-backend/libs"
	"github.com/RayaSatriatama/dicoding-genai-backend/routes"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("mongo disconnect", "err", err)
		}
	}()
	slog.Info("✅ MongoDB connected")

	db := client.Database(cfg.MongoDB)

	chatStore := database.NewMongoChatStore(db)
	documentStore := database.NewMongoDocumentStore(db)
	userStore := database.NewMongoUserStore(db)

	chatService := libs.NewChatService(chatStore)
	documentService := libs.NewDocumentService(documentStore, cfg.UploadDir)
	auth := libs.NewAuth(userStore, cfg.JWTSecret)

	var generator libs.Generator
	if cfg.AgentWebhookURL != "" {
		generator = libs.NewWebhookGenerator(cfg.AgentWebhookURL, cfg.AgentStyle, cfg.AgentPlatform)
		slog.Info("using webhook generator", "url", cfg.AgentWebhookURL)
	} else {
		generator = libs.NewGeminiGenerator(cfg.GeminiAPIKey)
		slog.Info("using gemini generator", "model", cfg.Model)
	}

	userController := controlers.NewUserController(auth)
	chatController := controlers.NewChatController(chatService, generator, cfg)
	documentController := controlers.NewDocumentController(documentService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(libs.RequestLogger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.InitRoutes(router, auth, userController, chatController, documentController, cfg.UploadDir)

	group := libs.Group{
		&httpService{
			server: &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Port),
				Handler: router,
			},
		},
		libs.NewRepairSweeper(chatService, cfg.RepairInterval),
	}

	slog.Info("✅ starting server", "port", cfg.Port)
	return group.Run(ctx)
}

type httpService struct {
	server *http.Server
}

func (h *httpService) Name() string { return "http server" }

func (h *httpService) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return h.server.Shutdown(shutdownCtx)
	}
}
