package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"kb-backend/internal/chat"
	"kb-backend/internal/documents"
	"kb-backend/internal/llm/openai"
	"kb-backend/internal/retrieval"
	"kb-backend/internal/shared/config"
	"kb-backend/internal/shared/metrics"
	"kb-backend/internal/shared/server/middleware"
	"kb-backend/internal/shared/server/respond"
	"kb-backend/internal/shared/storage/db"
	"kb-backend/internal/shared/storage/object"
	localstore "kb-backend/internal/shared/storage/object/local"
	s3store "kb-backend/internal/shared/storage/object/s3"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	store, err := newObjectStore(cfg)
	if err != nil {
		return nil, err
	}

	var sqlDB *sql.DB
	if cfg.DatabaseURL == "" && cfg.Env == "production" {
		return nil, fmt.Errorf("DATABASE_URL is required in production")
	}
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.DefaultServerOptions())
		if err != nil {
			if cfg.Env == "production" {
				return nil, fmt.Errorf("connect database: %w", err)
			}
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				if cfg.Env == "production" {
					return nil, fmt.Errorf("run migrations: %w", err)
				}
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	llmClient, err := openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAIAPIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
		EmbedMaxChars:  cfg.EmbedMaxChars,
	})
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}

	var docRepo documents.DocumentsRepo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}
	docSvc := &documents.Service{Store: store, Repo: docRepo, Embedder: llmClient}
	docHandler := documents.NewHandler(docSvc)

	engine := &retrieval.Engine{Repo: docRepo, TopK: cfg.RetrievalTopK}
	chatSvc := &chat.Service{
		Embedder:  llmClient,
		Completer: llmClient,
		Engine:    engine,
		TopK:      cfg.RetrievalTopK,
	}
	chatHandler := chat.NewHandler(chatSvc)

	chatLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"CHAT": {Rate: 1, Burst: 10},
		},
		DefaultGroup: "CHAT",
	})

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Env))
	docHandler.RegisterRoutes(api)
	chatHandler.RegisterRoutes(api, chatLimit)

	return r, nil
}

func newObjectStore(cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}
		return store, nil
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
