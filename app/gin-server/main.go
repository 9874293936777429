package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/refertrack/backend/config"
	"github.com/refertrack/backend/internal/api/handlers"
	"github.com/refertrack/backend/internal/api/middleware"
	"github.com/refertrack/backend/internal/api/routes"
	"github.com/refertrack/backend/internal/logger"
	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/prompts"
	"github.com/refertrack/backend/internal/providers/ats"
	"github.com/refertrack/backend/internal/providers/llm"
	pgrepo "github.com/refertrack/backend/internal/repositories/postgres"
	"github.com/refertrack/backend/internal/services"
	"github.com/refertrack/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()
	ctx := context.Background()

	db, err := config.NewPostgres()
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := db.AutoMigrate(&models.Job{}, &models.Person{}, &models.Conversation{}); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	l.Info("PostgreSQL connected")

	promptDir := os.Getenv("PROMPTS_DIR")
	if promptDir == "" {
		promptDir = "./prompts"
	}
	lib, err := prompts.Load(promptDir)
	if err != nil {
		log.Fatalf("prompts init error: %v", err)
	}

	timeout := 60 * time.Second
	if s := os.Getenv("LLM_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	var clientOpts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(creds))
	}
	provider, err := llm.NewVertexGemini(ctx,
		os.Getenv("GOOGLE_CLOUD_PROJECT"),
		envOr("VERTEX_LOCATION", "us-central1"),
		os.Getenv("GEMINI_MODEL"),
		timeout,
		clientOpts...,
	)
	if err != nil {
		log.Fatalf("Vertex init error: %v", err)
	}
	defer provider.Close()

	// The resume pipeline is optional; without a bucket and agent the
	// improve endpoint reports UNAVAILABLE instead of failing startup.
	var files storage.Store
	if bucket := os.Getenv("RESUME_BUCKET"); bucket != "" {
		gcsStore, err := storage.NewGCSStore(ctx, bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer gcsStore.Close()
		files = gcsStore
	}
	var scorer ats.Scorer
	if agentURL := os.Getenv("ATS_AGENT_URL"); agentURL != "" {
		scorer = ats.NewHTTPAgent(agentURL, 90*time.Second)
	}

	authSvc, err := services.NewAuthService(os.Getenv("API_ACCESS_KEY"), os.Getenv("API_JWT_SECRET"))
	if err != nil {
		log.Fatalf("auth init error: %v", err)
	}

	jobSvc := services.NewJobService(pgrepo.NewJobRepo(db))
	personSvc := services.NewPersonService(pgrepo.NewPersonRepo(db))
	convoSvc := services.NewConversationService(pgrepo.NewConversationRepo(db))
	outreachSvc := services.NewOutreachService(jobSvc, personSvc, convoSvc, provider, lib, l)
	resumeSvc := services.NewResumeService(jobSvc, convoSvc, provider, lib, scorer, files, envOr("RESUME_OBJECT", "assets/resume.txt"), l)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{envOr("CORS_ORIGIN", "http://localhost:5173")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret: os.Getenv("API_JWT_SECRET"),
		Auth:      handlers.NewAuthHandler(authSvc),
		Job:       handlers.NewJobHandler(jobSvc),
		Person:    handlers.NewPersonHandler(personSvc, outreachSvc),
		Chat:      handlers.NewChatHandler(convoSvc, outreachSvc),
		Resume:    handlers.NewResumeHandler(resumeSvc),
	})

	port := envOr("PORT", "8080")
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
