package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"thinkink-backend/internal/ai"
	"thinkink-backend/internal/config"
	"thinkink-backend/internal/database"
	"thinkink-backend/internal/extract"
	"thinkink-backend/internal/handlers"
	"thinkink-backend/internal/middleware"
	"thinkink-backend/internal/repository"
	"thinkink-backend/internal/router"
	"thinkink-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Info().Str("env", cfg.Env).Msg("starting thinkink backend")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgresql connection failed")
	}
	defer pool.Close()
	log.Info().Msg("postgresql connected")

	// ──── Step 3: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	historyRepo := repository.NewHistoryRepo(pool)

	// ──── Step 5: Initialize Generation Backend ────
	var backend ai.Backend
	var recognizer extract.Recognizer = services.UnavailableRecognizer{}

	switch cfg.AIBackend {
	case "ollama":
		backend = ai.NewOllamaBackend(cfg.OllamaBaseURL, cfg.OllamaModel, time.Duration(cfg.OllamaReadTimeout)*time.Second)
		log.Info().Str("model", cfg.OllamaModel).Str("url", cfg.OllamaBaseURL).Msg("ollama backend initialized")
	default:
		gemini, err := ai.NewGeminiBackend(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrent)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client initialization failed")
		}
		defer gemini.Close()
		backend = gemini
		recognizer = services.NewGeminiRecognizer(gemini)
		log.Info().Str("model", cfg.GeminiModel).Msg("gemini backend initialized")
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	recorder := services.NewRecorder(historyRepo, redisClient)
	translator := services.NewTranslator()

	aiTimeout := time.Duration(cfg.AITimeoutSeconds) * time.Second
	quizTimeout := time.Duration(cfg.QuizTimeoutSeconds) * time.Second
	studyService := services.NewStudyService(backend, recorder, translator, aiTimeout, quizTimeout)

	authService := services.NewAuthService(userRepo, historyRepo, jwtAuth, cfg.IdentityAPIKey)
	pdfService := services.NewPDFService(recorder)
	ocr := extract.NewOCR(cfg.TesseractBin)
	imageService := services.NewImageService(ocr, backend, recorder, aiTimeout)
	ttsService, err := services.NewTTSService(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("tts service initialization failed")
	}
	voiceService := services.NewVoiceService(recognizer, studyService, recorder, ttsService)
	researchService := services.NewResearchService(recorder)
	exportService := services.NewExportService(cfg.WkhtmltopdfBin)
	historyService := services.NewHistoryService(historyRepo)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	notesHandler := handlers.NewNotesHandler(studyService)
	quizHandler := handlers.NewQuizHandler(studyService)
	mindmapHandler := handlers.NewMindmapHandler(studyService)
	eli5Handler := handlers.NewELI5Handler(studyService)
	pdfHandler := handlers.NewPDFHandler(pdfService, cfg.UploadDir, cfg.MaxUploadMB)
	imageHandler := handlers.NewImageHandler(imageService, recorder, cfg.UploadDir, cfg.MaxUploadMB)
	voiceHandler := handlers.NewVoiceHandler(voiceService, cfg.UploadDir, cfg.MaxUploadMB)
	researchHandler := handlers.NewResearchHandler(researchService, historyService)
	exportHandler := handlers.NewExportHandler(exportService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	// 60 AI requests per user per minute, shared across features.
	userLimiter := middleware.NewUserRateLimiter(redisClient, 60, time.Minute)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		userLimiter,
		authHandler,
		notesHandler,
		quizHandler,
		mindmapHandler,
		eli5Handler,
		pdfHandler,
		imageHandler,
		voiceHandler,
		researchHandler,
		exportHandler,
		historyHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Generation requests can legitimately run for minutes.
		WriteTimeout: quizTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info().Str("port", cfg.Port).Msg("thinkink backend ready")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
