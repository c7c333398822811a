package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"thinkink-backend/internal/handlers"
	"thinkink-backend/internal/metrics"
	"thinkink-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	userLimiter *middleware.UserRateLimiter,
	authHandler *handlers.AuthHandler,
	notesHandler *handlers.NotesHandler,
	quizHandler *handlers.QuizHandler,
	mindmapHandler *handlers.MindmapHandler,
	eli5Handler *handlers.ELI5Handler,
	pdfHandler *handlers.PDFHandler,
	imageHandler *handlers.ImageHandler,
	voiceHandler *handlers.VoiceHandler,
	researchHandler *handlers.ResearchHandler,
	exportHandler *handlers.ExportHandler,
	historyHandler *handlers.HistoryHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))
	r.Use(metrics.Middleware)

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewIPRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/token", authHandler.ExchangeToken)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/me", authHandler.Me)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Delete("/account", authHandler.DeleteAccount)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Notes Routes ────
		r.Route("/notes", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(userLimiter.Middleware)
			r.Post("/summarize", notesHandler.Summarize)
			r.Post("/extract", notesHandler.ExtractKeyPoints)
			r.Get("/stats", notesHandler.Stats)
		})

		// ──── Quiz Routes ────
		r.Route("/quiz", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(userLimiter.Middleware)
			r.Post("/generate", quizHandler.Generate)
			r.Get("/stats", quizHandler.Stats)
		})

		// ──── Mindmap Routes ────
		r.Route("/mindmap", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(userLimiter.Middleware)
			r.Post("/create", mindmapHandler.Create)
			r.Get("/stats", mindmapHandler.Stats)
		})

		// ──── ELI5 Routes ────
		r.Route("/eli5", func(r chi.Router) {
			r.Get("/complexity-levels", eli5Handler.ComplexityLevels) // Public

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Use(userLimiter.Middleware)
				r.Post("/simplify", eli5Handler.Simplify)
				r.Get("/stats", eli5Handler.Stats)
			})
		})

		// ──── PDF Routes ────
		r.Route("/pdf", func(r chi.Router) {
			r.Get("/formats", pdfHandler.Formats) // Public

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Use(userLimiter.Middleware)
				r.Post("/extract", pdfHandler.Extract)
				r.Post("/info", pdfHandler.Info)
				r.Get("/stats", pdfHandler.Stats)
			})
		})

		// ──── Image Routes ────
		r.Route("/image", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(userLimiter.Middleware)
			r.Post("/process", imageHandler.Process)
			r.Get("/stats", imageHandler.Stats)
		})

		// ──── Voice Routes ────
		r.Route("/voice", func(r chi.Router) {
			r.Get("/formats", voiceHandler.Formats) // Public

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Use(userLimiter.Middleware)
				r.Post("/transcribe", voiceHandler.Transcribe)
				r.Post("/summarize", voiceHandler.Summarize)
				r.Post("/analyze", voiceHandler.Analyze)
				r.Post("/text-to-speech", voiceHandler.TextToSpeech)
				r.Get("/stats", voiceHandler.Stats)
			})
		})

		// ──── Research Routes ────
		r.Route("/research", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(userLimiter.Middleware)
			r.Post("/search", researchHandler.Search)
			r.Get("/history", researchHandler.History)
		})

		// ──── Export Routes ────
		r.Route("/export", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/pdf", exportHandler.ExportPDF)
		})

		// ──── History Routes ────
		r.Route("/history", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", historyHandler.List)
			r.Get("/summary", historyHandler.Summary)
			r.Get("/feature/{type}", historyHandler.ByFeature)
			r.Delete("/", historyHandler.Clear)
			r.Delete("/{id}", historyHandler.Delete)
		})
	})

	return r
}
