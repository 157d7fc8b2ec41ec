package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/spendlens/internal/advisor"
	"github.com/dvloznov/spendlens/internal/api/handlers"
	"github.com/dvloznov/spendlens/internal/api/middleware"
	"github.com/dvloznov/spendlens/internal/logger"
	"github.com/dvloznov/spendlens/internal/session"
)

func main() {
	// Load .env if present; environment variables win over file values.
	_ = godotenv.Load()

	port := flag.String("port", "8080", "HTTP server port")
	flag.Parse()

	log := logger.New()

	coach := advisor.NewGeminiClient()
	if !coach.IsConfigured() {
		log.Warn().Msg("GEMINI_API_KEY not set - advice endpoint will degrade gracefully")
	}

	sessions := session.NewStore()
	analysis := handlers.NewAnalysisHandler(sessions, coach, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analysis.Upload(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/report", requireGet(analysis.Report))
	mux.HandleFunc("/api/summary", requireGet(analysis.Summary))
	mux.HandleFunc("/api/categories", requireGet(analysis.Categories))
	mux.HandleFunc("/api/trends", requireGet(analysis.Trends))
	mux.HandleFunc("/api/extremes", requireGet(analysis.Extremes))
	mux.HandleFunc("/api/export", requireGet(analysis.Export))

	mux.HandleFunc("/api/advice", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analysis.Advice(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			analysis.DeleteSession(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", analysis.Health)

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func requireGet(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h(w, r)
	}
}
