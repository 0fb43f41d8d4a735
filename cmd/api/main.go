package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/subscope/internal/ai"
	"github.com/dvloznov/subscope/internal/api/handlers"
	"github.com/dvloznov/subscope/internal/api/middleware"
	"github.com/dvloznov/subscope/internal/config"
	"github.com/dvloznov/subscope/internal/logger"
	"github.com/dvloznov/subscope/internal/pipeline"
	"github.com/dvloznov/subscope/internal/session"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	port := flag.String("port", cfg.Port, "HTTP server port")
	flag.Parse()

	ctx := context.Background()

	capability, err := ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	analyzer := pipeline.NewAnalyzer(capability, log)
	store := session.NewStore()
	sessionsHandler := handlers.NewSessionsHandler(store, analyzer, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", sessionsHandler.CreateSession)
	mux.HandleFunc("GET /api/sessions", sessionsHandler.ListSessions)
	mux.HandleFunc("GET /api/sessions/{id}/subscriptions", sessionsHandler.GetSubscriptions)
	mux.HandleFunc("GET /api/sessions/{id}/tips", sessionsHandler.GetSavingTips)
	mux.HandleFunc("GET /api/sessions/{id}/alternatives", sessionsHandler.GetAlternatives)
	mux.HandleFunc("GET /api/sessions/{id}/reminders", sessionsHandler.GetReminders)
	mux.HandleFunc("GET /api/sessions/{id}/summary", sessionsHandler.GetSummary)
	mux.HandleFunc("POST /api/sessions/{id}/ask", sessionsHandler.Ask)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux))))

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Str("model", cfg.Model).Msg("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}
