package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aman-dalan/AI-Hackathon/internal/api"
	"github.com/aman-dalan/AI-Hackathon/internal/evaluation"
	"github.com/aman-dalan/AI-Hackathon/internal/llm"
	"github.com/aman-dalan/AI-Hackathon/internal/mentor"
	"github.com/aman-dalan/AI-Hackathon/internal/middleware"
	"github.com/aman-dalan/AI-Hackathon/internal/problem"
	"github.com/aman-dalan/AI-Hackathon/internal/runner"
	"github.com/aman-dalan/AI-Hackathon/internal/session"
	"github.com/aman-dalan/AI-Hackathon/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the coaching web service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("Failed to close store", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if seeded, err := st.Problems.Seed(ctx); err != nil {
		slog.Warn("Failed to seed fallback problems", "error", err)
	} else if seeded > 0 {
		slog.Info("Seeded built-in problems", "count", seeded)
	}

	llmCfg := llm.ConfigFromEnv()
	if err := llmCfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return err
		}
		llmCfg = discovered
	}
	provider, err := llm.NewProvider(ctx, llmCfg, st.Events)
	if err != nil {
		return err
	}
	slog.Info("LLM provider ready", "provider", llmCfg.Provider, "model", provider.ModelID())

	var codeRunner runner.Runner
	if cfg.SandboxURL != "" {
		codeRunner = runner.NewSandboxRunner(cfg.SandboxURL)
		slog.Info("Using sandbox runner", "url", cfg.SandboxURL)
	} else {
		codeRunner = runner.NewLLMRunner(provider, runner.DefaultLLMRunnerConfig())
		slog.Info("Using LLM-simulated runner")
	}

	var catalog *problem.CatalogClient
	if cfg.CatalogURL != "" {
		catalog = problem.NewCatalogClient(cfg.CatalogURL)
	}

	registry := session.NewRegistry(cfg.SessionTTL, logger)
	registry.StartSweeper(10 * time.Minute)
	defer registry.Close()

	handler := api.NewHandler(api.Options{
		Registry:    registry,
		Store:       st,
		Mentor:      mentor.NewClient(provider, mentor.DefaultClientConfig()),
		Eval:        evaluation.NewClient(provider, evaluation.DefaultClientConfig()),
		Runner:      codeRunner,
		Catalog:     catalog,
		QuietWindow: cfg.QuietWindow,
		Logger:      logger,
	})

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	origins := []string{"*"}
	if cfg.FrontendURL != "" {
		origins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(origins))

	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// Websocket hint streams stay open indefinitely.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
