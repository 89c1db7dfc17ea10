// Package server parses server command flags and launches the API service.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/louisbranch/vitalog/internal/account"
	"github.com/louisbranch/vitalog/internal/ai"
	"github.com/louisbranch/vitalog/internal/api/rest"
	"github.com/louisbranch/vitalog/internal/interaction"
	"github.com/louisbranch/vitalog/internal/platform/config"
	"github.com/louisbranch/vitalog/internal/platform/otel"
	"github.com/louisbranch/vitalog/internal/processor"
	"github.com/louisbranch/vitalog/internal/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Config holds server command configuration.
type Config struct {
	Port          int    `env:"VITALOG_PORT" envDefault:"8080"`
	DBPath        string `env:"VITALOG_DB_PATH" envDefault:"vitalog.db"`
	SessionSecret string `env:"VITALOG_SESSION_SECRET"`
	OpenAIAPIKey  string `env:"VITALOG_OPENAI_API_KEY"`
	OpenAIModel   string `env:"VITALOG_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"VITALOG_OPENAI_BASE_URL"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The API server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the API service and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	shutdownOtel, err := otel.Setup(ctx, "vitalog")
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOtel(shutdownCtx); err != nil {
			log.Printf("shutdown otel: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	aiClient, err := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		return fmt.Errorf("configure ai client: %w", err)
	}

	tokens, err := account.NewTokenIssuer(cfg.SessionSecret, nil)
	if err != nil {
		return fmt.Errorf("configure session tokens: %w", err)
	}

	proc := processor.New(store, aiClient)
	checks := interaction.NewService(store, store, store, aiClient)

	api := rest.NewServer(rest.Config{
		Store:        store,
		Processor:    proc,
		Interactions: checks,
		Tokens:       tokens,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: otelhttp.NewHandler(api.Handler(), "vitalog.api"),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	// Let in-flight lab extractions finish before the store closes.
	proc.Wait()
	return nil
}
