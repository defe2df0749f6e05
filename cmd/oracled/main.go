package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/randomtoy/oracle-go/internal/adapters/http"
	"github.com/randomtoy/oracle-go/internal/adapters/llm/gemini"
	"github.com/randomtoy/oracle-go/internal/adapters/llm/openrouter"
	"github.com/randomtoy/oracle-go/internal/adapters/llm/static"
	"github.com/randomtoy/oracle-go/internal/adapters/phrasebook"
	"github.com/randomtoy/oracle-go/internal/adapters/store/memory"
	"github.com/randomtoy/oracle-go/internal/adapters/store/sqlstore"
	"github.com/randomtoy/oracle-go/internal/app"
	"github.com/randomtoy/oracle-go/internal/config"
	"github.com/randomtoy/oracle-go/internal/ports"
)

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	gen, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	svc := app.NewOracleService(store, gen, app.GeneratorPolicy{
		Timeout: cfg.GeneratorTimeout,
		Retries: cfg.GeneratorRetries,
	}, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))

	handler := httpadapter.NewHandler(svc, logger)
	handler.Register(e)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			"addr", cfg.HTTPAddr,
			"provider", cfg.LLMProvider,
			"store", cfg.StoreDriver,
		)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config) (ports.AnswerStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres, config.StoreSQLite:
		dialect := sqlstore.Postgres
		if cfg.StoreDriver == config.StoreSQLite {
			dialect = sqlstore.SQLite
		}
		s, err := sqlstore.Open(ctx, dialect, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return memory.New(), func() {}, nil
	}
}

func newGenerator(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.Generator, error) {
	httpClient := &http.Client{Timeout: cfg.LLMTimeout}

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.Options{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			HTTPClient: httpClient,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return c, nil
	case config.ProviderStatic:
		return static.NewGenerator(phrasebook.NewEmbeddedStore(), stdRNG{}), nil
	default:
		return openrouter.NewClient(
			httpClient,
			cfg.OpenRouterAPIKey,
			cfg.OpenRouterBaseURL,
			cfg.LLMModel,
			cfg.LLMFallbackModels,
			logger,
		), nil
	}
}
