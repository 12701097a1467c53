package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/server"
)

func main() {
	_ = godotenv.Load()

	level := logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	if err := logger.Init(logger.Config{Level: level, Output: os.Stdout}); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Close()

	if err := run(); err != nil {
		logger.Error("Server failed", logger.F("error", err))
		logger.Close()
		os.Exit(1)
	}
}

func run() error {
	port := getEnv("PORT", "5050")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(ctx)
	if err != nil {
		return err
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:      ttl,
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicURL:     getEnv("PUBLIC_URL", "http://localhost:"+port),
		LoginBurst:    getEnvInt("LOGIN_BURST", 5),
	}, repo)
	if err != nil {
		repo.Close()
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Warn("Error closing server", logger.F("error", err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Folio dev server starting", logger.F("port", port))
		errCh <- srv.Start(":" + port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openRepository uses PostgreSQL when DATABASE_URL is set and an in-memory
// store otherwise. Both start with the seed projects.
func openRepository(ctx context.Context) (server.Repository, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Info("DATABASE_URL not set, using in-memory repository")
		return server.NewMemoryRepository(server.SeedProjects()...), nil
	}

	repo, err := server.OpenPostgres(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	if err := repo.Seed(ctx, server.SeedProjects()); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
