// Package server is the reference portfolio backend: the REST surface the
// folio client talks to, served with echo.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// Config configures a Server
type Config struct {
	AdminEmail    string
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration
	UploadDir     string
	PublicURL     string // prefix for uploaded image URLs
	LoginRate     rate.Limit
	LoginBurst    int
}

// Admin is the single account allowed to manage projects
type Admin struct {
	Email        string
	PasswordHash []byte
}

// Server is the portfolio backend
type Server struct {
	repo      Repository
	admin     Admin
	tokens    *tokens
	limiter   *loginLimiter
	uploadDir string
	publicURL string
	echo      *echo.Echo
}

// New creates a new server backed by repo
func New(cfg Config, repo Repository) (*Server, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil, errors.New("admin email and password are required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.LoginRate == 0 {
		cfg.LoginRate = rate.Every(time.Second)
	}
	if cfg.LoginBurst == 0 {
		cfg.LoginBurst = 5
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	s := &Server{
		repo:      repo,
		admin:     Admin{Email: cfg.AdminEmail, PasswordHash: hash},
		tokens:    newTokens([]byte(cfg.JWTSecret), cfg.TokenTTL),
		limiter:   newLoginLimiter(cfg.LoginRate, cfg.LoginBurst),
		uploadDir: cfg.UploadDir,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}

	s.setupEcho()
	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static("/uploads", s.uploadDir)

	api := e.Group("/api")
	api.GET("/health", s.handleHealth)

	// Public endpoints
	api.GET("/projects", s.handleListProjects)
	api.GET("/projects/:id", s.handleGetProject)
	api.POST("/admin/login", s.handleLogin)
	api.POST("/mail/contact", s.handleContact)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.POST("/projects", s.handleCreateProject)
	protected.PUT("/projects/:id", s.handleUpdateProject)
	protected.DELETE("/projects/:id", s.handleDeleteProject)
	protected.POST("/admin/logout", s.handleLogout)
	protected.GET("/admin/profile", s.handleProfile)
	protected.POST("/upload/image", s.handleUpload)

	s.echo = e
}

// Close closes the repository
func (s *Server) Close() error {
	return s.repo.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
