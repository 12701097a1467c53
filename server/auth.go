package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/model"
)

const issuer = "folio"

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt string             `json:"expiresAt"`
	Admin     model.AdminProfile `json:"admin"`
}

// adminClaims are the claims of an admin bearer token
type adminClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// tokens issues and verifies admin JWTs. Logout revokes a token by id
// until it would have expired anyway.
type tokens struct {
	secret []byte
	ttl    time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time
}

func newTokens(secret []byte, ttl time.Duration) *tokens {
	return &tokens{secret: secret, ttl: ttl, revoked: make(map[string]time.Time)}
}

func (t *tokens) issue(email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.ttl)

	claims := &adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	return token, expiresAt, err
}

func (t *tokens) verify(tokenString string) (*adminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, gone := t.revoked[claims.ID]; gone {
		return nil, fmt.Errorf("token revoked")
	}
	return claims, nil
}

func (t *tokens) revoke(c *adminClaims) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for id, exp := range t.revoked {
		if now.After(exp) {
			delete(t.revoked, id)
		}
	}
	exp := now.Add(t.ttl)
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time
	}
	t.revoked[c.ID] = exp
}

// loginLimiter throttles login attempts per client address
type loginLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newLoginLimiter(limit rate.Limit, burst int) *loginLimiter {
	return &loginLimiter{limit: limit, burst: burst, limiters: make(map[string]*rate.Limiter)}
}

func (l *loginLimiter) allow(addr string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[addr]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[addr] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// handleLogin handles admin login
func (s *Server) handleLogin(c echo.Context) error {
	if !s.limiter.allow(c.RealIP()) {
		loginAttempts.WithLabelValues("throttled").Inc()
		return fail(c, http.StatusTooManyRequests, "Too many login attempts, try again later")
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = strings.TrimSpace(req.Username)
	}
	if email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	// Check password
	if !strings.EqualFold(email, s.admin.Email) ||
		bcrypt.CompareHashAndPassword(s.admin.PasswordHash, []byte(req.Password)) != nil {
		loginAttempts.WithLabelValues("rejected").Inc()
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	token, expiresAt, err := s.tokens.issue(s.admin.Email)
	if err != nil {
		return failErr(c, err)
	}

	loginAttempts.WithLabelValues("accepted").Inc()
	logger.Info("Admin logged in", logger.F("email", s.admin.Email))

	return respond(c, http.StatusOK, "Login successful", loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Admin:     s.profile(),
	})
}

// handleLogout revokes the presented token
func (s *Server) handleLogout(c echo.Context) error {
	s.tokens.revoke(claimsFrom(c))
	return respond(c, http.StatusOK, "Logged out", nil)
}

// handleProfile returns the admin the token belongs to
func (s *Server) handleProfile(c echo.Context) error {
	return respond(c, http.StatusOK, "", map[string]model.AdminProfile{"admin": s.profile()})
}

func (s *Server) profile() model.AdminProfile {
	return model.AdminProfile{ID: "admin", Email: s.admin.Email, Name: "Admin"}
}
