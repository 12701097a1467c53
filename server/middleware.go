package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/folio/internal/logger"
)

const claimsKey = "admin_claims"

// authMiddleware checks for a valid admin token
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Get token from Authorization header
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return fail(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return fail(c, http.StatusUnauthorized, "invalid authorization format")
		}

		claims, err := s.tokens.verify(token)
		if err != nil {
			logger.Debug("Rejected admin token", logger.F("error", err))
			return fail(c, http.StatusUnauthorized, "invalid token")
		}

		c.Set(claimsKey, claims)
		return next(c)
	}
}

func claimsFrom(c echo.Context) *adminClaims {
	claims, _ := c.Get(claimsKey).(*adminClaims)
	if claims == nil {
		return &adminClaims{}
	}
	return claims
}

// requestLogger logs every request and records its metrics
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Process request
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		duration := time.Since(start)

		// route pattern keeps the label set bounded
		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(req.Method, path, strconv.Itoa(res.Status)).Inc()
		httpRequestDuration.WithLabelValues(req.Method, path).Observe(duration.Seconds())

		logger.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("remote", c.RealIP()),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", duration.String()))

		return nil
	}
}
