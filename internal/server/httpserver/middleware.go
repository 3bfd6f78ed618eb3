package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/server/models"
)

const (
	requestIDHeader = "X-Request-ID"
	userKey         = "user"
)

// requestLogger logs each request once and counts it.
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.RecordRequest(route, status)
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"request_id", id,
		)
	}
}

func (s *HTTPServer) recoverPanic(c *gin.Context, recovered any) {
	s.logger.Error(c.Request.Context(), "panic recovered", "panic", recovered, "path", c.Request.URL.Path)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
}

// cors applies the configured allowed origin and answers preflights.
func (s *HTTPServer) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", s.allowedOrigin)
		h.Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Max-Age", "86400")
		if s.allowedOrigin != "*" {
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requireUser rejects requests without a valid session.
func (s *HTTPServer) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.svc.Auth.RequireUser(c.Request.Context(), c.GetHeader(common.AuthorizationHeaderName))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// optionalUser resolves the session if one is presented; a bad or missing
// token leaves the caller anonymous.
func (s *HTTPServer) optionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			c.Next()
			return
		}
		user, err := s.svc.Auth.RequireUser(c.Request.Context(), header)
		switch {
		case err == nil:
			c.Set(userKey, user)
		case !errors.Is(err, common.ErrorUnauthorized):
			s.writeError(c, err)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
