package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/vinfox/go_vin/internal/config"
	"github.com/vinfox/go_vin/internal/logger"
)

// CorrelationMiddleware assigns a correlation ID to every request and stores
// it in the request context for handlers and the logger
type CorrelationMiddleware struct{}

// NewCorrelationMiddleware creates a new CorrelationMiddleware
func NewCorrelationMiddleware() *CorrelationMiddleware {
	return &CorrelationMiddleware{}
}

// Assign wraps a handler so its context carries a fresh correlation ID
func (m *CorrelationMiddleware) Assign(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		correlationID := uuid.New().String()
		ctx := context.WithValue(r.Context(), logger.CorrelationIDKey, correlationID)
		next(w, r.WithContext(ctx))
	}
}

// AuthMiddleware provides shared-secret authentication for API endpoints
type AuthMiddleware struct {
	config *config.Config
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		config: cfg,
	}
}

// Authenticate validates the shared secret header if authentication is enabled
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if not enabled
		if !m.config.Auth.Enabled {
			next(w, r)
			return
		}

		correlationID := uuid.New().String()

		providedSecret := r.Header.Get("X-Shared-Secret")

		if providedSecret == "" {
			log.Printf("[%s] Authentication failed: missing X-Shared-Secret header", correlationID)
			respondUnauthorized(w, correlationID, "missing authentication header")
			return
		}

		if providedSecret != m.config.Auth.SharedSecret {
			log.Printf("[%s] Authentication failed: invalid shared secret", correlationID)
			respondUnauthorized(w, correlationID, "invalid authentication credentials")
			return
		}

		next(w, r)
	}
}

// respondUnauthorized sends a 401 Unauthorized response
func respondUnauthorized(w http.ResponseWriter, correlationID, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Correlation-ID", correlationID)
	w.WriteHeader(http.StatusUnauthorized)

	response := ErrorResponse{
		Error:         message,
		CorrelationID: correlationID,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("[%s] Failed to encode unauthorized response: %v", correlationID, err)
	}
}

// RecoveryMiddleware recovers from panics and returns 500 Internal Server Error
type RecoveryMiddleware struct{}

// NewRecoveryMiddleware creates a new RecoveryMiddleware
func NewRecoveryMiddleware() *RecoveryMiddleware {
	return &RecoveryMiddleware{}
}

// Recover wraps a handler with panic recovery
func (m *RecoveryMiddleware) Recover(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				correlationID := uuid.New().String()
				log.Printf("[%s] Panic recovered: %v", correlationID, err)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Correlation-ID", correlationID)
				w.WriteHeader(http.StatusInternalServerError)

				response := ErrorResponse{
					Error:         "internal server error",
					CorrelationID: correlationID,
				}

				if err := json.NewEncoder(w).Encode(response); err != nil {
					log.Printf("[%s] Failed to encode error response: %v", correlationID, err)
				}
			}
		}()

		next(w, r)
	}
}
