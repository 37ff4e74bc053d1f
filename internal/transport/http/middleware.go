package http

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

// TokenVerifier turns a bearer token back into the identity it carries.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

type actorKey struct{}

// Authenticate resolves the Authorization header into an actor stored
// in the request context. A missing header yields the guest actor; a
// present but invalid token is rejected so a stale session never
// silently downgrades to guest.
func Authenticate(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "malformed authorization header")
			return
		}

		identity, err := verifier.Verify(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid session token")
			return
		}

		actor := domain.Actor{ID: identity.ID, Role: identity.Role, Name: identity.DisplayName}
		ctx := context.WithValue(r.Context(), actorKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorFrom returns the authenticated actor, or the zero (guest) actor.
func actorFrom(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey{}).(domain.Actor)
	return actor
}

// RequestLogger logs basic request details and latency.
func RequestLogger(next http.Handler, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Printf(
			"request method=%s path=%s status=%d duration=%s",
			r.Method,
			r.URL.Path,
			rec.status,
			time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
