package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/app"
	"github.com/ivancitoook/mibuscalibrosreact1/internal/clock"
	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

// Authenticator is the minimal interface needed for the auth endpoints.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.Identity, error)
	Register(ctx context.Context, in app.RegisterInput) (domain.Identity, error)
}

// TokenIssuer signs a session token for an identity.
type TokenIssuer interface {
	Issue(identity domain.Identity, now time.Time) (string, error)
}

// HandleLogin returns an HTTP handler for credential login.
func HandleLogin(svc Authenticator, issuer TokenIssuer, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req loginRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		identity, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		signed, err := issuer.Issue(identity, clk.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sessionResponse{
			Token:       signed,
			ID:          identity.ID,
			Role:        string(identity.Role),
			DisplayName: identity.DisplayName,
		})
	}
}

// HandleRegister returns an HTTP handler for account registration.
func HandleRegister(svc Authenticator, issuer TokenIssuer, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req registerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		identity, err := svc.Register(r.Context(), app.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
			Location: req.Location,
			PhotoURL: req.PhotoURL,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		signed, err := issuer.Issue(identity, clk.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sessionResponse{
			Token:       signed,
			ID:          identity.ID,
			Role:        string(identity.Role),
			DisplayName: identity.DisplayName,
		})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Location string `json:"location"`
	PhotoURL string `json:"photo_url"`
}

type sessionResponse struct {
	Token       string `json:"token"`
	ID          string `json:"id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}
