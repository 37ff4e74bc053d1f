package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

// LoanTransitioner is the minimal interface needed for lifecycle transitions.
type LoanTransitioner interface {
	Accept(ctx context.Context, actor domain.Actor, loanID string) error
	Reject(ctx context.Context, actor domain.Actor, loanID string) error
	MarkReturned(ctx context.Context, actor domain.Actor, loanID string) error
	Cancel(ctx context.Context, actor domain.Actor, loanID string) error
	Update(ctx context.Context, actor domain.Actor, loanID string, upd domain.LoanUpdate) error
}

// HandleLoanItem returns an HTTP handler for /loans/{id} edits and
// /loans/{id}/{accept|reject|return|cancel} transitions.
func HandleLoanItem(svc LoanTransitioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loanID, action, ok := parseLoanPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		actor := actorFrom(r.Context())

		if action == "" {
			if r.Method != http.MethodPatch {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handleUpdateLoan(svc, actor, loanID, w, r)
			return
		}

		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var err error
		switch action {
		case "accept":
			err = svc.Accept(r.Context(), actor, loanID)
		case "reject":
			err = svc.Reject(r.Context(), actor, loanID)
		case "return":
			err = svc.MarkReturned(r.Context(), actor, loanID)
		case "cancel":
			err = svc.Cancel(r.Context(), actor, loanID)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleUpdateLoan(svc LoanTransitioner, actor domain.Actor, loanID string, w http.ResponseWriter, r *http.Request) {
	var req updateLoanRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	upd := domain.LoanUpdate{
		Notes:        req.Notes,
		LibraryID:    req.LibraryID,
		GuestEmail:   req.GuestEmail,
		GuestPhone:   req.GuestPhone,
		GuestAddress: req.GuestAddress,
	}
	if req.ExpectedReturnDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ExpectedReturnDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid expected_return_date format")
			return
		}
		upd.ExpectedReturnDate = &parsed
	}

	if err := svc.Update(r.Context(), actor, loanID, upd); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseLoanPath accepts /loans/{id} (action empty) and /loans/{id}/{action}.
func parseLoanPath(path string) (loanID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "loans" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	if parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

type updateLoanRequest struct {
	ExpectedReturnDate *string `json:"expected_return_date"`
	Notes              *string `json:"notes"`
	LibraryID          *string `json:"library_id"`
	GuestEmail         *string `json:"guest_email"`
	GuestPhone         *string `json:"guest_phone"`
	GuestAddress       *string `json:"guest_address"`
}
