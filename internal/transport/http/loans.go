package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/app"
	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

// LoanCreator is the minimal interface needed to create a loan request.
type LoanCreator interface {
	Create(ctx context.Context, actor domain.Actor, in app.CreateLoanInput) (domain.Loan, error)
}

// LoanLister is the minimal interface needed for the dashboard views.
type LoanLister interface {
	ListPending(ctx context.Context) ([]domain.LoanListing, error)
	ListActive(ctx context.Context) ([]domain.LoanListing, error)
	ListConcluded(ctx context.Context) ([]domain.LoanListing, error)
}

// HandleLoans returns an HTTP handler for the /loans collection:
// POST creates a request (guests included), GET serves the librarian views.
func HandleLoans(creator LoanCreator, lister LoanLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handleCreateLoan(creator, w, r)
		case http.MethodGet:
			handleListLoans(lister, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func handleCreateLoan(creator LoanCreator, w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	expected, err := time.Parse(time.RFC3339, req.ExpectedReturnDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid expected_return_date format")
		return
	}

	actor := actorFrom(r.Context())
	userID := req.UserID
	// A logged-in reader borrowing for themselves does not repeat their id.
	if userID == "" && !actor.IsGuest() && actor.Role == domain.RoleUser {
		userID = actor.ID
	}

	loan, err := creator.Create(r.Context(), actor, app.CreateLoanInput{
		BookID:             req.BookID,
		LibraryID:          req.LibraryID,
		UserID:             userID,
		GuestName:          req.GuestName,
		GuestEmail:         req.GuestEmail,
		GuestPhone:         req.GuestPhone,
		GuestAddress:       req.GuestAddress,
		ExpectedReturnDate: expected,
		Notes:              req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(loanResponseFrom(loan))
}

func handleListLoans(lister LoanLister, w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if actor.IsGuest() {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}
	if !actor.CanManageLoans() {
		writeError(w, http.StatusForbidden, codeForbidden, "librarian role required")
		return
	}

	var (
		listings []domain.LoanListing
		err      error
	)
	switch view := r.URL.Query().Get("view"); view {
	case "", "pending":
		listings, err = lister.ListPending(r.Context())
	case "active":
		listings, err = lister.ListActive(r.Context())
	case "concluded":
		listings, err = lister.ListConcluded(r.Context())
	default:
		writeError(w, http.StatusBadRequest, codeValidationFailed, "unknown view")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}

	listings = app.FilterLoans(listings, r.URL.Query().Get("q"))

	resp := make([]loanListingResponse, 0, len(listings))
	for _, listing := range listings {
		resp = append(resp, loanListingResponseFrom(listing))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type createLoanRequest struct {
	BookID             string `json:"book_id"`
	LibraryID          string `json:"library_id"`
	UserID             string `json:"user_id"`
	GuestName          string `json:"guest_name"`
	GuestEmail         string `json:"guest_email"`
	GuestPhone         string `json:"guest_phone"`
	GuestAddress       string `json:"guest_address"`
	ExpectedReturnDate string `json:"expected_return_date"`
	Notes              string `json:"notes"`
}

type loanResponse struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id,omitempty"`
	GuestName          string     `json:"guest_name,omitempty"`
	GuestEmail         string     `json:"guest_email,omitempty"`
	GuestPhone         string     `json:"guest_phone,omitempty"`
	GuestAddress       string     `json:"guest_address,omitempty"`
	BookID             string     `json:"book_id"`
	LibraryID          string     `json:"library_id"`
	Notes              string     `json:"notes,omitempty"`
	Status             string     `json:"status"`
	LoanDate           time.Time  `json:"loan_date"`
	ExpectedReturnDate time.Time  `json:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
}

func loanResponseFrom(loan domain.Loan) loanResponse {
	return loanResponse{
		ID:                 loan.ID,
		UserID:             loan.UserID,
		GuestName:          loan.GuestName,
		GuestEmail:         loan.GuestEmail,
		GuestPhone:         loan.GuestPhone,
		GuestAddress:       loan.GuestAddress,
		BookID:             loan.BookID,
		LibraryID:          loan.LibraryID,
		Notes:              loan.Notes,
		Status:             string(loan.Status),
		LoanDate:           loan.LoanDate,
		ExpectedReturnDate: loan.ExpectedReturnDate,
		ActualReturnDate:   loan.ActualReturnDate,
	}
}

type loanListingResponse struct {
	loanResponse
	BookTitle     string `json:"book_title"`
	BookImageURL  string `json:"book_image_url,omitempty"`
	BorrowerName  string `json:"borrower_name"`
	BorrowerEmail string `json:"borrower_email,omitempty"`
}

func loanListingResponseFrom(listing domain.LoanListing) loanListingResponse {
	return loanListingResponse{
		loanResponse:  loanResponseFrom(listing.Loan),
		BookTitle:     listing.BookTitle,
		BookImageURL:  listing.BookImageURL,
		BorrowerName:  listing.BorrowerName,
		BorrowerEmail: listing.BorrowerEmail,
	}
}
