package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/app"
	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

// CatalogWriter is the minimal interface needed for catalog management.
type CatalogWriter interface {
	CreateBook(ctx context.Context, actor domain.Actor, in app.CreateBookInput) (domain.Book, error)
	CreateLibrary(ctx context.Context, actor domain.Actor, in app.CreateLibraryInput) (domain.Library, error)
}

// LoanWiper is the minimal interface needed for the bulk reset.
type LoanWiper interface {
	ClearAll(ctx context.Context, actor domain.Actor) error
}

// HandleAdminBooks returns an HTTP handler for adding catalog books.
func HandleAdminBooks(svc CatalogWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createBookRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		book, err := svc.CreateBook(r.Context(), actorFrom(r.Context()), app.CreateBookInput{
			Title:     req.Title,
			Author:    req.Author,
			Editorial: req.Editorial,
			ISBN:      req.ISBN,
			ImageURL:  req.ImageURL,
			Badge:     req.Badge,
			Rating:    req.Rating,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(bookResponseFrom(book))
	}
}

// HandleAdminLibraries returns an HTTP handler for adding branches.
func HandleAdminLibraries(svc CatalogWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createLibraryRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		library, err := svc.CreateLibrary(r.Context(), actorFrom(r.Context()), app.CreateLibraryInput{
			Name:     req.Name,
			Address:  req.Address,
			Phone:    req.Phone,
			ImageURL: req.ImageURL,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(libraryResponseFrom(library))
	}
}

// HandleAdminLoanReset returns an HTTP handler for the bulk loan wipe.
func HandleAdminLoanReset(svc LoanWiper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		if err := svc.ClearAll(r.Context(), actorFrom(r.Context())); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type createBookRequest struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Editorial string `json:"editorial"`
	ISBN      string `json:"isbn"`
	ImageURL  string `json:"image_url"`
	Badge     string `json:"badge"`
	Rating    int    `json:"rating"`
}

type createLibraryRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	ImageURL string `json:"image_url"`
}
