package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

// CatalogReader is the minimal interface needed for the public catalog.
type CatalogReader interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	ListLibraries(ctx context.Context) ([]domain.Library, error)
}

// HandleBooks returns an HTTP handler for the public book catalog.
func HandleBooks(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		books, err := svc.ListBooks(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]bookResponse, 0, len(books))
		for _, book := range books {
			resp = append(resp, bookResponseFrom(book))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleLibraries returns an HTTP handler for the library branch list.
func HandleLibraries(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		libraries, err := svc.ListLibraries(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]libraryResponse, 0, len(libraries))
		for _, library := range libraries {
			resp = append(resp, libraryResponseFrom(library))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type bookResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Editorial string `json:"editorial,omitempty"`
	ISBN      string `json:"isbn,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Badge     string `json:"badge,omitempty"`
	Rating    int    `json:"rating"`
	Available bool   `json:"available"`
}

func bookResponseFrom(book domain.Book) bookResponse {
	return bookResponse{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		Editorial: book.Editorial,
		ISBN:      book.ISBN,
		ImageURL:  book.ImageURL,
		Badge:     book.Badge,
		Rating:    book.Rating,
		Available: book.Available,
	}
}

type libraryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

func libraryResponseFrom(library domain.Library) libraryResponse {
	return libraryResponse{
		ID:       library.ID,
		Name:     library.Name,
		Address:  library.Address,
		Phone:    library.Phone,
		ImageURL: library.ImageURL,
	}
}
