package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

func TestHandleBooks(t *testing.T) {
	t.Parallel()

	t.Run("lists the catalog", func(t *testing.T) {
		t.Parallel()
		svc := &stubCatalogReader{books: []domain.Book{
			{ID: "b1", Title: "Heartless", Available: true},
			{ID: "b2", Title: "Caída Libre", Available: false},
		}}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/books", nil)

		HandleBooks(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `"available":true`) || !strings.Contains(body, `"available":false`) {
			t.Fatalf("expected availability flags in response, got %s", body)
		}
	})

	t.Run("empty catalog is an empty array", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/books", nil)

		HandleBooks(&stubCatalogReader{}).ServeHTTP(rec, req)

		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Fatalf("expected [], got %s", got)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/books", nil)

		HandleBooks(&stubCatalogReader{err: errors.New("boom")}).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("rejects POST", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/books", nil)

		HandleBooks(&stubCatalogReader{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleLibraries(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogReader{libraries: []domain.Library{
		{ID: "lib1", Name: "Biblioteca Central"},
	}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/libraries", nil)

	HandleLibraries(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Biblioteca Central") {
		t.Fatalf("expected library name in response, got %s", rec.Body.String())
	}
}

type stubCatalogReader struct {
	books     []domain.Book
	libraries []domain.Library
	err       error
}

func (s *stubCatalogReader) ListBooks(context.Context) ([]domain.Book, error) {
	return s.books, s.err
}

func (s *stubCatalogReader) ListLibraries(context.Context) ([]domain.Library, error) {
	return s.libraries, s.err
}
