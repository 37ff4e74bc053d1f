package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/app"
	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

func TestHandleAdminBooks(t *testing.T) {
	t.Parallel()

	librarian := domain.Actor{ID: "staff-1", Role: domain.RoleLibrarian}

	t.Run("creates a book", func(t *testing.T) {
		t.Parallel()
		svc := &stubCatalogWriter{book: domain.Book{ID: "b1", Title: "Pedro Páramo", Available: true}}
		body := `{"title":"Pedro Páramo","author":"Juan Rulfo","rating":5}`
		req := withActor(httptest.NewRequest(http.MethodPost, "/admin/books", bytes.NewBufferString(body)), librarian)
		rec := httptest.NewRecorder()

		HandleAdminBooks(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.gotBook.Title != "Pedro Páramo" || svc.gotBook.Rating != 5 {
			t.Fatalf("unexpected input: %+v", svc.gotBook)
		}
		if !strings.Contains(rec.Body.String(), `"available":true`) {
			t.Fatalf("expected new book to be available, got %s", rec.Body.String())
		}
	})

	t.Run("guest is forbidden", func(t *testing.T) {
		t.Parallel()
		svc := &stubCatalogWriter{err: domain.ErrForbidden}
		body := `{"title":"Pedro Páramo"}`
		req := httptest.NewRequest(http.MethodPost, "/admin/books", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		HandleAdminBooks(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		req := withActor(httptest.NewRequest(http.MethodPost, "/admin/books", bytes.NewBufferString(`{`)), librarian)
		rec := httptest.NewRecorder()

		HandleAdminBooks(&stubCatalogWriter{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleAdminLibraries(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogWriter{library: domain.Library{ID: "lib1", Name: "Sucursal Norte"}}
	body := `{"name":"Sucursal Norte","address":"Blvd. Solidaridad 102"}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/admin/libraries", bytes.NewBufferString(body)), domain.Actor{ID: "staff-1", Role: domain.RoleAdmin})
	rec := httptest.NewRecorder()

	HandleAdminLibraries(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotLibrary.Name != "Sucursal Norte" {
		t.Fatalf("unexpected input: %+v", svc.gotLibrary)
	}
}

func TestHandleAdminLoanReset(t *testing.T) {
	t.Parallel()

	t.Run("wipes on DELETE", func(t *testing.T) {
		t.Parallel()
		svc := &stubWiper{}
		req := withActor(httptest.NewRequest(http.MethodDelete, "/admin/loans", nil), domain.Actor{ID: "a1", Role: domain.RoleAdmin})
		rec := httptest.NewRecorder()

		HandleAdminLoanReset(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if !svc.called {
			t.Fatal("expected ClearAll to be called")
		}
	})

	t.Run("librarian is not enough", func(t *testing.T) {
		t.Parallel()
		svc := &stubWiper{err: domain.ErrForbidden}
		req := withActor(httptest.NewRequest(http.MethodDelete, "/admin/loans", nil), domain.Actor{ID: "staff-1", Role: domain.RoleLibrarian})
		rec := httptest.NewRecorder()

		HandleAdminLoanReset(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("rejects POST", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/loans", nil)

		HandleAdminLoanReset(&stubWiper{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

type stubCatalogWriter struct {
	book       domain.Book
	library    domain.Library
	err        error
	gotBook    app.CreateBookInput
	gotLibrary app.CreateLibraryInput
}

func (s *stubCatalogWriter) CreateBook(_ context.Context, _ domain.Actor, in app.CreateBookInput) (domain.Book, error) {
	s.gotBook = in
	if s.err != nil {
		return domain.Book{}, s.err
	}
	return s.book, nil
}

func (s *stubCatalogWriter) CreateLibrary(_ context.Context, _ domain.Actor, in app.CreateLibraryInput) (domain.Library, error) {
	s.gotLibrary = in
	if s.err != nil {
		return domain.Library{}, s.err
	}
	return s.library, nil
}

type stubWiper struct {
	err    error
	called bool
}

func (s *stubWiper) ClearAll(context.Context, domain.Actor) error {
	s.called = true
	return s.err
}
