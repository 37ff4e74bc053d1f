package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

func TestHandleLoanItem_Transitions(t *testing.T) {
	t.Parallel()

	librarian := domain.Actor{ID: "staff-1", Role: domain.RoleLibrarian, Name: "Marta"}

	tests := []struct {
		name           string
		path           string
		serviceErr     error
		expectedStatus int
		expectedAction string
		expectedSubstr string
	}{
		{
			name:           "accept",
			path:           "/loans/l1/accept",
			expectedStatus: http.StatusNoContent,
			expectedAction: "accept",
		},
		{
			name:           "reject",
			path:           "/loans/l1/reject",
			expectedStatus: http.StatusNoContent,
			expectedAction: "reject",
		},
		{
			name:           "return",
			path:           "/loans/l1/return",
			expectedStatus: http.StatusNoContent,
			expectedAction: "return",
		},
		{
			name:           "cancel",
			path:           "/loans/l1/cancel",
			expectedStatus: http.StatusNoContent,
			expectedAction: "cancel",
		},
		{
			name:           "unknown action",
			path:           "/loans/l1/archive",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "loan not found",
			path:           "/loans/missing/accept",
			serviceErr:     domain.ErrLoanNotFound,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"code":"loan_not_found"`,
		},
		{
			name:           "invalid transition",
			path:           "/loans/l1/accept",
			serviceErr:     domain.ErrInvalidTransition,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"invalid_transition"`,
		},
		{
			name:           "forbidden",
			path:           "/loans/l1/accept",
			serviceErr:     domain.ErrForbidden,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "internal error",
			path:           "/loans/l1/accept",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubTransitioner{err: tt.serviceErr}
			req := withActor(httptest.NewRequest(http.MethodPost, tt.path, nil), librarian)
			rec := httptest.NewRecorder()

			HandleLoanItem(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedAction != "" && svc.err == nil {
				if svc.gotAction != tt.expectedAction {
					t.Fatalf("expected action %q, got %q", tt.expectedAction, svc.gotAction)
				}
				if svc.gotLoanID != "l1" {
					t.Fatalf("expected loan id l1, got %q", svc.gotLoanID)
				}
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}

	t.Run("transition requires POST", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := withActor(httptest.NewRequest(http.MethodGet, "/loans/l1/accept", nil), librarian)

		HandleLoanItem(&stubTransitioner{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleLoanItem_Update(t *testing.T) {
	t.Parallel()

	librarian := domain.Actor{ID: "staff-1", Role: domain.RoleLibrarian}

	t.Run("patches the allowed fields", func(t *testing.T) {
		t.Parallel()
		svc := &stubTransitioner{}
		body := `{"notes":"fiador: Juan","expected_return_date":"2025-04-01T00:00:00Z"}`
		req := withActor(httptest.NewRequest(http.MethodPatch, "/loans/l1", bytes.NewBufferString(body)), librarian)
		rec := httptest.NewRecorder()

		HandleLoanItem(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.gotUpdate.Notes == nil || *svc.gotUpdate.Notes != "fiador: Juan" {
			t.Fatalf("expected notes to be forwarded, got %+v", svc.gotUpdate)
		}
		if svc.gotUpdate.ExpectedReturnDate == nil {
			t.Fatal("expected return date to be forwarded")
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()
		body := `{"status":"returned"}`
		req := withActor(httptest.NewRequest(http.MethodPatch, "/loans/l1", bytes.NewBufferString(body)), librarian)
		rec := httptest.NewRecorder()

		HandleLoanItem(&stubTransitioner{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects bad date format", func(t *testing.T) {
		t.Parallel()
		body := `{"expected_return_date":"next week"}`
		req := withActor(httptest.NewRequest(http.MethodPatch, "/loans/l1", bytes.NewBufferString(body)), librarian)
		rec := httptest.NewRecorder()

		HandleLoanItem(&stubTransitioner{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("empty update", func(t *testing.T) {
		t.Parallel()
		svc := &stubTransitioner{err: domain.ErrNoFieldsToUpdate}
		req := withActor(httptest.NewRequest(http.MethodPatch, "/loans/l1", bytes.NewBufferString(`{}`)), librarian)
		rec := httptest.NewRecorder()

		HandleLoanItem(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestParseLoanPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path           string
		expectedLoanID string
		expectedAction string
		expectedOK     bool
	}{
		{path: "/loans/l1", expectedLoanID: "l1", expectedOK: true},
		{path: "/loans/l1/accept", expectedLoanID: "l1", expectedAction: "accept", expectedOK: true},
		{path: "/loans/", expectedOK: false},
		{path: "/loans/l1/accept/extra", expectedOK: false},
		{path: "/loans//accept", expectedOK: false},
		{path: "/other/l1", expectedOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			loanID, action, ok := parseLoanPath(tt.path)
			if ok != tt.expectedOK {
				t.Fatalf("expected ok=%v, got %v", tt.expectedOK, ok)
			}
			if loanID != tt.expectedLoanID || action != tt.expectedAction {
				t.Fatalf("expected (%q, %q), got (%q, %q)", tt.expectedLoanID, tt.expectedAction, loanID, action)
			}
		})
	}
}

type stubTransitioner struct {
	err       error
	gotAction string
	gotLoanID string
	gotUpdate domain.LoanUpdate
}

func (s *stubTransitioner) Accept(_ context.Context, _ domain.Actor, loanID string) error {
	s.gotAction, s.gotLoanID = "accept", loanID
	return s.err
}

func (s *stubTransitioner) Reject(_ context.Context, _ domain.Actor, loanID string) error {
	s.gotAction, s.gotLoanID = "reject", loanID
	return s.err
}

func (s *stubTransitioner) MarkReturned(_ context.Context, _ domain.Actor, loanID string) error {
	s.gotAction, s.gotLoanID = "return", loanID
	return s.err
}

func (s *stubTransitioner) Cancel(_ context.Context, _ domain.Actor, loanID string) error {
	s.gotAction, s.gotLoanID = "cancel", loanID
	return s.err
}

func (s *stubTransitioner) Update(_ context.Context, _ domain.Actor, loanID string, upd domain.LoanUpdate) error {
	s.gotLoanID, s.gotUpdate = loanID, upd
	return s.err
}
