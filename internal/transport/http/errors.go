package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidID            = "invalid_id"
	codeValidationFailed     = "validation_failed"
	codeBookUnavailable      = "book_unavailable"
	codeInvalidTransition    = "invalid_transition"
	codeLoanNotFound         = "loan_not_found"
	codeBookNotFound         = "book_not_found"
	codeLibraryNotFound      = "library_not_found"
	codeEmailTaken           = "email_taken"
	codeBadCredentials       = "bad_credentials"
	codeUnauthenticated      = "unauthenticated"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps the domain sentinels onto HTTP statuses and
// machine codes. Anything unrecognized is a store failure and stays
// opaque to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBorrowerRequired),
		errors.Is(err, domain.ErrBorrowerAmbiguous),
		errors.Is(err, domain.ErrGuestContactMissing),
		errors.Is(err, domain.ErrReturnDateNotFuture),
		errors.Is(err, domain.ErrNoFieldsToUpdate),
		errors.Is(err, domain.ErrEmailRequired),
		errors.Is(err, domain.ErrPasswordRequired),
		errors.Is(err, domain.ErrNameRequired):
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrBookUnavailable):
		writeError(w, http.StatusConflict, codeBookUnavailable, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, codeEmailTaken, err.Error())
	case errors.Is(err, domain.ErrLoanNotFound):
		writeError(w, http.StatusNotFound, codeLoanNotFound, err.Error())
	case errors.Is(err, domain.ErrBookNotFound):
		writeError(w, http.StatusNotFound, codeBookNotFound, err.Error())
	case errors.Is(err, domain.ErrLibraryNotFound):
		writeError(w, http.StatusNotFound, codeLibraryNotFound, err.Error())
	case errors.Is(err, domain.ErrBadCredentials):
		writeError(w, http.StatusUnauthorized, codeBadCredentials, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
