package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/paperbroker/paperbroker/internal/auth"
	"github.com/paperbroker/paperbroker/internal/portfolio"
	"github.com/paperbroker/paperbroker/internal/trading"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps core errors onto HTTP statuses. Validation failures
// and business-rule rejections keep their message; anything else is a
// store or system failure and surfaces as a generic 500 so internals
// never leak.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auth.ErrMissingUsername),
		errors.Is(err, auth.ErrMissingPassword),
		errors.Is(err, auth.ErrMissingConfirmation),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, trading.ErrInvalidShares),
		errors.Is(err, trading.ErrInvalidStock),
		errors.Is(err, trading.ErrCannotAfford),
		errors.Is(err, trading.ErrInsufficientShares):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrUsernameTaken):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status = http.StatusUnauthorized
	case errors.Is(err, portfolio.ErrQuoteUnavailable):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeJSON parses a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
