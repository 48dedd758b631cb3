package server

import (
	"errors"
	"net/http"

	"github.com/KaramelBytes/efindex-cli/internal/charts"
	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/query"
	"github.com/KaramelBytes/efindex-cli/internal/session"
	"github.com/go-chi/render"
)

// APIError is the JSON error body.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, msg string) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: msg}
}

func badRequest(msg string) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_PARAMETER", msg)
}

// toAPIError maps domain errors onto HTTP statuses.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, query.ErrCountryNotFound):
		return newAPIError(http.StatusNotFound, "COUNTRY_NOT_FOUND", err.Error())
	case errors.Is(err, session.ErrNotFound):
		return newAPIError(http.StatusNotFound, "SESSION_NOT_FOUND", err.Error())
	case errors.Is(err, charts.ErrUnknownChart):
		return newAPIError(http.StatusNotFound, "CHART_NOT_FOUND", err.Error())
	case errors.Is(err, dataset.ErrUnknownColumn), errors.Is(err, dataset.ErrNotNumeric):
		return badRequest(err.Error())
	case errors.Is(err, dataset.ErrColumnNotFound):
		return newAPIError(http.StatusUnprocessableEntity, "COLUMN_NOT_FOUND", err.Error())
	}
	return newAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
}
