// Package respond writes the JSON envelope shared by every endpoint:
// {"success": bool, "message": string, "data": any, "errors": {...}}.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/paging"
	logx "quotations/go_backend/pkg/logger"
)

type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// List is the data block of collection endpoints.
type List[T any] struct {
	Items      []T               `json:"items"`
	Pagination paging.Pagination `json:"pagination"`
}

func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logx.Warn().Err(err).Msg("respond: encode failed")
	}
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

func Page[T any](w http.ResponseWriter, items []T, p paging.Params, total int) {
	if items == nil {
		items = []T{}
	}
	OK(w, List[T]{Items: items, Pagination: paging.NewPagination(p, total)})
}

// Error renders err. Only AppError messages reach the client; anything
// else is logged and reported as a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var ae *errx.AppError
	if !errors.As(err, &ae) || ae.Status == 0 {
		logx.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		JSON(w, http.StatusInternalServerError, Envelope{Message: errx.SystemErrorMessage})
		return
	}
	if ae.Status >= http.StatusInternalServerError {
		logx.Error().Err(err).Int("status", ae.Status).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	JSON(w, ae.Status, Envelope{Message: ae.Message, Errors: ae.Fields})
}

// Decode reads a JSON body into dst, rejecting unknown shapes with 400.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return errx.BadRequest("request body is required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return errx.New(err, http.StatusBadRequest, "invalid JSON body")
	}
	return nil
}
