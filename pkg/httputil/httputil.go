package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
)

// maxBodyBytes caps request bodies. Every payload this API accepts is a
// small JSON document.
const maxBodyBytes = 1 << 20

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorBody carries the error half of the envelope
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Meta carries pagination for list endpoints and a plain count for
// unpaginated collections
type Meta struct {
	Page       int   `json:"page,omitempty"`
	PerPage    int   `json:"per_page,omitempty"`
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"total_pages,omitempty"`
	Count      int   `json:"count,omitempty"`
}

func write(w http.ResponseWriter, statusCode int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// JSON sends data in the envelope
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	write(w, statusCode, Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	})
}

// JSONWithMeta sends data in the envelope with metadata attached
func JSONWithMeta(w http.ResponseWriter, statusCode int, data interface{}, meta *Meta) {
	write(w, statusCode, Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
		Meta:    meta,
	})
}

// Error sends the error in the envelope. Anything that is not an AppError
// becomes a generic 500, so internals never leak to clients.
func Error(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		appErr = errors.Internal("an unexpected error occurred")
	}

	write(w, appErr.StatusCode, Response{
		Error: &ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// Created sends data in the envelope with status 201
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// NoContent sends status 204 with no body
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes the request body into v, capped at maxBodyBytes
func DecodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.BadRequest("invalid JSON body")
	}
	return nil
}

// DecodeValid decodes the request body into v and runs struct tag
// validation on the result
func DecodeValid(r *http.Request, v interface{}) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return Validate(v)
}
