package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"ir-portal/internal/middleware"
	"ir-portal/internal/service"
	"net/http"
)

// maxJSONBody caps request bodies of the JSON API.
const maxJSONBody = 1 << 20

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) *middleware.AppError {
	body, err := json.Marshal(v)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Internal server error", Code: http.StatusInternalServerError}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
	return nil
}

// ok writes {"success":true,"data":data}.
func ok(w http.ResponseWriter, data interface{}) *middleware.AppError {
	return writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func created(w http.ResponseWriter, data interface{}) *middleware.AppError {
	return writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

func message(w http.ResponseWriter, msg string) *middleware.AppError {
	return writeJSON(w, http.StatusOK, envelope{Success: true, Message: msg})
}

func badRequest(msg string) *middleware.AppError {
	return &middleware.AppError{Error: errors.New(msg), Message: msg, Code: http.StatusBadRequest}
}

// serviceError maps service errors onto status codes. noun names the resource in 404 messages.
func serviceError(err error, noun string) *middleware.AppError {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return &middleware.AppError{Error: err, Message: verr.Message, Code: http.StatusBadRequest}
	case errors.Is(err, service.ErrNotFound):
		return &middleware.AppError{Error: err, Message: noun + " not found", Code: http.StatusNotFound}
	case errors.Is(err, service.ErrInvalidCredentials):
		return &middleware.AppError{Error: err, Message: "Invalid credentials", Code: http.StatusUnauthorized}
	default:
		return &middleware.AppError{Error: err, Message: "Internal server error", Code: http.StatusInternalServerError}
	}
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) *middleware.AppError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return badRequest("Request body must not be empty")
		case errors.As(err, &syntaxErr):
			return badRequest(fmt.Sprintf("Malformed JSON at position %d", syntaxErr.Offset))
		case errors.As(err, &typeErr):
			return badRequest(fmt.Sprintf("Field %q has the wrong type", typeErr.Field))
		case errors.As(err, &maxErr):
			return badRequest("Request body too large")
		default:
			return badRequest("Malformed JSON")
		}
	}
	return nil
}
