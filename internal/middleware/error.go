package middleware

import (
	"encoding/json"
	"fmt"
	"ir-portal/internal/logger"
	"ir-portal/internal/view"
	"net/http"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// errorBody is the JSON shape of every failed API call.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteJSONError writes {"success":false,"error":message} with the given status.
func WriteJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{Success: false, Error: message})
}

func logAppError(log logger.Logger, r *http.Request, e *AppError) {
	l := log.With(map[string]interface{}{"method": r.Method, "path": r.URL.Path, "status": e.Code})
	if e.Code >= http.StatusInternalServerError {
		l.Error(e.Error, e.Message)
		return
	}
	if e.Error != nil {
		l.Debug(fmt.Sprintf("%s: %v", e.Message, e.Error))
	}
}

func recovered(rec interface{}) error {
	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("%v", rec)
	}
	return err
}

// JSONError is a middleware that converts handler errors into JSON error bodies.
// Internal errors never leak their cause to the client.
func JSONError(log logger.Logger) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(recovered(rec), "Panic recovered")
					WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			if err := next(w, r); err != nil {
				logAppError(log, r, err)
				WriteJSONError(w, err.Code, err.Message)
			}
		})
	}
}

// HTMLError is a middleware that converts handler errors into user-friendly error pages.
func HTMLError(log logger.Logger, v *view.View) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			renderError := func(code int, text string) {
				data := map[string]interface{}{
					"StatusCode": code,
					"StatusText": text,
					"UserInfo":   GetUserInfo(r.Context()),
				}
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(code)
				if err := v.Render(w, "error.html", data); err != nil {
					log.Error(err, "failed to render error page")
				}
			}
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(recovered(rec), "Panic recovered")
					renderError(http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			if err := next(w, r); err != nil {
				logAppError(log, r, err)
				renderError(err.Code, err.Message)
			}
		})
	}
}
