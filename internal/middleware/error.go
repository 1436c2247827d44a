package middleware

import (
	"html/template"
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// ErrorHandlingMiddleware recovers panics and answers with a 500
func ErrorHandlingMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.WithFields(logrus.Fields{
						"panic":  err,
						"path":   r.URL.Path,
						"method": r.Method,
						"stack":  string(debug.Stack()),
					}).Error("Recovered from panic")

					writeFailure(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// MethodNotAllowedHandler handles 405 errors
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, r, http.StatusMethodNotAllowed, "Method not allowed for this endpoint.")
	})
}

// writeFailure answers HTMX requests with an alert fragment and everything
// else with a plain text error.
func writeFailure(w http.ResponseWriter, r *http.Request, status int, message string) {
	if IsHTMXRequest(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`<div class="alert alert-danger" role="alert">` + template.HTMLEscapeString(message) + `</div>`))
		return
	}
	http.Error(w, message, status)
}
