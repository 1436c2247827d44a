package middleware

import (
	"net"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request with logrus. It must run after
// LoadSession to see who made the request.
func RequestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			user := "anonymous"
			if session := GetSessionFromContext(r.Context()); session.LoggedIn {
				user = session.Email
			}

			entry := logger.WithFields(logrus.Fields{
				"request_id":    chimiddleware.GetReqID(r.Context()),
				"method":        r.Method,
				"path":          r.URL.Path,
				"query":         r.URL.RawQuery,
				"status_code":   wrapped.statusCode,
				"response_size": wrapped.size,
				"latency":       time.Since(start),
				"client_ip":     getClientIP(r),
				"user_agent":    r.UserAgent(),
				"user":          user,
			})

			if wrapped.statusCode >= 500 {
				entry.Error("HTTP request completed with server error")
			} else if wrapped.statusCode >= 400 {
				entry.Warn("HTTP request completed with client error")
			} else {
				entry.Info("HTTP request completed successfully")
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// getClientIP returns the host part of RemoteAddr. Forwarding headers are
// only honoured when chi's RealIP runs in front, which the router enables
// for TRUST_PROXY deployments.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
