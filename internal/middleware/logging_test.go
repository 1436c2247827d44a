package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertfever-storefront/internal/models"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		session   models.UserSession
		wantLevel logrus.Level
		wantUser  string
	}{
		{"ok anonymous", http.StatusOK, models.AnonymousSession(), logrus.InfoLevel, "anonymous"},
		{"client error", http.StatusUnprocessableEntity, models.AnonymousSession(), logrus.WarnLevel, "anonymous"},
		{"server error signed in", http.StatusBadGateway, models.UserSession{LoggedIn: true, Email: "ada@example.com"}, logrus.ErrorLevel, "ada@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/events?q=jazz", nil)
			req.RemoteAddr = "203.0.113.9:4444"
			req.Header.Set("X-Forwarded-For", "198.51.100.66")
			req = req.WithContext(SetSessionContext(req.Context(), tt.session))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			require.Len(t, hook.Entries, 1)
			entry := hook.LastEntry()
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, tt.status, entry.Data["status_code"])
			assert.Equal(t, "/events", entry.Data["path"])
			assert.Equal(t, "q=jazz", entry.Data["query"])
			assert.Equal(t, "203.0.113.9", entry.Data["client_ip"])
			assert.Equal(t, tt.wantUser, entry.Data["user"])
			assert.Equal(t, 4, entry.Data["response_size"])
		})
	}
}

func TestGetClientIP_IgnoresForwardingHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	req.Header.Set("X-Real-IP", "198.51.100.8")
	assert.Equal(t, "192.0.2.1", getClientIP(req))

	req.RemoteAddr = "not-a-host-port"
	assert.Equal(t, "not-a-host-port", getClientIP(req))
}
