package middleware

import (
	"net/http"
	"net/http/httptest"

	"concertfever-storefront/internal/logging"
	"concertfever-storefront/internal/services"
)

func newTestSessions() *services.SessionService {
	return services.NewSessionService(services.NewCookieStore("middleware-test-secret-0123456789", false), logging.Discard())
}

// carry copies every cookie set on rec into req, last one per name wins.
func carry(rec *httptest.ResponseRecorder, req *http.Request) *http.Request {
	latest := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		latest[c.Name] = c
	}
	for _, c := range latest {
		if c.MaxAge < 0 {
			continue
		}
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})
