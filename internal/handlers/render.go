package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/middleware"
	"concertfever-storefront/internal/services"
	"concertfever-storefront/web/templates/layouts"
)

// Renderer writes templ pages with the shared chrome
type Renderer struct {
	sessions *services.SessionService
	logger   *logrus.Logger
}

// NewRenderer creates a new renderer
func NewRenderer(sessions *services.SessionService, logger *logrus.Logger) *Renderer {
	return &Renderer{sessions: sessions, logger: logger}
}

// Meta collects the chrome of the current request. The session is read
// from the store rather than the context so changes made by the handler
// (sign in, cart updates) show up in the navbar straight away. Pending
// flashes are consumed.
func (rd *Renderer) Meta(w http.ResponseWriter, r *http.Request, title string) layouts.Meta {
	return layouts.Meta{
		Title:   title,
		Session: rd.sessions.Load(r),
		Flashes: rd.sessions.Flashes(w, r),
	}
}

// Render writes component with status.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		rd.logger.WithError(err).WithField("path", r.URL.Path).Error("Failed to render page")
	}
}

// Redirect sends the browser to url. HTMX requests get an HX-Redirect so
// the whole page navigates instead of a fragment swap.
func (rd *Renderer) Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
