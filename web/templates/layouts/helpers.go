package layouts

import "concertfever-storefront/internal/models"

// Meta is the per-request chrome every page needs
type Meta struct {
	Title   string
	Session models.UserSession
	Flashes []string
}

// PageTitle is the document title, suffixed with the site name.
func (m Meta) PageTitle() string {
	if m.Title == "" {
		return "ConcertFever"
	}
	return m.Title + " - ConcertFever"
}
