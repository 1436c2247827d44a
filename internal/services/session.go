package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/models"
)

// SessionName is the cookie name of the storefront session
const SessionName = "concertfever_session"

const (
	sessionUserKey   = "user"
	sessionCartIDKey = "cart_id"
)

// NewCookieStore creates the signed cookie store backing every session.
// MaxAge 0 keeps the cookie for the browser session only.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SessionService keeps the UserSession of each browser in a gorilla session
type SessionService struct {
	store  sessions.Store
	logger *logrus.Logger
}

// NewSessionService creates a new session service
func NewSessionService(store sessions.Store, logger *logrus.Logger) *SessionService {
	return &SessionService{
		store:  store,
		logger: logger,
	}
}

// Session returns the raw gorilla session of the request. A session that
// cannot be decoded is replaced by a fresh one.
func (s *SessionService) Session(r *http.Request) *sessions.Session {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		s.logger.WithError(err).Debug("Discarding unreadable session cookie")
	}
	return session
}

// Load returns the current session, or the anonymous one when the browser
// has none yet.
func (s *SessionService) Load(r *http.Request) models.UserSession {
	raw, ok := s.Session(r).Values[sessionUserKey].(string)
	if !ok || raw == "" {
		return models.AnonymousSession()
	}
	var user models.UserSession
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.WithError(err).Warn("Malformed user session, starting anonymous")
		return models.AnonymousSession()
	}
	return user
}

// Update merges patch into the current session and saves it.
func (s *SessionService) Update(w http.ResponseWriter, r *http.Request, patch models.SessionPatch) (models.UserSession, error) {
	merged := s.Load(r).Merge(patch)
	if err := s.write(w, r, merged); err != nil {
		return merged, err
	}
	return merged, nil
}

// Reset replaces the session with the anonymous one.
func (s *SessionService) Reset(w http.ResponseWriter, r *http.Request) error {
	return s.write(w, r, models.AnonymousSession())
}

func (s *SessionService) write(w http.ResponseWriter, r *http.Request, user models.UserSession) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	session := s.Session(r)
	session.Values[sessionUserKey] = string(data)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// CartID returns the per-browser cart id, if one was issued.
func (s *SessionService) CartID(r *http.Request) (string, bool) {
	id, ok := s.Session(r).Values[sessionCartIDKey].(string)
	return id, ok && id != ""
}

// EnsureCartID returns the cart id, issuing and saving a new one if needed.
func (s *SessionService) EnsureCartID(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, ok := s.CartID(r); ok {
		return id, nil
	}
	id := uuid.NewString()
	session := s.Session(r)
	session.Values[sessionCartIDKey] = id
	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save cart id: %w", err)
	}
	return id, nil
}

// Value reads a string value stored next to the user session.
func (s *SessionService) Value(r *http.Request, key string) (string, bool) {
	v, ok := s.Session(r).Values[key].(string)
	return v, ok
}

// SetValue stores a string value next to the user session.
func (s *SessionService) SetValue(w http.ResponseWriter, r *http.Request, key, value string) error {
	session := s.Session(r)
	session.Values[key] = value
	return session.Save(r, w)
}

// DeleteValue removes a value stored next to the user session.
func (s *SessionService) DeleteValue(w http.ResponseWriter, r *http.Request, key string) error {
	session := s.Session(r)
	delete(session.Values, key)
	return session.Save(r, w)
}

// AddFlash queues a one-time message for the next rendered page.
func (s *SessionService) AddFlash(w http.ResponseWriter, r *http.Request, message string) error {
	session := s.Session(r)
	session.AddFlash(message)
	return session.Save(r, w)
}

// Flashes pops the queued messages.
func (s *SessionService) Flashes(w http.ResponseWriter, r *http.Request) []string {
	session := s.Session(r)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		s.logger.WithError(err).Warn("Failed to save session after reading flashes")
	}
	messages := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
