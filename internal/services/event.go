package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/models"
)

// EventsPageSize is the number of event cards per listing page
const EventsPageSize = 6

// HomeWindowSize is the number of events shown under "More events"
const HomeWindowSize = 3

// EventPage is one page of a filtered event listing
type EventPage struct {
	Events     []*models.Event
	Page       int
	TotalPages int
	TotalCount int
}

// HasPrevious reports whether a page precedes this one.
func (p EventPage) HasPrevious() bool { return p.Page > 1 }

// HasNext reports whether a page follows this one.
func (p EventPage) HasNext() bool { return p.Page < p.TotalPages }

// EventService serves the read-only event catalogue
type EventService struct {
	backend Backend
	logger  *logrus.Logger
	intn    func(n int) int
}

// NewEventService creates a new event service
func NewEventService(backend Backend, logger *logrus.Logger) *EventService {
	return &EventService{
		backend: backend,
		logger:  logger,
		intn:    rand.Intn,
	}
}

// ListEvents returns every event, or the events of category when it is set.
func (s *EventService) ListEvents(ctx context.Context, category string) ([]*models.Event, error) {
	if !models.IsValidCategory(category) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCategory, category)
	}

	var (
		events []*models.Event
		err    error
	)
	if category == "" {
		events, err = s.backend.GetAllEvents(ctx)
	} else {
		events, err = s.backend.GetEventsByCategory(ctx, category)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetEvent returns one event; a backend 404 becomes ErrEventNotFound.
func (s *EventService) GetEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.backend.GetEventByID(ctx, eventID)
	if err != nil {
		if IsNotFound(err) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	if event == nil || event.EventID == 0 {
		return nil, models.ErrEventNotFound
	}
	return event, nil
}

// FeaturedWindow returns HomeWindowSize consecutive events starting at a
// random offset.
func (s *EventService) FeaturedWindow(ctx context.Context) ([]*models.Event, error) {
	events, err := s.backend.GetAllEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return RandomWindow(events, HomeWindowSize, s.intn), nil
}

// FilterEventsByName keeps the events whose name contains query, ignoring
// case. The query is matched as typed, surrounding spaces included. An
// empty query keeps everything.
func FilterEventsByName(events []*models.Event, query string) []*models.Event {
	query = strings.ToLower(query)
	if query == "" {
		return events
	}
	filtered := make([]*models.Event, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.EventName), query) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Paginate slices events into pages of pageSize. page is clamped into the
// valid range.
func Paginate(events []*models.Event, page, pageSize int) EventPage {
	if pageSize <= 0 {
		pageSize = EventsPageSize
	}
	total := len(events)
	totalPages := (total + pageSize - 1) / pageSize

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return EventPage{
		Events:     events[start:end],
		Page:       page,
		TotalPages: totalPages,
		TotalCount: total,
	}
}

// RandomWindow returns size consecutive events starting at a random offset.
// Fewer events than size are returned whole.
func RandomWindow(events []*models.Event, size int, intn func(int) int) []*models.Event {
	if len(events) <= size {
		return events
	}
	offset := intn(len(events) - size + 1)
	return events[offset : offset+size]
}
