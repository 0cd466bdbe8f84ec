package services

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/eventspark/internal/genai"
	"github.com/joshua-takyi/eventspark/internal/geocoder"
	"github.com/joshua-takyi/eventspark/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memoryEvents struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]models.Event
	users  map[primitive.ObjectID]*models.User
}

func newMemoryEvents() *memoryEvents {
	return &memoryEvents{
		events: map[primitive.ObjectID]models.Event{},
		users:  map[primitive.ObjectID]*models.User{},
	}
}

func (m *memoryEvents) CreateEvent(_ context.Context, event *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	event.CreatedAt, event.UpdatedAt = now, now
	m.events[event.ID] = *event
	return event, nil
}

func (m *memoryEvents) GetEventByID(_ context.Context, id primitive.ObjectID) (*models.EventView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, models.NewError(models.ErrNotFound, "Event not found")
	}
	return m.view(e, nil), nil
}

func (m *memoryEvents) ListEvents(_ context.Context, p models.Pagination) (*models.EventPage, error) {
	return m.page(func(models.Event) bool { return true }, nil, p), nil
}

func (m *memoryEvents) ListEventsByOrganizer(_ context.Context, organizerID primitive.ObjectID, p models.Pagination) (*models.EventPage, error) {
	return m.page(func(e models.Event) bool { return e.Organizer == organizerID }, nil, p), nil
}

func (m *memoryEvents) ListEventsByCity(_ context.Context, city string, p models.Pagination) (*models.EventPage, error) {
	city = models.NormalizeCity(city)
	return m.page(func(e models.Event) bool { return e.City == city }, nil, p), nil
}

func (m *memoryEvents) ListEventsWithinRadius(_ context.Context, center models.GeoPoint, radiusMeters float64, p models.Pagination) (*models.EventPage, error) {
	distance := func(e models.Event) float64 { return haversineMeters(center, e.Geo) }
	return m.page(func(e models.Event) bool { return distance(e) <= radiusMeters }, distance, p), nil
}

func (m *memoryEvents) DeleteEvent(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return models.NewError(models.ErrNotFound, "Event not found")
	}
	delete(m.events, id)
	return nil
}

func (m *memoryEvents) page(keep func(models.Event) bool, distance func(models.Event) float64, p models.Pagination) *models.EventPage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Event
	for _, e := range m.events {
		if keep(e) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.Before(matched[j].Date)
		}
		return matched[i].ID.Hex() < matched[j].ID.Hex()
	})

	page := &models.EventPage{Events: []*models.EventView{}, Total: int64(len(matched)), Pagination: p}
	start := int(p.Skip())
	for i := start; i < len(matched) && i < start+p.Limit; i++ {
		var km *float64
		if distance != nil {
			d := distance(matched[i]) / 1000
			km = &d
		}
		page.Events = append(page.Events, m.view(matched[i], km))
	}
	return page
}

func (m *memoryEvents) view(e models.Event, km *float64) *models.EventView {
	v := &models.EventView{Event: e, DistanceKm: km}
	if u, ok := m.users[e.Organizer]; ok {
		v.OrganizerInfo = &models.Organizer{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return v
}

// haversineMeters stands in for $geoNear in these tests. The real query is
// covered by TestListEventsWithinRadius_Mongo in the models package.
func haversineMeters(a, b models.GeoPoint) float64 {
	const earthRadius = 6378100.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(b.Lat() - a.Lat())
	dLng := toRad(b.Lng() - a.Lng())
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat()))*math.Cos(toRad(b.Lat()))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadius * math.Asin(math.Sqrt(h))
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[primitive.ObjectID]*models.User{}}
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, models.ValidationError("Email already exists")
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	stored := *user
	m.users[user.ID] = &stored
	return user, nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, models.NewError(models.ErrNotFound, "User not found")
	}
	cp := *u
	return &cp, nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.NewError(models.ErrNotFound, "User not found")
}

// stubGeocoder answers forward lookups from a table keyed by address.
type stubGeocoder struct {
	places     map[string]geocoder.Result
	reverse    string
	reverseErr error
}

func (s *stubGeocoder) ForwardGeocode(_ context.Context, address string) (*geocoder.Result, error) {
	r, ok := s.places[address]
	if !ok {
		return nil, models.NewError(models.ErrGeocodeFailure, "Unable to geocode address")
	}
	return &r, nil
}

func (s *stubGeocoder) ReverseGeocode(context.Context, float64, float64) (string, bool, error) {
	if s.reverseErr != nil {
		return "", false, s.reverseErr
	}
	return s.reverse, s.reverse != "", nil
}

type stubGenerator struct {
	completion genai.Completion
	err        error
	prompts    []string
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (genai.Completion, error) {
	s.prompts = append(s.prompts, prompt)
	return s.completion, s.err
}
