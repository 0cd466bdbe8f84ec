package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joshua-takyi/eventspark/internal/geocoder"
	"github.com/joshua-takyi/eventspark/internal/helpers"
	"github.com/joshua-takyi/eventspark/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Geocoder resolves addresses and coordinates.
type Geocoder interface {
	ForwardGeocode(ctx context.Context, address string) (*geocoder.Result, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, bool, error)
}

type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
}

type EventService struct {
	eventsRepo models.EventsRepo
	geocoder   Geocoder
	logger     *slog.Logger
}

func NewEventService(eventsRepo models.EventsRepo, geocoder Geocoder, logger *slog.Logger) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
		geocoder:   geocoder,
		logger:     logger,
	}
}

// CreateEvent geocodes the location and stores the event owned by organizerID.
// Geocoding failures are returned as-is and never retried.
func (es *EventService) CreateEvent(ctx context.Context, organizerID primitive.ObjectID, input CreateEventInput) (*models.Event, error) {
	if organizerID.IsZero() {
		return nil, models.NewError(models.ErrUnauthenticated, "Unauthorized access")
	}

	event := &models.Event{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date.UTC(),
		Location:    strings.TrimSpace(input.Location),
		Organizer:   organizerID,
	}
	if err := models.Validate.Struct(event); err != nil {
		return nil, helpers.ValidationFailure(err)
	}

	geo, err := es.geocoder.ForwardGeocode(ctx, event.Location)
	if err != nil {
		return nil, err
	}
	point, err := models.NewGeoPoint(geo.Lat, geo.Lng)
	if err != nil {
		return nil, models.WrapError(models.ErrGeocodeFailure, "Unable to geocode address", err)
	}
	event.Geo = point
	event.City = models.NormalizeCity(geo.City)

	created, err := es.eventsRepo.CreateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	es.logger.Info("Event created",
		"event_id", created.ID.Hex(),
		"organizer_id", organizerID.Hex(),
		"city", created.City,
	)
	return created, nil
}

// DeleteEvent removes an event. Only its organizer may delete it.
func (es *EventService) DeleteEvent(ctx context.Context, requesterID, eventID primitive.ObjectID) error {
	event, err := es.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Organizer != requesterID {
		return models.NewError(models.ErrForbidden, "You can only delete your own events")
	}
	return es.eventsRepo.DeleteEvent(ctx, eventID)
}

func (es *EventService) GetEvent(ctx context.Context, eventID primitive.ObjectID) (*models.EventView, error) {
	return es.eventsRepo.GetEventByID(ctx, eventID)
}

func (es *EventService) ListMyEvents(ctx context.Context, requesterID primitive.ObjectID, p models.Pagination) (*models.EventPage, error) {
	return es.eventsRepo.ListEventsByOrganizer(ctx, requesterID, p)
}

func (es *EventService) ListEvents(ctx context.Context, p models.Pagination) (*models.EventPage, error) {
	return es.eventsRepo.ListEvents(ctx, p)
}
