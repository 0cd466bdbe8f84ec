package services

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/joshua-takyi/eventspark/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	StrategyCity   = "city"
	StrategyRadius = "radius"

	DefaultRadiusKm = 25.0
	UnknownCity     = "Unknown"
)

// DiscoveryQuery holds the raw query parameters of a discovery request.
type DiscoveryQuery struct {
	City       string
	Lat        string
	Lng        string
	RadiusKm   string
	Pagination models.Pagination
}

type DiscoveryResult struct {
	Strategy string
	City     string
	// RadiusKm is set for the radius strategy only.
	RadiusKm *float64
	Page     *models.EventPage
}

type DiscoveryService struct {
	eventsRepo models.EventsRepo
	geocoder   Geocoder
	logger     *slog.Logger
}

func NewDiscoveryService(eventsRepo models.EventsRepo, geocoder Geocoder, logger *slog.Logger) *DiscoveryService {
	return &DiscoveryService{
		eventsRepo: eventsRepo,
		geocoder:   geocoder,
		logger:     logger,
	}
}

// Discover picks a strategy from the query. A city with no coordinates is
// searched by name; coordinates are searched by distance.
func (ds *DiscoveryService) Discover(ctx context.Context, q DiscoveryQuery) (*DiscoveryResult, error) {
	city := strings.TrimSpace(q.City)
	lat := strings.TrimSpace(q.Lat)
	lng := strings.TrimSpace(q.Lng)

	switch {
	case city != "" && lat == "" && lng == "":
		return ds.byCity(ctx, city, q.Pagination)
	case lat != "" && lng != "":
		return ds.byRadius(ctx, lat, lng, strings.TrimSpace(q.RadiusKm), q.Pagination)
	default:
		return nil, models.ValidationError("lat and lng are required")
	}
}

func (ds *DiscoveryService) byCity(ctx context.Context, city string, p models.Pagination) (*DiscoveryResult, error) {
	page, err := ds.eventsRepo.ListEventsByCity(ctx, models.NormalizeCity(city), p)
	if err != nil {
		return nil, err
	}
	return &DiscoveryResult{Strategy: StrategyCity, City: city, Page: page}, nil
}

func (ds *DiscoveryService) byRadius(ctx context.Context, rawLat, rawLng, rawRadius string, p models.Pagination) (*DiscoveryResult, error) {
	lat, err := parseCoordinate(rawLat, "lat")
	if err != nil {
		return nil, err
	}
	lng, err := parseCoordinate(rawLng, "lng")
	if err != nil {
		return nil, err
	}
	radiusKm, err := parseRadius(rawRadius)
	if err != nil {
		return nil, err
	}
	center, err := models.NewGeoPoint(lat, lng)
	if err != nil {
		return nil, err
	}

	result := &DiscoveryResult{Strategy: StrategyRadius, City: UnknownCity, RadiusKm: &radiusKm}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := ds.eventsRepo.ListEventsWithinRadius(gctx, center, radiusKm*1000, p)
		if err != nil {
			return err
		}
		result.Page = page
		return nil
	})

	var label string
	// The label is best-effort: geocoder errors never fail the request.
	g.Go(func() error {
		city, found, err := ds.geocoder.ReverseGeocode(gctx, lat, lng)
		if err != nil {
			ds.logger.Warn("Reverse geocoding failed", "lat", lat, "lng", lng, "error", err)
			return nil
		}
		if found {
			label = city
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if label != "" {
		result.City = label
	}
	return result, nil
}

func parseCoordinate(raw, name string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, models.ValidationError("%s must be a valid number", name)
	}
	return v, nil
}

func parseRadius(raw string) (float64, error) {
	if raw == "" {
		return DefaultRadiusKm, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, models.ValidationError("radiusKm must be a positive number")
	}
	return v, nil
}
