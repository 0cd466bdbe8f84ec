package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joshua-takyi/eventspark/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, repo *memoryEvents, title, city string, lat, lng float64, date time.Time) {
	t.Helper()
	geo, err := models.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	_, err = repo.CreateEvent(context.Background(), &models.Event{
		Title: title, Date: date, Location: title, City: city, Geo: geo,
	})
	require.NoError(t, err)
}

func newDiscoveryFixture(t *testing.T) (*DiscoveryService, *stubGeocoder) {
	repo := newMemoryEvents()
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	seedEvent(t, repo, "Louvre late", "paris", 48.8606, 2.3376, base.Add(48*time.Hour))
	seedEvent(t, repo, "Canal walk", "paris", 48.8722, 2.3650, base)
	seedEvent(t, repo, "Versailles tour", "versailles", 48.8049, 2.1204, base.Add(time.Hour))
	seedEvent(t, repo, "Thames cruise", "london", 51.5072, -0.1276, base)

	geo := &stubGeocoder{reverse: "Paris"}
	return NewDiscoveryService(repo, geo, discardLogger()), geo
}

func TestDiscover_CityStrategy(t *testing.T) {
	svc, _ := newDiscoveryFixture(t)

	res, err := svc.Discover(context.Background(), DiscoveryQuery{
		City: "Paris", Pagination: models.NewPagination(1, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, StrategyCity, res.Strategy)
	assert.Equal(t, "Paris", res.City)
	assert.Nil(t, res.RadiusKm)
	require.Len(t, res.Page.Events, 2)
	assert.Equal(t, "Canal walk", res.Page.Events[0].Title)
	assert.Equal(t, "Louvre late", res.Page.Events[1].Title)
	for _, e := range res.Page.Events {
		assert.Equal(t, "paris", e.City)
	}
}

func TestDiscover_RadiusStrategy(t *testing.T) {
	svc, _ := newDiscoveryFixture(t)

	res, err := svc.Discover(context.Background(), DiscoveryQuery{
		Lat: "48.8566", Lng: "2.3522", RadiusKm: "5", Pagination: models.NewPagination(1, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, StrategyRadius, res.Strategy)
	assert.Equal(t, "Paris", res.City)
	require.NotNil(t, res.RadiusKm)
	assert.Equal(t, 5.0, *res.RadiusKm)
	require.Len(t, res.Page.Events, 2)
	for _, e := range res.Page.Events {
		require.NotNil(t, e.DistanceKm)
		assert.LessOrEqual(t, *e.DistanceKm, 5.0)
	}
}

func TestDiscover_DefaultRadiusCoversSuburbs(t *testing.T) {
	svc, _ := newDiscoveryFixture(t)

	res, err := svc.Discover(context.Background(), DiscoveryQuery{
		Lat: "48.8566", Lng: "2.3522", Pagination: models.NewPagination(1, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultRadiusKm, *res.RadiusKm)
	assert.Len(t, res.Page.Events, 3)
}

func TestDiscover_UnknownLabel(t *testing.T) {
	svc, geo := newDiscoveryFixture(t)

	geo.reverse = ""
	res, err := svc.Discover(context.Background(), DiscoveryQuery{
		Lat: "0", Lng: "0", Pagination: models.NewPagination(1, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, UnknownCity, res.City)
	assert.Empty(t, res.Page.Events)

	geo.reverseErr = models.WrapError(models.ErrUpstreamUnavailable, "geocoder down", errors.New("502"))
	res, err = svc.Discover(context.Background(), DiscoveryQuery{
		Lat: "48.8566", Lng: "2.3522", Pagination: models.NewPagination(1, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, UnknownCity, res.City)
	assert.NotEmpty(t, res.Page.Events)
}

func TestDiscover_InvalidQueries(t *testing.T) {
	svc, _ := newDiscoveryFixture(t)
	p := models.NewPagination(1, 10)

	tests := []struct {
		name  string
		query DiscoveryQuery
	}{
		{"empty", DiscoveryQuery{}},
		{"lat only", DiscoveryQuery{Lat: "48.8"}},
		{"city with one coordinate", DiscoveryQuery{City: "paris", Lng: "2.3"}},
		{"non-numeric lat", DiscoveryQuery{Lat: "north", Lng: "2.3"}},
		{"out of range lat", DiscoveryQuery{Lat: "91", Lng: "2.3"}},
		{"out of range lng", DiscoveryQuery{Lat: "48", Lng: "-181"}},
		{"NaN", DiscoveryQuery{Lat: "NaN", Lng: "2.3"}},
		{"zero radius", DiscoveryQuery{Lat: "48", Lng: "2", RadiusKm: "0"}},
		{"negative radius", DiscoveryQuery{Lat: "48", Lng: "2", RadiusKm: "-4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.Pagination = p
			_, err := svc.Discover(context.Background(), tt.query)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestDiscover_MissingCoordinatesMessage(t *testing.T) {
	svc, _ := newDiscoveryFixture(t)
	_, err := svc.Discover(context.Background(), DiscoveryQuery{})
	assert.Equal(t, "lat and lng are required", models.PublicMessage(err))
}
