package models

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventsColName = "events"
	GeoPointType  = "Point"
)

// GeoPoint is a GeoJSON point. Coordinates are [lng, lat].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// ValidateCoordinates rejects non-finite or out-of-range latitude/longitude.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return ValidationError("lat must be a number between -90 and 90")
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return ValidationError("lng must be a number between -180 and 180")
	}
	return nil
}

func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return GeoPoint{}, err
	}
	return GeoPoint{Type: GeoPointType, Coordinates: []float64{lng, lat}}, nil
}

func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[0]
}

func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[1]
}

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required,min=3,max=255"`
	Description string             `bson:"description,omitempty" json:"description,omitempty" validate:"max=5000"`
	Date        time.Time          `bson:"date" json:"date" validate:"required"`
	Location    string             `bson:"location" json:"location" validate:"required,max=255"`
	City        string             `bson:"city,omitempty" json:"city,omitempty" validate:"omitempty,lowercase"`
	Geo         GeoPoint           `bson:"geo" json:"geo"`
	Organizer   primitive.ObjectID `bson:"organizer" json:"organizer_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// NormalizeCity lowercases and trims a locality name.
func NormalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// Organizer is the public projection of a User joined onto events.
type Organizer struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// EventView is an Event as returned by read queries.
type EventView struct {
	Event         `bson:",inline"`
	OrganizerInfo *Organizer `bson:"organizer_info,omitempty" json:"organizer,omitempty"`
	DistanceKm    *float64   `bson:"distance_km,omitempty" json:"distance_km,omitempty"`
}

// EventPage is one page of a list query plus the unpaged total.
type EventPage struct {
	Events     []*EventView
	Total      int64
	Pagination Pagination
}

func (p *EventPage) TotalPages() int {
	return p.Pagination.TotalPages(p.Total)
}
