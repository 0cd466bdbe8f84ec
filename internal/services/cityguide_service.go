package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/eventspark/internal/genai"
	"github.com/joshua-takyi/eventspark/internal/models"
)

// TextGenerator produces free-form text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (genai.Completion, error)
}

// CityGuideInput names a city directly or by coordinates. Guide uses City
// when it is set; callers that prefer coordinates leave City empty.
type CityGuideInput struct {
	City string
	Lat  *float64
	Lng  *float64
}

type CityGuideService struct {
	generator TextGenerator
	geocoder  Geocoder
	logger    *slog.Logger
}

// NewCityGuideService accepts a nil generator; the service then reports
// itself unavailable.
func NewCityGuideService(generator TextGenerator, geocoder Geocoder, logger *slog.Logger) *CityGuideService {
	return &CityGuideService{
		generator: generator,
		geocoder:  geocoder,
		logger:    logger,
	}
}

func (cs *CityGuideService) Available() bool {
	return cs.generator != nil
}

func (cs *CityGuideService) Guide(ctx context.Context, input CityGuideInput) (json.RawMessage, error) {
	if !cs.Available() {
		return nil, models.NewError(models.ErrFeatureUnavailable,
			"AI city guide features are not available. GEMINI_API_KEY is not configured.")
	}

	city, err := cs.resolveCity(ctx, input)
	if err != nil {
		return nil, err
	}

	completion, err := cs.generator.GenerateText(ctx, cityGuidePrompt(city))
	if err != nil {
		return nil, err
	}
	if completion.Empty {
		cs.logger.Error("Empty AI response", "city", city)
		return nil, models.NewError(models.ErrUpstreamUnavailable, "Empty AI response from model")
	}

	payload, ok := genai.ExtractJSON(completion.Text)
	if !ok {
		cs.logger.Error("Could not parse AI JSON", "city", city, "response_length", len(completion.Text))
		return nil, models.NewError(models.ErrUpstreamUnavailable, "Failed to parse AI JSON")
	}
	return payload, nil
}

func (cs *CityGuideService) resolveCity(ctx context.Context, input CityGuideInput) (string, error) {
	if city := strings.TrimSpace(input.City); city != "" {
		return city, nil
	}
	if input.Lat != nil && input.Lng != nil {
		if err := models.ValidateCoordinates(*input.Lat, *input.Lng); err != nil {
			return "", err
		}
		city, found, err := cs.geocoder.ReverseGeocode(ctx, *input.Lat, *input.Lng)
		if err != nil {
			return "", err
		}
		if found {
			return city, nil
		}
	}
	return "", models.ValidationError("City not provided or resolvable")
}

func cityGuidePrompt(city string) string {
	return fmt.Sprintf(
		"You are a local travel guide. Return only a JSON object describing %s with the keys "+
			"\"city\", \"summary\", \"neighborhoods\", \"food\", \"activities\" and \"tips\". "+
			"Each list holds short strings.", city)
}
