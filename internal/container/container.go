package container

import (
	"log/slog"

	"github.com/joshua-takyi/eventspark/internal/config"
	"github.com/joshua-takyi/eventspark/internal/genai"
	"github.com/joshua-takyi/eventspark/internal/geocoder"
	"github.com/joshua-takyi/eventspark/internal/helpers"
	"github.com/joshua-takyi/eventspark/internal/models"
	"github.com/joshua-takyi/eventspark/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository is the persistence the services need.
type Repository interface {
	models.EventsRepo
	models.UserRepo
}

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Tokens           *helpers.TokenManager
	UserService      *services.UserService
	EventService     *services.EventService
	DiscoveryService *services.DiscoveryService
	CityGuideService *services.CityGuideService
}

// NewContainer wires the MongoDB repository and the HTTP providers named in
// cfg. The city guide is left unconfigured without a Gemini key.
func NewContainer(cfg *config.Config, logger *slog.Logger, mongoDBClient *mongo.Client) *Container {
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBDatabase)

	geo := geocoder.NewClient(geocoder.Config{
		BaseURL:   cfg.GeocoderBaseURL,
		UserAgent: cfg.GeocoderUserAgent,
		Timeout:   cfg.GeocoderTimeout,
	}, nil)

	var generator services.TextGenerator
	if cfg.CityGuideEnabled() {
		generator = genai.NewClient(genai.Config{
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			APIKey:  cfg.GeminiAPIKey,
		}, nil)
	} else {
		logger.Warn("GEMINI_API_KEY not set, city guide disabled")
	}

	return New(cfg, logger, repo, geo, generator)
}

// New builds the services on top of the given dependencies. generator may be
// nil.
func New(cfg *config.Config, logger *slog.Logger, repo Repository, geo services.Geocoder, generator services.TextGenerator) *Container {
	return &Container{
		Config:           cfg,
		Logger:           logger,
		Tokens:           helpers.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn),
		UserService:      services.NewUserService(repo, logger),
		EventService:     services.NewEventService(repo, geo, logger),
		DiscoveryService: services.NewDiscoveryService(repo, geo, logger),
		CityGuideService: services.NewCityGuideService(generator, geo, logger),
	}
}
