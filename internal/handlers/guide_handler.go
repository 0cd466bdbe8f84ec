package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventspark/internal/helpers"
	"github.com/joshua-takyi/eventspark/internal/models"
	"github.com/joshua-takyi/eventspark/internal/services"
)

type cityGuideRequest struct {
	City   string `json:"city"`
	Coords *struct {
		Lat float64 `json:"lat" binding:"latitude"`
		Lng float64 `json:"lng" binding:"longitude"`
	} `json:"coords"`
}

func CityGuide(cs *services.CityGuideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cityGuideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(helpers.ValidationFailure(err))
			return
		}

		input := services.CityGuideInput{City: req.City}
		if req.Coords != nil {
			input.Lat, input.Lng = &req.Coords.Lat, &req.Coords.Lng
		}
		writeGuide(c, cs, input)
	}
}

// CityGuideQuery is the query-string variant. Unparseable coordinates are
// ignored and fall through to the city parameter.
func CityGuideQuery(cs *services.CityGuideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := services.CityGuideInput{City: c.Query("city")}
		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
		if latErr == nil && lngErr == nil && models.ValidateCoordinates(lat, lng) == nil {
			input.Lat, input.Lng = &lat, &lng
		}
		if input.Lat != nil {
			// Coordinates take priority over a city name here.
			input.City = ""
		}
		writeGuide(c, cs, input)
	}
}

func writeGuide(c *gin.Context, cs *services.CityGuideService, input services.CityGuideInput) {
	guide, err := cs.Guide(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(guide, ""))
}
