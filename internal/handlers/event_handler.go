package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventspark/internal/helpers"
	"github.com/joshua-takyi/eventspark/internal/models"
	"github.com/joshua-takyi/eventspark/internal/services"
)

// Accepted event date layouts, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

type createEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"`
	Location    string `json:"location" binding:"required"`
}

func parseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, models.ValidationError("date must be an ISO 8601 date")
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := helpers.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		var req createEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(helpers.ValidationFailure(err))
			return
		}
		date, err := parseEventDate(req.Date)
		if err != nil {
			_ = c.Error(err)
			return
		}

		event, err := es.CreateEvent(c.Request.Context(), claims.UserID, services.CreateEventInput{
			Title:       req.Title,
			Description: req.Description,
			Date:        date,
			Location:    req.Location,
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{"event": event}, "Event created"))
	}
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := es.ListEvents(c.Request.Context(), helpers.ParsePagination(c))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(page))
	}
}

// DiscoverEvents finds events by city or around a point.
func DiscoverEvents(ds *services.DiscoveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := ds.Discover(c.Request.Context(), services.DiscoveryQuery{
			City:       c.Query("city"),
			Lat:        c.Query("lat"),
			Lng:        c.Query("lng"),
			RadiusKm:   c.Query("radiusKm"),
			Pagination: helpers.ParsePagination(c),
		})
		if err != nil {
			_ = c.Error(err)
			return
		}

		res := models.PaginatedResponse(result.Page)
		res.Strategy = result.Strategy
		res.City = result.City
		if result.RadiusKm != nil {
			res.RadiusKm = *result.RadiusKm
		}
		c.JSON(http.StatusOK, res)
	}
}

func ListMyEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := helpers.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		page, err := es.ListMyEvents(c.Request.Context(), claims.UserID, helpers.ParsePagination(c))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(page))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := helpers.ParseObjectID(c, "id")
		if err != nil {
			_ = c.Error(err)
			return
		}

		event, err := es.GetEvent(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"event": event}, ""))
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := helpers.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		id, err := helpers.ParseObjectID(c, "id")
		if err != nil {
			_ = c.Error(err)
			return
		}

		if err := es.DeleteEvent(c.Request.Context(), claims.UserID, id); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event deleted"))
	}
}
