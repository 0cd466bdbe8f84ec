package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventspark/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ClaimsKey = "user"

// ParsePagination reads page and limit from the query string. Missing or
// malformed values fall back to defaults; limit is capped.
func ParsePagination(c *gin.Context) models.Pagination {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = models.DefaultPage
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = models.DefaultLimit
	}
	return models.NewPagination(page, limit)
}

// ParseObjectID reads a hex ObjectID path parameter.
func ParseObjectID(c *gin.Context, param string) (primitive.ObjectID, error) {
	raw := StringTrim(c.Param(param))
	if raw == "" {
		return primitive.NilObjectID, models.ValidationError("%s is required", param)
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, models.ValidationError("invalid %s format", param)
	}
	return id, nil
}

// CurrentUser returns the claims set by the auth middleware.
func CurrentUser(c *gin.Context) (*EnhancedClaims, error) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, models.NewError(models.ErrUnauthenticated, "Unauthorized access")
	}
	claims, ok := v.(*EnhancedClaims)
	if !ok {
		return nil, models.NewError(models.ErrUnauthenticated, "Invalid user claims")
	}
	return claims, nil
}
