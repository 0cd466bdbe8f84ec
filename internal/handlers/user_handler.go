package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventspark/internal/helpers"
	"github.com/joshua-takyi/eventspark/internal/models"
	"github.com/joshua-takyi/eventspark/internal/services"
)

// Profile returns the authenticated user.
func Profile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := helpers.CurrentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		user, err := u.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"user": user}, ""))
	}
}
