package helpers

import (
	"github.com/joshua-takyi/eventspark/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnhancedClaims is the verified token plus the user it was issued to.
type EnhancedClaims struct {
	*CustomClaims
	UserID primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Role   string             `json:"role"`
}

func NewEnhancedClaims(claims *CustomClaims, user *models.User) *EnhancedClaims {
	return &EnhancedClaims{
		CustomClaims: claims,
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
	}
}

func (ec *EnhancedClaims) IsAdmin() bool {
	return ec.Role == models.RoleAdmin
}

func (ec *EnhancedClaims) IsOwner(userID primitive.ObjectID) bool {
	return ec.UserID == userID
}
