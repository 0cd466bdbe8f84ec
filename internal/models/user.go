package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name" validate:"required,min=2"`
	Email             string             `bson:"email" json:"email" validate:"required,email,lowercase"`
	Password          string             `bson:"password" json:"-"`
	Role              string             `bson:"role" json:"role" validate:"required,oneof=user admin"`
	IsActive          bool               `bson:"is_active" json:"is_active"`
	PasswordChangedAt *time.Time         `bson:"password_changed_at,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// ChangedPasswordAfter reports whether the password changed after a token
// issued at issuedAt. Compared at second precision, like JWT iat.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
