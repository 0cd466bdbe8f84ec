package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventspark/internal/helpers"
	"github.com/joshua-takyi/eventspark/internal/models"
	"github.com/joshua-takyi/eventspark/internal/services"
)

// SessionIssuer signs session tokens and decides how the cookie is sent.
type SessionIssuer struct {
	Tokens *helpers.TokenManager
	Secure bool
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Signup(u *services.UserService, session SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(helpers.ValidationFailure(err))
			return
		}

		user, err := u.Signup(c.Request.Context(), services.SignupInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		sendSession(c, session, user, http.StatusCreated)
	}
}

func Login(u *services.UserService, session SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(models.ValidationError("Please provide email and password"))
			return
		}

		user, err := u.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			_ = c.Error(err)
			return
		}
		sendSession(c, session, user, http.StatusOK)
	}
}

// Logout clears the session cookie. It needs no session of its own.
func Logout(session SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(helpers.AccessTokenCookie, "", -1, "/", "", session.Secure, true)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "User logged out"))
	}
}

func sendSession(c *gin.Context, session SessionIssuer, user *models.User, status int) {
	token, err := session.Tokens.IssueToken(user.ID.Hex(), user.Role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		helpers.AccessTokenCookie,
		token,
		int(session.Tokens.TTL().Seconds()),
		"/",
		"", // let Gin pick current domain
		session.Secure,
		true,
	)
	c.JSON(status, models.SuccessResponse(gin.H{"user": user, "token": token}, ""))
}
