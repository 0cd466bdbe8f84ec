package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/eventspark/internal/helpers"
	"github.com/joshua-takyi/eventspark/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RequestIDKey = "request_id"

// UserLookup loads the account behind a session token.
type UserLookup interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		logger.Info("HTTP Request",
			"request_id", c.GetString(RequestIDKey),
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler turns the last error pushed by a handler into a JSON response.
// Client errors are logged at warn, everything else at error with the cause.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		requestID := c.GetString(RequestIDKey)
		status := helpers.StatusFor(err)

		attrs := []any{
			"request_id", requestID,
			"status", status,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Request error", attrs...)
		} else {
			logger.Warn("Request failed", attrs...)
		}

		if c.Writer.Written() {
			return
		}
		res := models.ErrorResponse(status, helpers.ClientMessage(err))
		res.RequestID = requestID
		c.JSON(status, res)
	}
}

// AuthMiddleware accepts the session cookie or a bearer token and stores the
// caller's claims under helpers.ClaimsKey.
func AuthMiddleware(tokens *helpers.TokenManager, users UserLookup, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthenticated(c, "You are not logged in. Please log in to get access.")
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			logger.Debug("Rejected session token", "error", err)
			abortUnauthenticated(c, "Invalid or expired token. Please log in again.")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			abortUnauthenticated(c, "Invalid or expired token. Please log in again.")
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			if models.PublicMessage(err) == "" {
				_ = c.Error(err)
				c.Abort()
				return
			}
			abortUnauthenticated(c, "The user belonging to this token no longer exists.")
			return
		}
		if !user.IsActive {
			abortUnauthenticated(c, "This account has been deactivated.")
			return
		}
		if user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			abortUnauthenticated(c, "Password recently changed. Please log in again.")
			return
		}

		c.Set(helpers.ClaimsKey, helpers.NewEnhancedClaims(claims, user))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func abortUnauthenticated(c *gin.Context, msg string) {
	_ = c.Error(models.NewError(models.ErrUnauthenticated, msg))
	c.Abort()
}

// BodyLimit caps request bodies at limit bytes.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				models.ErrorResponse(http.StatusRequestEntityTooLarge, "Request body too large"))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cross-Origin-Resource-Policy", "same-origin")
		c.Next()
	}
}
