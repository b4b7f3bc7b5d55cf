package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
)

const (
	userIDKey      = "userId"
	userEmailKey   = "userEmail"
	userNameKey    = "userName"
	userPictureKey = "userPicture"
)

// RevocationCheck reports whether a token id has been signed out.
type RevocationCheck func(ctx context.Context, tokenID string) bool

// AuthOption customizes the Auth middleware.
type AuthOption func(*authOptions)

type authOptions struct {
	revoked RevocationCheck
	public  []string
}

// WithRevocationCheck rejects bearer tokens whose id has been revoked.
func WithRevocationCheck(check RevocationCheck) AuthOption {
	return func(o *authOptions) { o.revoked = check }
}

// WithPublicPaths lets requests under the given prefixes through without identity.
// Credentials that are present are still applied.
func WithPublicPaths(prefixes ...string) AuthOption {
	return func(o *authOptions) { o.public = append(o.public, prefixes...) }
}

// Auth validates JWTs or guest headers and stores identity in context.
func Auth(env string, opts ...AuthOption) gin.HandlerFunc {
	options := authOptions{public: []string{"/api/v1/auth/google/"}}
	for _, opt := range opts {
		opt(&options)
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		public := false
		for _, prefix := range options.public {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				public = true
				break
			}
		}
		reject := func(message string) {
			if public {
				c.Next()
				return
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", message, nil)
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))

		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				reject("missing or invalid token")
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if token == "" {
				reject("missing or invalid token")
				return
			}

			claims, err := auth.VerifyJWT(token)
			if err != nil {
				reject("missing or invalid token")
				return
			}
			if options.revoked != nil && options.revoked(c.Request.Context(), claims.ID) {
				reject("missing or invalid token")
				return
			}

			c.Set(userIDKey, claims.Subject)
			if claims.Email != "" {
				c.Set(userEmailKey, claims.Email)
			}
			if claims.Name != "" {
				c.Set(userNameKey, claims.Name)
			}
			if claims.Picture != "" {
				c.Set(userPictureKey, claims.Picture)
			}
			c.Set("isGuest", false)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			reject("Missing identity")
			return
		}

		c.Set(userIDKey, "guest:"+guestID)
		c.Set("isGuest", true)
		c.Next()
	}
}

// IsGuest reports whether the request was identified by a guest header.
func IsGuest(c *gin.Context) bool {
	v, ok := c.Get("isGuest")
	if !ok {
		return false
	}
	guest, _ := v.(bool)
	return guest
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userNameKey)
	if name, ok := val.(string); ok {
		return name
	}
	return ""
}

// UserPictureFromContext fetches the user picture set by the auth middleware.
func UserPictureFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userPictureKey)
	if picture, ok := val.(string); ok {
		return picture
	}
	return ""
}
