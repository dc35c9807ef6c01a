package middleware

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"application-tracking-api/config"
	"application-tracking-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by the access tokens the auth service issues. This API
// never issues tokens, it only verifies them.
type Claims struct {
	UserID      int    `json:"user_id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the Bearer token and refreshes the local
// identity cache from its claims.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check Bearer prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		// Parse token
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || claims.UserID <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		syncIdentity(claims)

		// Set user info in context
		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("displayName", strings.TrimSpace(claims.FirstName+" "+claims.LastName))
		c.Set("isSuperuser", claims.IsSuperuser)

		c.Next()
	}
}

// syncIdentity upserts the identity cache row for the verified claims.
// The cache only feeds reminder emails, so a failed write is logged
// instead of failing the request.
func syncIdentity(claims *Claims) {
	now := time.Now()

	var user models.User
	err := config.DB.Where("user_id = ?", claims.UserID).First(&user).Error
	if err != nil {
		user = models.User{
			UserID:      claims.UserID,
			Email:       claims.Email,
			FirstName:   claims.FirstName,
			LastName:    claims.LastName,
			IsSuperuser: claims.IsSuperuser,
			LastSeenAt:  &now,
			CreateAt:    &now,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			log.Printf("identity cache insert failed for user %d: %v", claims.UserID, err)
		}
		return
	}

	changed := user.Email != claims.Email ||
		user.FirstName != claims.FirstName ||
		user.LastName != claims.LastName ||
		user.IsSuperuser != claims.IsSuperuser
	stale := user.LastSeenAt == nil || now.Sub(*user.LastSeenAt) > time.Hour
	if !changed && !stale {
		return
	}

	user.Email = claims.Email
	user.FirstName = claims.FirstName
	user.LastName = claims.LastName
	user.IsSuperuser = claims.IsSuperuser
	user.LastSeenAt = &now
	user.UpdateAt = &now
	if err := config.DB.Save(&user).Error; err != nil {
		log.Printf("identity cache update failed for user %d: %v", claims.UserID, err)
	}
}

// RequireAdmin allows only superusers past this point.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isSuperuser, exists := c.Get("isSuperuser")
		if !exists || !isSuperuser.(bool) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
