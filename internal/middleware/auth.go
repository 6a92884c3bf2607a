package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"siteadmin/internal/config"
	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/metrics"
	"siteadmin/internal/models"
	"siteadmin/internal/permission"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey  = "userID"
	EmailKey   = "email"
	SubjectKey = "subject"
)

const tokenIssuer = "siteadmin-api"

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret.Value())
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID      string          `json:"user_id"`
	Email       string          `json:"email"`
	Role        permission.Role `json:"role"`
	Permissions permission.Map  `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a signed token carrying the user's role and
// permission map. It returns the token and its expiry.
func GenerateAccessToken(user *models.AdminUser) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(config.Get().JWTExpirationDur)

	claims := &JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
		},
	}
	if user.Role == permission.RoleCustom {
		claims.Permissions = user.PermissionMap().Normalize()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(getJWTKey())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccessToken validates a token string and returns its claims.
func ParseAccessToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// AuthMiddleware verifies the bearer token and stores the caller's id and
// permission subject in the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			AbortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			AbortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims, err := ParseAccessToken(parts[1])
		if err != nil {
			AbortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		subject := permission.NewSubject(claims.Role, claims.Permissions)
		if subject == nil || claims.UserID == "" {
			AbortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(SubjectKey, subject)
		c.Next()
	}
}

// UserLookup loads an admin user by id.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.AdminUser, error)
}

// ActiveUser reloads the caller named by the token and rejects the request
// when the account was deleted or deactivated. The stored role and
// permissions replace the ones carried in the token. It must run after
// AuthMiddleware.
func ActiveUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.GetUserByID(c.Request.Context(), c.GetString(UserIDKey))
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				AbortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Account no longer exists"))
				return
			}
			AbortWithError(c, err)
			return
		}
		subject := user.Subject()
		if !user.IsActive || subject == nil {
			AbortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Account is disabled"))
			return
		}

		c.Set(EmailKey, user.Email)
		c.Set(SubjectKey, subject)
		c.Next()
	}
}

// SubjectFrom returns the permission subject stored by AuthMiddleware, or
// nil when the request is unauthenticated.
func SubjectFrom(c *gin.Context) permission.Subject {
	v, ok := c.Get(SubjectKey)
	if !ok {
		return nil
	}
	s, _ := v.(permission.Subject)
	return s
}

// RequirePermission rejects the request with 403 unless the caller may
// perform level on page.
func RequirePermission(page permission.PageName, level permission.Level) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !permission.HasPermission(SubjectFrom(c), page, level) {
			metrics.AccessDenied.WithLabelValues(string(page), string(level)).Inc()
			AbortWithError(c, apperrors.Forbidden(string(page), string(level)))
			return
		}
		c.Next()
	}
}
