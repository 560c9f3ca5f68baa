package middleware

import (
	"errors"
	"strings"
	"time"

	"estates-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	authHeader   = "Authorization"
	bearerPrefix = "Bearer "

	// Locals keys populated by RequireAuth.
	LocalUserID = "auth_user_id"
	LocalRole   = "auth_role"
)

// Claims is the JWT payload: subject carries the user id, Role the role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for the given user, expiring in 24h.
func GenerateToken(secret, userID, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// RequireAuth validates a Bearer token, enforces HS256 and populates
// Locals with the caller's user id and role. 401 on any failure.
func RequireAuth(secret string) fiber.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return func(c *fiber.Ctx) error {
		h := c.Get(authHeader)
		if h == "" || !strings.HasPrefix(h, bearerPrefix) {
			return response.Error(c, fiber.StatusUnauthorized, "Not authorized, no token")
		}
		raw := strings.TrimSpace(h[len(bearerPrefix):])

		var claims Claims
		token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			return response.Error(c, fiber.StatusUnauthorized, "Token failed")
		}

		c.Locals(LocalUserID, claims.Subject)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}
