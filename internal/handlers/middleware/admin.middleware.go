package middleware

import (
	"errors"
	"strings"
	"time"

	. "lumen/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const StaffClaimsKey = "staffClaims"

type StaffClaims struct {
	Role UserRole `json:"role"`
	jwt.RegisteredClaims
}

var ErrInsufficientRole = errors.New("token role is not ADMIN or STAFF")

// IssueStaffToken signs an HS256 token carrying the given role.
func IssueStaffToken(secret, subject string, role UserRole, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := StaffClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "lumen",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseStaffToken verifies the signature and expiry and requires an ADMIN or STAFF role.
func ParseStaffToken(secret, token string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	if claims.Role != UserRoleAdmin && claims.Role != UserRoleStaff {
		return nil, ErrInsufficientRole
	}

	return claims, nil
}

// RequireAdmin guards staff-only routes. With no ADMIN_JWT_SECRET configured
// the guard lets every request through.
func (m *Middleware) RequireAdmin() fiber.Handler {
	secret := m.Config.AdminJWTSecret
	if secret == "" {
		m.log.Function("RequireAdmin").Warn("ADMIN_JWT_SECRET is empty, admin routes are open")
	}

	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		log := m.log.TraceFromContext(c.UserContext()).Function("RequireAdmin")

		scheme, token, found := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		claims, err := ParseStaffToken(secret, strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, ErrInsufficientRole) {
				log.Info("token role rejected")
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Admin access required",
				})
			}
			log.Info("token validation failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(StaffClaimsKey, claims)
		return c.Next()
	}
}
