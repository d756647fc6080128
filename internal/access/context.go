package access

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"gorm.io/gorm"
)

var ErrUnauthenticated = errors.New("no authenticated principal in request")

const scopeLocal = "access_scope"

// Resolve computes the acting principal's Scope from the verified JWT and
// the user row. The result is cached in the request locals so the check
// runs at most once per request.
func Resolve(c *fiber.Ctx, db *gorm.DB) (Scope, error) {
	if cached, ok := c.Locals(scopeLocal).(Scope); ok {
		return cached, nil
	}

	userID, err := UserIDFromToken(c)
	if err != nil {
		return Scope{}, err
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return Scope{}, ErrUnauthenticated
	}
	if !user.IsActive {
		return Scope{}, ErrUnauthenticated
	}

	scope := Scope{
		UserID: user.ID,
		Email:  user.Email,
		Admin:  user.IsStaff || user.IsSuperuser,
	}
	c.Locals(scopeLocal, scope)
	return scope, nil
}

// UserIDFromToken extracts the subject UUID from JWT claims in context.
func UserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}

	return uuid.Parse(sub)
}
