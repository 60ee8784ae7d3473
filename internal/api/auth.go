package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

const userIDKey = "userID"

// protected verifies the HS256 bearer token and stores its subject as the
// request's user ID.
func (s *Server) protected(secret []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    secret,
		SigningMethod: "HS256",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			s.logger.Debug("rejected token", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			userID, err := subject(c.Locals("user"))
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			}
			c.Locals(userIDKey, userID)
			return c.Next()
		},
	})
}

func subject(v any) (string, error) {
	token, ok := v.(*jwt.Token)
	if !ok {
		return "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

func currentUser(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
