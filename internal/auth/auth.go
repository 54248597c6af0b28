// Package auth adapts the identity boundary: a guest handshake that mints
// a stable opaque participant id and a signed token carrying it. The rest
// of the system only ever sees the id.
package auth

import (
	"errors"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrAuthFailure = errors.New("auth failure")

type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Guest issues a fresh participant id and a token bound to it. The id is
// stable for the session; nothing else about the participant is recorded.
func (i *Issuer) Guest(name string) (id, token string, err error) {
	id = uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  id,
		"name": name,
		"iat":  time.Now().Unix(),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", "", ErrAuthFailure
	}
	return id, token, nil
}

// Verify checks a raw token and returns the participant id it carries.
func (i *Issuer) Verify(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAuthFailure
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", ErrAuthFailure
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrAuthFailure
	}
	return sub, nil
}

// Middleware guards routes: requests without a valid bearer token never
// reach a handler. Tokens are also accepted via the "token" query param so
// websocket clients can authenticate the upgrade request.
func (i *Issuer) Middleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: i.secret},
		TokenLookup: "header:Authorization,query:token",
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "auth failure"})
		},
	})
}

// PlayerID extracts the participant id the middleware validated.
func PlayerID(c *fiber.Ctx) string {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// PlayerName extracts the display name claim, if present.
func PlayerName(c *fiber.Ctx) string {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	name, _ := claims["name"].(string)
	return name
}

// GuestHandler handles POST /auth/guest, the one unauthenticated route.
func (i *Issuer) GuestHandler(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}
	id, token, err := i.Guest(body.Name)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "auth failure"})
	}
	return c.JSON(fiber.Map{"playerId": id, "token": token})
}
