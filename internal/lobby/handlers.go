package lobby

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Peppermint995/Scrbbl-Clone/internal/auth"
	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
	"github.com/Peppermint995/Scrbbl-Clone/internal/store"
)

type joinBody struct {
	RoomID      string `json:"roomId"`
	Private     bool   `json:"isPrivate"`
	Name        string `json:"name"`
	AvatarColor string `json:"avatarColor"`
	AvatarIcon  string `json:"avatarIcon"`
}

func (b joinBody) player(id string) room.Player {
	return room.Player{
		ID:          id,
		Name:        b.Name,
		AvatarColor: b.AvatarColor,
		AvatarIcon:  b.AvatarIcon,
	}
}

// JoinHandler handles POST /room/join: create-or-join by code. An empty
// code mints a private room code for the caller.
func (m *Manager) JoinHandler(c *fiber.Ctx) error {
	var body joinBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}
	if body.RoomID == "" {
		body.RoomID = room.NewCode()
		body.Private = true
	}

	rm, err := m.CreateOrJoin(c.Context(), body.RoomID, body.Private, body.player(auth.PlayerID(c)))
	if err != nil {
		if errors.Is(err, store.ErrRoomUnavailable) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "room unavailable"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "join failed"})
	}
	return c.JSON(fiber.Map{"roomId": rm.ID})
}

// QuickPlayHandler handles POST /room/quickplay: public matchmaking.
func (m *Manager) QuickPlayHandler(c *fiber.Ctx) error {
	var body joinBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}
	rm, err := m.QuickPlay(c.Context(), body.player(auth.PlayerID(c)))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "matchmaking failed"})
	}
	return c.JSON(fiber.Map{"roomId": rm.ID})
}

// RoomHandler handles GET /room/:id: a roster peek without joining. The
// secret never appears here.
func (m *Manager) RoomHandler(c *fiber.Ctx) error {
	rm, err := m.store.Read(c.Context(), room.NormalizeCode(c.Params("id")))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "room not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "read failed"})
	}
	return c.JSON(fiber.Map{
		"roomId":    rm.ID,
		"isPrivate": rm.Private,
		"players":   room.SortByScore(rm.Players),
	})
}

// LeaveHandler handles POST /room/:id/leave.
func (m *Manager) LeaveHandler(c *fiber.Ctx) error {
	if err := m.Leave(c.Context(), c.Params("id"), auth.PlayerID(c)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "room not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "leave failed"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
