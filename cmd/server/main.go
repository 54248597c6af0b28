package main

import (
	"context"
	"os"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/Peppermint995/Scrbbl-Clone/internal/auth"
	"github.com/Peppermint995/Scrbbl-Clone/internal/lobby"
	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
	"github.com/Peppermint995/Scrbbl-Clone/internal/session"
	"github.com/Peppermint995/Scrbbl-Clone/internal/store"
	"github.com/Peppermint995/Scrbbl-Clone/logger"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	addr := env("ADDR", ":3000")
	secret := env("JWT_SECRET", "dev-secret-change-me")

	var st store.Store
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		st = store.NewRedis(redisAddr)
		logger.Info("using redis store at %s", redisAddr)
	} else {
		st = store.NewMemory()
		logger.Info("REDIS_ADDR not set, using in-memory store")
	}

	issuer := auth.NewIssuer(secret)
	manager := lobby.NewManager(st)

	app := fiber.New()
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Post("/auth/guest", issuer.GuestHandler)

	app.Use(issuer.Middleware())

	app.Post("/room/join", manager.JoinHandler)
	app.Post("/room/quickplay", manager.QuickPlayHandler)
	app.Get("/room/:id", manager.RoomHandler)
	app.Post("/room/:id/leave", manager.LeaveHandler)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("playerId", auth.PlayerID(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/:roomId", websocket.New(func(c *websocket.Conn) {
		roomID := room.NormalizeCode(c.Params("roomId"))
		playerID, _ := c.Locals("playerId").(string)
		if playerID == "" {
			c.Close()
			return
		}

		initial, err := st.Read(context.Background(), roomID)
		if err != nil {
			logger.Info("ws: room %s not readable: %v", roomID, err)
			c.Close()
			return
		}
		if !initial.HasPlayer(playerID) {
			logger.Info("ws: %s is not a member of %s", playerID, roomID)
			c.Close()
			return
		}

		sess := session.New(st, initial, playerID)
		session.NewClient(sess, c).Run()
	}))

	logger.Info("server listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
