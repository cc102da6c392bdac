package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts /ws/updates and /ws/assistant on app.
func RegisterRoutes(app fiber.Router, hub *Hub, stream *AssistantStream) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/updates", websocket.New(func(c *websocket.Conn) {
		hub.Serve(c)
	}))
	app.Get("/ws/assistant", websocket.New(func(c *websocket.Conn) {
		stream.Serve(c)
	}))
}
