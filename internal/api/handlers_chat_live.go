package api

import (
	"context"
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) upgradeLiveChat(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if _, err := handler.authenticateRequest(c); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	if !handler.assistant.Configured() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}
	return c.Next()
}

// LiveChat relays one voice conversation: binary frames from the client are
// PCM16 microphone chunks forwarded to the model, binary frames back to the
// client are the model's spoken reply. The session ends when either side
// closes or errors.
func (handler *Handler) LiveChat(conn *websocket.Conn) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := handler.assistant.ConnectLive(ctx)
	if err != nil {
		log.Printf("live chat connect failed: %v", err)
		return
	}
	defer session.Close()

	go func() {
		defer cancel()
		for {
			chunks, err := session.ReceiveAudio()
			if err != nil {
				return
			}
			for _, chunk := range chunks {
				if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		if messageType != websocket.BinaryMessage || len(payload) == 0 {
			continue
		}
		if err := session.SendAudio(payload); err != nil {
			log.Printf("live chat send failed: %v", err)
			return
		}
	}
}
