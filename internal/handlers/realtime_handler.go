package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/genova-platform/genova_backend/internal/realtime"
	"github.com/genova-platform/genova_backend/internal/utils"
)

type RealtimeHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
}

func NewRealtimeHandler(hub *realtime.Hub, jwtSecret string) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub, JWTSecret: jwtSecret}
}

func (h *RealtimeHandler) Routes(r fiber.Router) {
	r.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws", websocket.New(h.WebSocketHandler))
}

// authenticate resolves the connecting user from the session cookie, or
// from a token query parameter for clients that cannot send cookies.
func (h *RealtimeHandler) authenticate(c *websocket.Conn) (uuid.UUID, bool) {
	raw := c.Cookies("gv_token")
	if raw == "" {
		raw = c.Query("token")
	}
	if raw == "" {
		return uuid.Nil, false
	}

	claims := &utils.Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, false
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return uid, true
}

type wsClientMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// WebSocketHandler upgrades the connection and services it until the
// client goes away. Clients pick which channels they hear about by
// sending subscribe/unsubscribe messages.
func (h *RealtimeHandler) WebSocketHandler(c *websocket.Conn) {
	uid, ok := h.authenticate(c)
	if !ok {
		log.Println("WebSocket: rejected unauthenticated connection")
		c.Close()
		return
	}

	client := realtime.NewClient(uid, realtime.NewWebSocketConn(c))

	h.Hub.RegisterClient(client)
	defer func() {
		h.Hub.UnregisterClient(client)
		log.Printf("WebSocket: user %s disconnected", uid)
	}()

	// Send messages from hub to client
	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Println("WebSocket write error:", err)
				return
			}
		}
	}()

	for {
		var msg wsClientMessage
		if err := c.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Type {
		case "subscribe":
			if msg.Channel != "" {
				client.Subscribe(msg.Channel)
			}
		case "unsubscribe":
			if msg.Channel != "" {
				client.Unsubscribe(msg.Channel)
			}
		case "pong":
			// connection is alive
		}
	}
}
