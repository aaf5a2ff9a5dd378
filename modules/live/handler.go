package live

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionLocal is the fiber locals key holding the authenticated session id
// of an upgrade request.
const SessionLocal = "session_id"

// Handler returns the websocket endpoint. The route must set SessionLocal
// before the upgrade.
func (m *Module) Handler() fiber.Handler {
	return websocket.New(m.serve)
}

func (m *Module) serve(c *websocket.Conn) {
	sessionID, _ := c.Locals(SessionLocal).(string)
	if sessionID == "" {
		_ = c.Close()
		return
	}

	client := &Client{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Conn:      c,
	}

	hello, err := json.Marshal(Message{
		Type:      TypeConnected,
		Payload:   map[string]string{"session_id": sessionID, "client_id": client.ID},
		Timestamp: time.Now(),
	})
	if err == nil {
		if err := c.WriteMessage(websocket.TextMessage, hello); err != nil {
			_ = c.Close()
			return
		}
	}

	m.hub.Register(client)
	defer func() {
		m.hub.Unregister(client)
		_ = c.Close()
	}()

	// Inbound frames are ignored; reading detects the close.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[live] Client %s read error: %v", client.ID, err)
			}
			return
		}
	}
}
