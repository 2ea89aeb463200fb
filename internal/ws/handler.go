package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"collab-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			// Allow localhost variations for development.
			return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
		},
	}
}

// ServeWS upgrades the request and hands the connection to the hub. The
// connection starts unjoined; the client's first join-document or join-room
// event binds it to a room.
func ServeWS(hub *session.Hub, allowedOrigins []string, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	upgrader := newUpgrader(allowedOrigins)

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}

		client := newClient(hub, conn, logger)
		sc := hub.Connect(client)
		client.connID = sc.ID

		go client.writePump()
		go client.readPump()
	}
}
