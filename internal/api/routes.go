package api

import (
	"log/slog"
	"net/http"
	"time"

	"collab-service/internal/session"
	"collab-service/internal/ws"

	"github.com/gin-gonic/gin"
)

// Router wires the HTTP surface: health probe, room directory reads and the
// websocket endpoint.
type Router struct {
	engine         *gin.Engine
	hub            *session.Hub
	allowedOrigins []string
	logger         *slog.Logger
}

func NewRouter(hub *session.Hub, allowedOrigins []string, logger *slog.Logger) *Router {
	return &Router{
		engine:         gin.Default(),
		hub:            hub,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

func (r *Router) SetupRoutes() {
	api := r.engine.Group("/api")
	{
		api.GET("/health", r.health)
		api.GET("/rooms", r.listRooms)
		api.GET("/rooms/:roomId/users", r.roomUsers)
	}

	r.engine.GET("/ws", ws.ServeWS(r.hub, r.allowedOrigins, r.logger))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"server":    "CollabSpace Session Engine",
	})
}

type roomRes struct {
	RoomID string `json:"roomId"`
	Users  int    `json:"users"`
}

func (r *Router) listRooms(c *gin.Context) {
	rooms := make([]roomRes, 0)
	for roomID, users := range r.hub.Occupancy() {
		rooms = append(rooms, roomRes{RoomID: roomID, Users: users})
	}
	c.JSON(http.StatusOK, rooms)
}

func (r *Router) roomUsers(c *gin.Context) {
	c.JSON(http.StatusOK, r.hub.Roster(c.Param("roomId")))
}
