package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"collab-service/internal/models"
	"collab-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullSink struct{}

func (nullSink) Send(string, any) error { return nil }

type emptyChatStore struct{}

func (emptyChatStore) History(context.Context, string) ([]models.ChatMessage, error) {
	return nil, session.ErrNotFound
}

func (emptyChatStore) Append(context.Context, string, models.ChatMessage) error {
	return nil
}

func newTestRouter(t *testing.T) (*Router, *session.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := session.NewHub(session.Stores{Chats: emptyChatStore{}}, nil)
	t.Cleanup(hub.Stop)

	router := NewRouter(hub, nil, nil)
	router.SetupRoutes()
	return router, hub
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	router.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestListRoomsEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	router.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRoomEndpointsReflectDirectory(t *testing.T) {
	router, hub := newTestRouter(t)

	conn := hub.Connect(nullSink{})
	hub.Dispatch(conn, session.Envelope{
		Event: session.EventJoinRoom,
		Data:  json.RawMessage(`{"roomId":"r1","username":"alice","roomType":"chat"}`),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	router.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"roomId":"r1","users":1}]`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/rooms/r1/users", nil)
	router.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["alice"]`, w.Body.String())
}

func TestUnknownRoomUsersIsEmptyArray(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms/ghost/users", nil)
	router.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
