package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"collab-service/internal/models"
	"collab-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyChatStore struct{}

func (emptyChatStore) History(context.Context, string) ([]models.ChatMessage, error) {
	return nil, session.ErrNotFound
}

func (emptyChatStore) Append(context.Context, string, models.ChatMessage) error {
	return nil
}

func newTestHub(t *testing.T) *session.Hub {
	t.Helper()
	hub := session.NewHub(session.Stores{Chats: emptyChatStore{}}, nil)
	t.Cleanup(hub.Stop)
	go hub.Run()
	return hub
}

// dialTestServer stands up the full stack, gin route included, and returns
// the client side of a live websocket.
func dialTestServer(t *testing.T, hub *session.Hub) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/ws", ServeWS(hub, nil, slog.Default()))

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readEvent reads frames until one with the wanted event name arrives.
func readEvent(t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var env session.Envelope
		require.NoError(t, conn.ReadJSON(&env))
		if env.Event == event {
			return env.Data
		}
	}
}

func TestJoinRoomRoundTrip(t *testing.T) {
	hub := newTestHub(t)
	conn := dialTestServer(t, hub)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"event": session.EventJoinRoom,
		"data":  map[string]any{"roomId": "r1", "username": "alice"},
	}))

	data := readEvent(t, conn, session.EventActiveUsers)
	var roster []string
	require.NoError(t, json.Unmarshal(data, &roster))
	assert.Equal(t, []string{"alice"}, roster)
}

func TestMalformedFrameGetsErrorReply(t *testing.T) {
	hub := newTestHub(t)
	conn := dialTestServer(t, hub)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	data := readEvent(t, conn, session.EventError)
	var errData session.ErrorData
	require.NoError(t, json.Unmarshal(data, &errData))
	assert.Equal(t, "INVALID_MESSAGE", errData.Code)
}

func TestSlowConsumerIsDropped(t *testing.T) {
	hub := newTestHub(t)

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	// No write pump draining the buffer: the overflowing send drops the
	// client, and every send after that fails fast.
	client := newClient(hub, <-serverConns, slog.Default())
	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, client.Send(session.EventNewMessage, "x"))
	}
	assert.ErrorIs(t, client.Send(session.EventNewMessage, "overflow"), ErrClientGone)
	assert.ErrorIs(t, client.Send(session.EventNewMessage, "after drop"), ErrClientGone)
}
