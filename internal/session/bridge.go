package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const bridgeChannel = "collab:events"

type bridgeEvent struct {
	Origin string          `json:"origin"`
	RoomID string          `json:"roomId"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

// Bridge relays room broadcasts between server instances over redis pub/sub.
// The sender instance has already excluded the originating connection, so a
// bridged event is delivered to every local member of the room. Presence
// events never cross the bridge; each instance's room directory is local.
type Bridge struct {
	client *redis.Client
	hub    *Hub
	origin string
	logger *slog.Logger
}

func NewBridge(client *redis.Client, hub *Hub, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		client: client,
		hub:    hub,
		origin: hub.InstanceID(),
		logger: logger,
	}
}

// Publish sends a room broadcast to the shared channel.
func (b *Bridge) Publish(ctx context.Context, roomID, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal bridge data: %w", err)
	}
	payload, err := json.Marshal(bridgeEvent{
		Origin: b.origin,
		RoomID: roomID,
		Event:  event,
		Data:   raw,
	})
	if err != nil {
		return fmt.Errorf("marshal bridge event: %w", err)
	}
	if err := b.client.Publish(ctx, bridgeChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish bridge event: %w", err)
	}
	return nil
}

// Run subscribes to the shared channel and fans foreign-origin events out to
// the local room members. Blocks until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.client.Subscribe(ctx, bridgeChannel)
	defer pubsub.Close()

	b.logger.Info("bridge listening", "channel", bridgeChannel, "origin", b.origin)

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev bridgeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("malformed bridge event", "error", err)
				continue
			}
			if ev.Origin == b.origin {
				continue
			}
			b.hub.DeliverRemote(ev.RoomID, ev.Event, ev.Data)

		case <-ctx.Done():
			return
		}
	}
}
