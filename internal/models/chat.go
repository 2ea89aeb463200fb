package models

import "time"

// ChatMessage is a single entry in a room's durable message log.
type ChatMessage struct {
	Sender    string    `bson:"sender" json:"sender"`
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// ChatLog is the per-room message log as stored in MongoDB. The log is
// created lazily on the first message for a room.
type ChatLog struct {
	RoomID   string        `bson:"roomId" json:"roomId"`
	Messages []ChatMessage `bson:"messages" json:"messages"`
}
