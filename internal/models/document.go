package models

import "time"

// Document is the durable copy of an editable document. The session engine
// only ever writes Content and UpdatedAt; everything else belongs to the
// out-of-scope CRUD API.
type Document struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title,omitempty" json:"title,omitempty"`
	Type      string    `bson:"type,omitempty" json:"type,omitempty"`
	Owner     string    `bson:"owner,omitempty" json:"owner,omitempty"`
	Content   string    `bson:"content" json:"content"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
