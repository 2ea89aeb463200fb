package postgres

import (
	"time"

	"collab-service/internal/models"

	"gorm.io/gorm"
)

type documentRow struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Title     string    `gorm:"column:title"`
	Content   string    `gorm:"column:content"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (documentRow) TableName() string { return "documents" }

type chatMessageRow struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	RoomID    string    `gorm:"column:room_id;index"`
	Sender    string    `gorm:"column:sender"`
	Content   string    `gorm:"column:content"`
	Timestamp time.Time `gorm:"column:timestamp"`
}

func (chatMessageRow) TableName() string { return "chat_messages" }

type projectRow struct {
	ID        string          `gorm:"primaryKey;column:id"`
	Name      string          `gorm:"column:name"`
	Workspace string          `gorm:"column:workspace"`
	Tasks     models.TaskList `gorm:"column:tasks;type:jsonb"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (projectRow) TableName() string { return "projects" }

// Migrate creates or updates the store tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&documentRow{}, &chatMessageRow{}, &projectRow{})
}
