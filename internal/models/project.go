package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Task is a sub-entity of a project aggregate. Tasks have no collection of
// their own; they are embedded in the project and persisted by replacing the
// whole aggregate.
type Task struct {
	ID          string `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Status      string `bson:"status" json:"status"`
	Assignee    string `bson:"assignee,omitempty" json:"assignee,omitempty"`
	Priority    string `bson:"priority" json:"priority"`
}

// Apply merges a field-by-field update into the task. Only the known task
// fields are applied; unknown keys and non-string values are dropped.
func (t *Task) Apply(updates map[string]any) {
	for key, value := range updates {
		s, ok := value.(string)
		if !ok {
			continue
		}
		switch key {
		case "title":
			t.Title = s
		case "description":
			t.Description = s
		case "status":
			t.Status = s
		case "assignee":
			t.Assignee = s
		case "priority":
			t.Priority = s
		}
	}
}

// TaskList serializes as a JSON column under gorm so the project aggregate
// keeps its read-merge-replace semantics on PostgreSQL.
type TaskList []Task

func (l TaskList) Value() (driver.Value, error) {
	if l == nil {
		l = TaskList{}
	}
	return json.Marshal(l)
}

func (l *TaskList) Scan(value any) error {
	if value == nil {
		*l = TaskList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported task list column type %T", value)
	}
}

// Project is the aggregate owning its task list.
type Project struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Workspace string    `bson:"workspace,omitempty" json:"workspace,omitempty"`
	Tasks     TaskList  `bson:"tasks" json:"tasks"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Task returns the embedded task with the given id, or nil.
func (p *Project) Task(taskID string) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			return &p.Tasks[i]
		}
	}
	return nil
}
