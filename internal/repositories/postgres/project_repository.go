package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collab-service/internal/models"
	"collab-service/internal/session"

	"gorm.io/gorm"
)

// ProjectRepository implements session.ProjectStore on PostgreSQL. The task
// list lives in a JSON column so the aggregate keeps its read-merge-replace
// semantics: Replace overwrites the whole row, tasks included.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Get(ctx context.Context, projectID string) (*models.Project, error) {
	var row projectRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", projectID, session.ErrNotFound)
		}
		return nil, fmt.Errorf("find project %s: %w", projectID, err)
	}
	return &models.Project{
		ID:        row.ID,
		Name:      row.Name,
		Workspace: row.Workspace,
		Tasks:     row.Tasks,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *ProjectRepository) Replace(ctx context.Context, project *models.Project) error {
	row := projectRow{
		ID:        project.ID,
		Name:      project.Name,
		Workspace: project.Workspace,
		Tasks:     project.Tasks,
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("replace project %s: %w", project.ID, err)
	}
	return nil
}
