package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collab-service/internal/database"
	"collab-service/internal/models"
	"collab-service/internal/session"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProjectRepository implements session.ProjectStore over the projects
// collection. Replace writes the whole aggregate back, embedded tasks
// included.
type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *database.MongoDB) *ProjectRepository {
	return &ProjectRepository{coll: db.DB.Collection("projects")}
}

func (r *ProjectRepository) Get(ctx context.Context, projectID string) (*models.Project, error) {
	var project models.Project
	err := r.coll.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("project %s: %w", projectID, session.ErrNotFound)
		}
		return nil, fmt.Errorf("find project %s: %w", projectID, err)
	}
	return &project, nil
}

func (r *ProjectRepository) Replace(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return fmt.Errorf("replace project %s: %w", project.ID, err)
	}
	return nil
}
