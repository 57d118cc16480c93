package repository

import (
	"context"

	"gorm.io/gorm"

	"portfolio-service/internal/models"
)

// AutoMigrate creates or updates the projects table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Project{})
}

// ProjectRepository provides methods to interact with the Project model in the database.
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository instance with the provided GORM database connection.
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ListProjects retrieves all Projects, newest first.
func (r *ProjectRepository) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	err := r.db.WithContext(ctx).Order("id DESC").Find(&projects).Error
	return projects, err
}

// GetProject retrieves a Project by its ID from the database.
func (r *ProjectRepository) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject inserts project and fills in the storage-assigned ID.
func (r *ProjectRepository) CreateProject(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// UpdateProject replaces every data column of the row with project.ID and
// returns the number of affected rows. A missing row is not an error.
func (r *ProjectRepository) UpdateProject(ctx context.Context, project *models.Project) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]interface{}{
			"name":        project.Name,
			"image":       project.Image,
			"description": project.Description,
			"rating":      project.Rating,
		})
	return result.RowsAffected, result.Error
}

// DeleteProject deletes a Project by its ID and returns the number of affected rows.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// CreateProjects inserts all projects in a single transaction.
func (r *ProjectRepository) CreateProjects(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&projects).Error
	})
}
