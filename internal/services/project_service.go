package services

import (
	"context"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"portfolio-service/internal/metrics"
	"portfolio-service/internal/models"
	"portfolio-service/internal/repository"
)

type ProjectService struct {
	repo     *repository.ProjectRepository
	validate *validator.Validate
	log      *logrus.Logger
	metrics  *metrics.Metrics
}

func NewProjectService(repo *repository.ProjectRepository, log *logrus.Logger, m *metrics.Metrics) *ProjectService {
	return &ProjectService{
		repo:     repo,
		validate: newValidator(),
		log:      log,
		metrics:  m,
	}
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get project %d", id)
	}
	return project, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	if err := ValidateInput(s.validate, in); err != nil {
		return nil, err
	}
	var project models.Project
	in.Apply(&project)
	if err := s.repo.CreateProject(ctx, &project); err != nil {
		return nil, errors.Wrap(err, "create project")
	}
	s.metrics.IncrementMutation("create")
	return &project, nil
}

// UpdateProject replaces the project with the given id. Updating an id that
// does not exist succeeds and is only logged.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, in models.ProjectInput) error {
	if err := ValidateInput(s.validate, in); err != nil {
		return err
	}
	project := models.Project{ID: id}
	in.Apply(&project)
	affected, err := s.repo.UpdateProject(ctx, &project)
	if err != nil {
		return errors.Wrapf(err, "update project %d", id)
	}
	if affected == 0 {
		s.log.WithField("project_id", id).Warn("Update matched no rows")
	}
	s.metrics.IncrementMutation("update")
	return nil
}

// DeleteProject removes the project with the given id. Deleting an id that
// does not exist succeeds and is only logged.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	affected, err := s.repo.DeleteProject(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "delete project %d", id)
	}
	if affected == 0 {
		s.log.WithField("project_id", id).Warn("Delete matched no rows")
	}
	s.metrics.IncrementMutation("delete")
	return nil
}

// ImportProjects validates every input and inserts them all as new rows, or
// none. inputs are newest first, the order ListProjects returns, so they are
// inserted last to first and the imported list keeps that order.
func (s *ProjectService) ImportProjects(ctx context.Context, inputs []models.ProjectInput) ([]models.Project, error) {
	projects := make([]models.Project, 0, len(inputs))
	for i, in := range inputs {
		if err := ValidateInput(s.validate, in); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				for j, d := range verr.Details {
					verr.Details[j] = "projects[" + strconv.Itoa(i) + "]." + d
				}
			}
			return nil, err
		}
		var p models.Project
		in.Apply(&p)
		projects = append(projects, p)
	}
	slices.Reverse(projects)
	if err := s.repo.CreateProjects(ctx, projects); err != nil {
		return nil, errors.Wrap(err, "import projects")
	}
	slices.Reverse(projects)
	s.metrics.AddMutations("import", len(projects))
	return projects, nil
}
