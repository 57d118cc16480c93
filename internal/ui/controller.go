package ui

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"portfolio-service/internal/client"
	"portfolio-service/internal/models"
)

const (
	LoadError   = "Error loading projects. Make sure the server is running."
	CreateError = "Error creating the project. Make sure the server is running."
	UpdateError = "Error updating the project. Make sure the server is running."
	DeleteError = "Error deleting the project. Make sure the server is running."

	ProjectCreated = "Project created successfully!"
	ProjectUpdated = "Project updated successfully!"
	ProjectDeleted = "Project deleted successfully!"

	rejectedPrefix = "The server rejected the project: "
)

// ErrUnknownProject is returned when an id is not in the cached list.
var ErrUnknownProject = errors.New("project not found")

// ProjectAPI is the subset of the REST client the controller drives.
type ProjectAPI interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, id int64, in models.ProjectInput) error
	DeleteProject(ctx context.Context, id int64) error
}

type Controller struct {
	api ProjectAPI
	log *logrus.Logger
}

func NewController(api ProjectAPI, log *logrus.Logger) *Controller {
	return &Controller{api: api, log: log}
}

// IsRejected reports whether err is a 4xx answer from the API, as opposed
// to the API being unreachable or failing.
func IsRejected(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}

// failureMessage shows the API's own reasons for a rejected request and
// falls back to the connectivity hint otherwise.
func failureMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status < 400 || apiErr.Status >= 500 {
		return fallback
	}
	if len(apiErr.Details) > 0 {
		return rejectedPrefix + strings.Join(apiErr.Details, "; ")
	}
	return rejectedPrefix + apiErr.Message
}

// Load replaces the cached list with a fresh fetch. On failure the list is
// emptied and the error placeholder is set.
func (c *Controller) Load(ctx context.Context, state *ViewState) error {
	projects, err := c.api.ListProjects(ctx)
	if err != nil {
		c.log.WithError(err).Error("Error loading projects")
		state.Projects = nil
		state.Error = LoadError
		return err
	}
	state.Projects = projects
	return nil
}

func (c *Controller) OpenCreate(state *ViewState) {
	state.closeModal()
	state.Modal = ModalCreate
}

// OpenEdit pre-fills the form from the cached list. The project's current
// image becomes the pending image.
func (c *Controller) OpenEdit(state *ViewState, id int64) error {
	project := state.find(id)
	if project == nil {
		return errors.Wrapf(ErrUnknownProject, "id %d", id)
	}
	editingID := project.ID
	state.closeModal()
	state.Modal = ModalEdit
	state.EditingID = &editingID
	state.PendingImage = project.Image
	state.Form = Form{
		Name:        project.Name,
		Description: project.Description,
		Rating:      project.Rating,
	}
	return nil
}

// AttachImage stores an uploaded file as the pending image. An empty upload
// keeps the current one.
func (c *Controller) AttachImage(state *ViewState, filename string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	uri, err := EncodeImage(data)
	if err != nil {
		c.log.WithFields(logrus.Fields{"file": filename, "error": err.Error()}).Warn("Rejected upload")
		state.Error = ErrNotImage.Error()
		return err
	}
	state.PendingImage = &uri
	return nil
}

// Submit creates or updates depending on the editing id, then reloads and
// closes the modal. On failure the modal stays open with an error.
func (c *Controller) Submit(ctx context.Context, state *ViewState, form Form) error {
	state.Form = form
	rating := form.Rating
	in := models.ProjectInput{
		Name:        form.Name,
		Image:       state.PendingImage,
		Description: form.Description,
		Rating:      &rating,
	}

	if state.Editing() {
		id := *state.EditingID
		if err := c.api.UpdateProject(ctx, id, in); err != nil {
			c.log.WithError(err).WithField("project_id", id).Error("Error updating project")
			state.Error = failureMessage(err, UpdateError)
			return err
		}
		state.Flash = ProjectUpdated
	} else {
		if _, err := c.api.CreateProject(ctx, in); err != nil {
			c.log.WithError(err).Error("Error creating project")
			state.Error = failureMessage(err, CreateError)
			return err
		}
		state.Flash = ProjectCreated
	}

	state.closeModal()
	return c.Load(ctx, state)
}

// IncrementRating raises the cached rating by one and pushes the full row.
// It reports whether an update was sent; at MaxRating nothing is sent.
func (c *Controller) IncrementRating(ctx context.Context, state *ViewState, id int64) (bool, error) {
	project := state.find(id)
	if project == nil || project.Rating >= MaxRating {
		return false, nil
	}
	project.Rating++
	if err := c.api.UpdateProject(ctx, id, project.Input()); err != nil {
		c.log.WithError(err).WithField("project_id", id).Error("Error updating rating")
		state.Error = failureMessage(err, UpdateError)
		return true, err
	}
	state.Flash = ProjectUpdated
	return true, c.Load(ctx, state)
}

// Delete removes a project after the user confirmed, then reloads.
func (c *Controller) Delete(ctx context.Context, state *ViewState, id int64, confirmed bool) error {
	if !confirmed {
		return nil
	}
	if err := c.api.DeleteProject(ctx, id); err != nil {
		c.log.WithError(err).WithField("project_id", id).Error("Error deleting project")
		state.Error = failureMessage(err, DeleteError)
		return err
	}
	state.Flash = ProjectDeleted
	return c.Load(ctx, state)
}
