// internal/handlers/project_handler.go
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfolio-service/internal/middleware"
	"portfolio-service/internal/models"
	"portfolio-service/internal/services"
)

const (
	InvalidIDError      = "invalid project id"
	InvalidRequestError = "invalid request"
	ProjectNotFound     = "project not found"
	ProjectUpdated      = "Project updated successfully"
	ProjectDeleted      = "Project deleted successfully"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	log            *logrus.Logger
}

func NewProjectHandler(projectService *services.ProjectService, log *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		log:            log,
	}
}

// ListProjects returns all projects
// @Summary List all projects
// @Description Get every project, newest first
// @Tags projects
// @Produce json
// @Success 200 {array} models.Project "List of all projects"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.projectService.ListProjects(c.UserContext())
	if err != nil {
		return internalError(c, h.log, err, "failed to list projects")
	}
	return c.JSON(projects)
}

// GetProject returns a project by ID
// @Summary Get a project by ID
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project "Project found"
// @Failure 400 {object} models.ErrorResponse "Invalid ID"
// @Failure 404 {object} models.ErrorResponse "Project not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return badRequest(c, InvalidIDError)
	}
	project, err := h.projectService.GetProject(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: ProjectNotFound})
		}
		return internalError(c, h.log, err, "failed to get project")
	}
	return c.JSON(project)
}

// CreateProject creates a new project
// @Summary Create a new project
// @Description Create a project from name, description, rating (0-5) and an optional image data URI
// @Tags projects
// @Accept json
// @Produce json
// @Param project body models.ProjectInput true "Project data"
// @Success 200 {object} models.Project "Created project with its assigned ID"
// @Failure 400 {object} models.ErrorResponse "Invalid project data"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var in models.ProjectInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, InvalidRequestError, err.Error())
	}

	project, err := h.projectService.CreateProject(c.UserContext(), in)
	if err != nil {
		if resp, ok := validationResponse(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return internalError(c, h.log, err, "failed to create project")
	}

	h.log.WithFields(logrus.Fields{
		"request_id": middleware.RequestID(c),
		"project_id": project.ID,
	}).Info("Project created")
	return c.JSON(project)
}

// UpdateProject updates a project
// @Summary Update a project
// @Description Replace every field of the project with the given ID
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param project body models.ProjectInput true "Updated project data"
// @Success 200 {object} models.MessageResponse "Project updated successfully"
// @Failure 400 {object} models.ErrorResponse "Invalid ID or data"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return badRequest(c, InvalidIDError)
	}

	var in models.ProjectInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, InvalidRequestError, err.Error())
	}

	if err := h.projectService.UpdateProject(c.UserContext(), id, in); err != nil {
		if resp, ok := validationResponse(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return internalError(c, h.log, err, "failed to update project")
	}
	return c.JSON(models.MessageResponse{Message: ProjectUpdated})
}

// DeleteProject deletes a project
// @Summary Delete a project
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.MessageResponse "Project deleted successfully"
// @Failure 400 {object} models.ErrorResponse "Invalid ID"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return badRequest(c, InvalidIDError)
	}
	if err := h.projectService.DeleteProject(c.UserContext(), id); err != nil {
		return internalError(c, h.log, err, "failed to delete project")
	}
	return c.JSON(models.MessageResponse{Message: ProjectDeleted})
}

func projectID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", c.Params("id"))
	}
	return id, nil
}

func badRequest(c *fiber.Ctx, msg string, details ...string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error:   msg,
		Details: details,
	})
}

func validationResponse(err error) (models.ErrorResponse, bool) {
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return models.ErrorResponse{}, false
	}
	return models.ErrorResponse{Error: InvalidRequestError, Details: verr.Details}, true
}

// internalError logs the raw error and answers with a generic message only.
func internalError(c *fiber.Ctx, log *logrus.Logger, err error, kind string) error {
	log.WithFields(logrus.Fields{
		"request_id": middleware.RequestID(c),
		"path":       c.Path(),
		"error":      err.Error(),
	}).Error(kind)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: kind})
}
