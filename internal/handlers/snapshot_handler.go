package handlers

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"portfolio-service/internal/models"
	"portfolio-service/internal/services"
)

// ImportResponse is returned after a successful snapshot import.
type ImportResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
}

// BackupResponse is returned after a snapshot was uploaded to object storage.
type BackupResponse struct {
	Message string `json:"message"`
	Key     string `json:"key"`
}

// SnapshotHandler serves portfolio export, import and backup.
type SnapshotHandler struct {
	snapshots *services.SnapshotService
	log       *logrus.Logger
}

func NewSnapshotHandler(snapshots *services.SnapshotService, log *logrus.Logger) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots, log: log}
}

// ExportProjects streams every project as a snapshot archive.
// @Summary Export all projects
// @Description Download a tar.gz archive containing projects.json
// @Tags snapshots
// @Produce application/gzip
// @Success 200 {file} binary "Snapshot archive"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /projects/export [get]
func (h *SnapshotHandler) ExportProjects(c *fiber.Ctx) error {
	var buf bytes.Buffer
	count, err := h.snapshots.Export(c.UserContext(), &buf)
	if err != nil {
		return internalError(c, h.log, err, "failed to export projects")
	}
	filename := "portfolio-" + time.Now().UTC().Format("20060102T150405Z") + ".tar.gz"
	c.Set(fiber.HeaderContentType, services.SnapshotContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	c.Set("X-Project-Count", strconv.Itoa(count))
	return c.Send(buf.Bytes())
}

// ImportProjects inserts every project of an uploaded snapshot.
// @Summary Import projects from a snapshot
// @Description Upload an archive containing projects.json; every entry becomes a new project
// @Tags snapshots
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Snapshot archive"
// @Success 200 {object} ImportResponse "Projects imported"
// @Failure 400 {object} models.ErrorResponse "Missing or invalid archive"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /projects/import [post]
func (h *SnapshotHandler) ImportProjects(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "failed to read file", err.Error())
	}

	tempDir, err := os.MkdirTemp("", "import-*")
	if err != nil {
		return internalError(c, h.log, err, "failed to import projects")
	}
	defer os.RemoveAll(tempDir)

	// keep the full name so compound extensions like .tar.gz help format detection
	name := filepath.Base(fileHeader.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	archivePath := filepath.Join(tempDir, name)
	if err := c.SaveFile(fileHeader, archivePath); err != nil {
		return internalError(c, h.log, err, "failed to import projects")
	}

	projects, err := h.snapshots.Import(c.UserContext(), archivePath)
	if err != nil {
		if resp, ok := validationResponse(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return internalError(c, h.log, err, "failed to import projects")
	}
	return c.JSON(ImportResponse{Message: "Projects imported successfully", Imported: len(projects)})
}

// BackupProjects uploads a snapshot to object storage.
// @Summary Back up all projects
// @Description Build a snapshot archive and upload it to the configured MinIO bucket
// @Tags snapshots
// @Produce json
// @Success 200 {object} BackupResponse "Snapshot uploaded"
// @Failure 503 {object} models.ErrorResponse "Object storage not configured"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /projects/backup [post]
func (h *SnapshotHandler) BackupProjects(c *fiber.Ctx) error {
	key, err := h.snapshots.Backup(c.UserContext())
	if err != nil {
		if errors.Is(err, services.ErrBackupDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: err.Error()})
		}
		return internalError(c, h.log, err, "failed to back up projects")
	}
	return c.JSON(BackupResponse{Message: "Snapshot uploaded successfully", Key: key})
}
