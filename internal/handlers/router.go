package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"portfolio-service/internal/metrics"
	"portfolio-service/internal/middleware"
	"portfolio-service/internal/models"
)

// AppOptions configures the API fiber application.
type AppOptions struct {
	BodyLimit int
	Logger    *logrus.Logger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

// NewApp creates the fiber application with the shared middleware stack and
// a JSON error handler. Routes are added with SetupRoutes.
func NewApp(opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "portfolio-service",
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: jsonErrorHandler,
	})
	// the logger wraps recover so panics are logged and counted as 500s
	app.Use(middleware.RequestLogger(opts.Logger, opts.Metrics))
	app.Use(recover.New())
	app.Use(cors.New())

	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	return app
}

// SetupRoutes registers the REST API under /api.
func SetupRoutes(app *fiber.App, projects *ProjectHandler, snapshots *SnapshotHandler) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	api.Get("/swagger/*", swagger.HandlerDefault)

	// snapshot routes go first so "export" is never parsed as an :id
	api.Get("/projects/export", snapshots.ExportProjects)
	api.Post("/projects/import", snapshots.ImportProjects)
	api.Post("/projects/backup", snapshots.BackupProjects)

	api.Get("/projects", projects.ListProjects)
	api.Post("/projects", projects.CreateProject)
	api.Get("/projects/:id", projects.GetProject)
	api.Put("/projects/:id", projects.UpdateProject)
	api.Delete("/projects/:id", projects.DeleteProject)
}

func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(models.ErrorResponse{Error: msg})
}
