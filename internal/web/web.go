// Package web serves the server-rendered portfolio UI on top of the REST API.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"

	"portfolio-service/internal/metrics"
	"portfolio-service/internal/middleware"
	"portfolio-service/internal/ui"
)

//go:embed templates/*.html templates/partials/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type Options struct {
	BodyLimit int
	Logger    *logrus.Logger
	Metrics   *metrics.Metrics
}

// NewEngine parses the embedded templates and registers the view helpers.
func NewEngine() *html.Engine {
	root, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(root), ".html")
	engine.AddFunc("stars", ui.Stars)
	engine.AddFunc("initial", ui.Initial)
	engine.AddFunc("imageURL", imageURL)
	return engine
}

// NewApp wires the UI routes to controller.
func NewApp(controller *ui.Controller, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "portfolio-web",
		Views:     NewEngine(),
		BodyLimit: opts.BodyLimit,
	})
	app.Use(middleware.RequestLogger(opts.Logger, opts.Metrics))
	app.Use(recover.New())

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	app.Use("/static", filesystem.New(filesystem.Config{Root: http.FS(static)}))

	h := &Handler{controller: controller, log: opts.Logger}
	app.Get("/", h.Index)
	app.Get("/projects/new", h.NewProject)
	app.Get("/projects/:id/edit", h.EditProject)
	app.Post("/projects", h.SaveProject)
	app.Post("/projects/:id/rate", h.RateProject)
	app.Post("/projects/:id/delete", h.DeleteProject)
	return app
}

// imageURL marks a stored data URI as safe for an img src. Anything else is
// dropped so the placeholder is shown.
func imageURL(image *string) template.URL {
	if image == nil || !strings.HasPrefix(*image, "data:image/") {
		return ""
	}
	return template.URL(*image)
}
