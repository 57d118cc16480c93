package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"portfolio-service/internal/logging"
	"portfolio-service/internal/metrics"
	"portfolio-service/internal/models"
	"portfolio-service/internal/repository"
	"portfolio-service/internal/services"
	"portfolio-service/internal/testdb"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	log := logging.Discard()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	projectService := services.NewProjectService(repository.NewProjectRepository(db), log, m)
	snapshotService := services.NewSnapshotService(projectService, nil, "", log, m)

	app := NewApp(AppOptions{BodyLimit: 4 * 1024 * 1024, Logger: log, Metrics: m, Gatherer: reg})
	SetupRoutes(app, NewProjectHandler(projectService, log), NewSnapshotHandler(snapshotService, log))
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func listProjects(t *testing.T, app *fiber.App) []models.Project {
	t.Helper()
	status, body := doJSON(t, app, http.MethodGet, "/api/projects", "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", status, body)
	}
	var projects []models.Project
	if err := json.Unmarshal(body, &projects); err != nil {
		t.Fatalf("decode list %s: %v", body, err)
	}
	return projects
}

func TestProjectLifecycleScenario(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/projects",
		`{"name":"Alpha","description":"d","rating":3,"image":null}`)
	if status != http.StatusOK {
		t.Fatalf("create status = %d, body = %s", status, body)
	}
	want := `{"id":1,"name":"Alpha","image":null,"description":"d","rating":3}`
	if string(body) != want {
		t.Fatalf("create body = %s, want %s", body, want)
	}

	projects := listProjects(t, app)
	if len(projects) != 1 || projects[0].ID != 1 || projects[0].Name != "Alpha" {
		t.Fatalf("list after create = %+v", projects)
	}

	status, body = doJSON(t, app, http.MethodPut, "/api/projects/1",
		`{"name":"Alpha2","description":"d","rating":4,"image":null}`)
	if status != http.StatusOK || string(body) != `{"message":"Project updated successfully"}` {
		t.Fatalf("update = %d %s", status, body)
	}
	projects = listProjects(t, app)
	if len(projects) != 1 || projects[0].ID != 1 || projects[0].Name != "Alpha2" || projects[0].Rating != 4 {
		t.Fatalf("list after update = %+v", projects)
	}

	status, body = doJSON(t, app, http.MethodDelete, "/api/projects/1", "")
	if status != http.StatusOK || string(body) != `{"message":"Project deleted successfully"}` {
		t.Fatalf("delete = %d %s", status, body)
	}
	status, body = doJSON(t, app, http.MethodGet, "/api/projects", "")
	if status != http.StatusOK || string(body) != `[]` {
		t.Fatalf("list after delete = %d %s", status, body)
	}
}

func TestCreateAppearsFirst(t *testing.T) {
	app, _ := newTestApp(t)
	for _, name := range []string{"One", "Two", "Three"} {
		status, body := doJSON(t, app, http.MethodPost, "/api/projects",
			`{"name":"`+name+`","description":"x","rating":1}`)
		if status != http.StatusOK {
			t.Fatalf("create %s: %d %s", name, status, body)
		}
	}
	projects := listProjects(t, app)
	if len(projects) != 3 {
		t.Fatalf("len = %d", len(projects))
	}
	if projects[0].Name != "Three" || projects[2].Name != "One" {
		t.Fatalf("order = %s, %s, %s", projects[0].Name, projects[1].Name, projects[2].Name)
	}
	seen := map[int64]bool{}
	for _, p := range projects {
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestUpdateChangesOnlyTargetRow(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/projects", `{"name":"A","description":"a","rating":1}`)
	doJSON(t, app, http.MethodPost, "/api/projects", `{"name":"B","description":"b","rating":2}`)

	status, _ := doJSON(t, app, http.MethodPut, "/api/projects/1", `{"name":"A2","description":"a2","rating":5}`)
	if status != http.StatusOK {
		t.Fatalf("update status = %d", status)
	}
	projects := listProjects(t, app)
	if projects[0].Name != "B" || projects[0].Rating != 2 || projects[0].Description != "b" {
		t.Fatalf("other row changed: %+v", projects[0])
	}
	if projects[1].ID != 1 || projects[1].Name != "A2" || projects[1].Rating != 5 {
		t.Fatalf("target row = %+v", projects[1])
	}
}

func TestMissingIDIsSilentSuccess(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/projects", `{"name":"A","description":"a","rating":1}`)

	status, body := doJSON(t, app, http.MethodDelete, "/api/projects/999", "")
	if status != http.StatusOK || !strings.Contains(string(body), ProjectDeleted) {
		t.Fatalf("delete missing = %d %s", status, body)
	}
	status, body = doJSON(t, app, http.MethodPut, "/api/projects/999", `{"name":"Z","description":"z","rating":0}`)
	if status != http.StatusOK || !strings.Contains(string(body), ProjectUpdated) {
		t.Fatalf("update missing = %d %s", status, body)
	}
	if projects := listProjects(t, app); len(projects) != 1 || projects[0].Name != "A" {
		t.Fatalf("table changed: %+v", projects)
	}
}

func TestImageRoundTripIsByteIdentical(t *testing.T) {
	app, _ := newTestApp(t)
	image := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

	payload, _ := json.Marshal(map[string]any{"name": "Pic", "description": "p", "rating": 2, "image": image})
	status, body := doJSON(t, app, http.MethodPost, "/api/projects", string(payload))
	if status != http.StatusOK {
		t.Fatalf("create = %d %s", status, body)
	}
	projects := listProjects(t, app)
	if projects[0].Image == nil || *projects[0].Image != image {
		t.Fatalf("image changed: %v", projects[0].Image)
	}
}

func TestValidationErrors(t *testing.T) {
	app, _ := newTestApp(t)
	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"missing name", http.MethodPost, "/api/projects", `{"description":"d","rating":3}`},
		{"rating above five", http.MethodPost, "/api/projects", `{"name":"n","description":"d","rating":6}`},
		{"malformed json", http.MethodPost, "/api/projects", `{"name":`},
		{"rating as string", http.MethodPost, "/api/projects", `{"name":"n","description":"d","rating":"3"}`},
		{"bad id", http.MethodPut, "/api/projects/abc", `{"name":"n","description":"d","rating":3}`},
		{"update out of range", http.MethodPut, "/api/projects/1", `{"name":"n","description":"d","rating":-1}`},
		{"delete bad id", http.MethodDelete, "/api/projects/0", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doJSON(t, app, tc.method, tc.path, tc.body)
			if status != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", status, body)
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(body, &resp); err != nil || resp.Error == "" {
				t.Fatalf("error body = %s (%v)", body, err)
			}
		})
	}
	if projects := listProjects(t, app); len(projects) != 0 {
		t.Fatalf("invalid requests stored rows: %+v", projects)
	}
}

func TestGetProject(t *testing.T) {
	app, _ := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/projects", `{"name":"A","description":"a","rating":1}`)

	status, body := doJSON(t, app, http.MethodGet, "/api/projects/1", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"name":"A"`) {
		t.Fatalf("get = %d %s", status, body)
	}
	status, body = doJSON(t, app, http.MethodGet, "/api/projects/2", "")
	if status != http.StatusNotFound || !strings.Contains(string(body), ProjectNotFound) {
		t.Fatalf("get missing = %d %s", status, body)
	}
}

func TestStorageErrorIsNotLeaked(t *testing.T) {
	app, db := newTestApp(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	status, body := doJSON(t, app, http.MethodGet, "/api/projects", "")
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d", status)
	}
	if string(body) != `{"error":"failed to list projects"}` {
		t.Fatalf("body = %s", body)
	}

	status, body = doJSON(t, app, http.MethodPost, "/api/projects", `{"name":"n","description":"d","rating":1}`)
	if status != http.StatusInternalServerError || strings.Contains(string(body), "sql") {
		t.Fatalf("create = %d %s", status, body)
	}
}

func TestBodyLimit(t *testing.T) {
	app, _ := newTestApp(t)
	big := `{"name":"n","description":"` + strings.Repeat("x", 5*1024*1024) + `","rating":1}`
	status, _ := doJSON(t, app, http.MethodPost, "/api/projects", big)
	if status != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", status)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)
	if status, _ := doJSON(t, app, http.MethodGet, "/api/health", ""); status != http.StatusOK {
		t.Fatalf("health = %d", status)
	}
	doJSON(t, app, http.MethodGet, "/api/projects", "")
	status, body := doJSON(t, app, http.MethodGet, "/metrics", "")
	if status != http.StatusOK || !strings.Contains(string(body), "portfolio_http_requests_total") {
		t.Fatalf("metrics = %d %s", status, body)
	}
}

func TestCORSHeaders(t *testing.T) {
	app, _ := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestPanicIsLoggedAndCounted(t *testing.T) {
	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	app := NewApp(AppOptions{
		BodyLimit: 1024,
		Logger:    logging.NewWithOutput("info", "json", &logs),
		Metrics:   metrics.NewMetrics(reg),
		Gatherer:  reg,
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("handler exploded")
	})

	status, body := doJSON(t, app, http.MethodGet, "/boom", "")
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	if strings.Contains(string(body), "exploded") {
		t.Fatalf("panic value leaked: %s", body)
	}
	if !strings.Contains(logs.String(), `"status_code":500`) || !strings.Contains(logs.String(), "/boom") {
		t.Fatalf("panic not in access log: %s", logs.String())
	}

	_, metricsBody := doJSON(t, app, http.MethodGet, "/metrics", "")
	if !strings.Contains(string(metricsBody), `portfolio_http_requests_total{method="GET",route="/boom",status="500"} 1`) {
		t.Fatalf("panic not counted:\n%s", metricsBody)
	}
}
