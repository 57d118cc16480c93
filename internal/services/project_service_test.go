package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"portfolio-service/internal/logging"
	"portfolio-service/internal/metrics"
	"portfolio-service/internal/models"
	"portfolio-service/internal/repository"
	"portfolio-service/internal/testdb"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) *ProjectService {
	t.Helper()
	repo := repository.NewProjectRepository(testdb.Open(t))
	return NewProjectService(repo, logging.Discard(), metrics.NewMetrics(prometheus.NewRegistry()))
}

func TestCreateProjectValidates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   models.ProjectInput
		want string
	}{
		{"missing name", models.ProjectInput{Description: "d", Rating: intPtr(1)}, "name is required"},
		{"missing description", models.ProjectInput{Name: "n", Rating: intPtr(1)}, "description is required"},
		{"missing rating", models.ProjectInput{Name: "n", Description: "d"}, "rating is required"},
		{"rating too high", models.ProjectInput{Name: "n", Description: "d", Rating: intPtr(6)}, "rating must be at most 5"},
		{"rating negative", models.ProjectInput{Name: "n", Description: "d", Rating: intPtr(-1)}, "rating must be at least 0"},
		{"image not data uri", models.ProjectInput{Name: "n", Description: "d", Rating: intPtr(1), Image: strPtr("http://x/y.png")}, "image must be a base64 data URI"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProject(ctx, tc.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err %T is not a ValidationError", err)
			}
			if !strings.Contains(strings.Join(verr.Details, ";"), tc.want) {
				t.Fatalf("details = %v, want %q", verr.Details, tc.want)
			}
		})
	}

	projects, err := svc.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("invalid input was stored: %+v", projects)
	}
}

func TestCreateProjectAcceptsZeroRatingAndNullImage(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.CreateProject(context.Background(), models.ProjectInput{Name: "Alpha", Description: "d", Rating: intPtr(0)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 || p.Rating != 0 || p.Image != nil {
		t.Fatalf("project = %+v", p)
	}
}

func TestUpdateMissingProjectLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	repo := repository.NewProjectRepository(testdb.Open(t))
	svc := NewProjectService(repo, logging.NewWithOutput("info", "json", &buf), nil)

	in := models.ProjectInput{Name: "x", Description: "y", Rating: intPtr(2)}
	if err := svc.UpdateProject(context.Background(), 99, in); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.DeleteProject(context.Background(), 99); err != nil {
		t.Fatalf("delete: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Update matched no rows") || !strings.Contains(out, "Delete matched no rows") {
		t.Fatalf("warnings not logged: %s", out)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetProject(context.Background(), 1)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestImportProjectsAllOrNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	inputs := []models.ProjectInput{
		{Name: "ok", Description: "d", Rating: intPtr(2)},
		{Name: "", Description: "d", Rating: intPtr(2)},
	}
	_, err := svc.ImportProjects(ctx, inputs)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !strings.HasPrefix(verr.Details[0], "projects[1].") {
		t.Fatalf("details = %v", verr.Details)
	}
	projects, err := svc.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("partial import stored %d rows", len(projects))
	}
}
