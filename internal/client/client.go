// Package client is a typed REST client for the project API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"portfolio-service/internal/models"
)

// APIError is returned for any non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Details []string
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *fiber.Client
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:5000/api.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &fiber.Client{},
	}
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, c.http.Get(c.url("/projects")), &projects); err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, c.http.Post(c.url("/projects")).JSON(in), &project); err != nil {
		return nil, errors.Wrap(err, "create project")
	}
	return &project, nil
}

func (c *Client) UpdateProject(ctx context.Context, id int64, in models.ProjectInput) error {
	var resp models.MessageResponse
	if err := c.do(ctx, c.http.Put(c.projectURL(id)).JSON(in), &resp); err != nil {
		return errors.Wrapf(err, "update project %d", id)
	}
	return nil
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	var resp models.MessageResponse
	if err := c.do(ctx, c.http.Delete(c.projectURL(id)), &resp); err != nil {
		return errors.Wrapf(err, "delete project %d", id)
	}
	return nil
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) projectURL(id int64) string {
	return c.url("/projects/" + strconv.FormatInt(id, 10))
}

// do sends the request and decodes a 2xx body into out. The agent is
// released by Bytes.
func (c *Client) do(ctx context.Context, agent *fiber.Agent, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Wrap(errs[0], "request failed")
	}
	if code < 200 || code > 299 {
		apiErr := &APIError{Status: code, Message: strings.TrimSpace(string(body))}
		var resp models.ErrorResponse
		if json.Unmarshal(body, &resp) == nil && resp.Error != "" {
			apiErr.Message = resp.Error
			apiErr.Details = resp.Details
		}
		return apiErr
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
