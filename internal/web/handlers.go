package web

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"portfolio-service/internal/ui"
)

var notices = map[string]string{
	"created": ui.ProjectCreated,
	"updated": ui.ProjectUpdated,
	"deleted": ui.ProjectDeleted,
}

type Handler struct {
	controller *ui.Controller
	log        *logrus.Logger
}

func (h *Handler) render(c *fiber.Ctx, state *ui.ViewState) error {
	return c.Render("index", fiber.Map{
		"State":    state,
		"Projects": state.Projects,
		"Modal":    state.Modal.String(),
	})
}

// load starts a fresh state for this request. A failed load is shown as
// the placeholder and is not returned.
func (h *Handler) load(c *fiber.Ctx) *ui.ViewState {
	state := &ui.ViewState{Flash: notices[c.Query("notice")]}
	_ = h.controller.Load(c.UserContext(), state)
	return state
}

func (h *Handler) Index(c *fiber.Ctx) error {
	return h.render(c, h.load(c))
}

func (h *Handler) NewProject(c *fiber.Ctx) error {
	state := h.load(c)
	h.controller.OpenCreate(state)
	return h.render(c, state)
}

func (h *Handler) EditProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.ErrBadRequest
	}
	state := h.load(c)
	if err := h.controller.OpenEdit(state, int64(id)); err != nil {
		if state.Error == "" {
			state.Error = "Project not found."
		}
		return h.render(c.Status(fiber.StatusNotFound), state)
	}
	return h.render(c, state)
}

// SaveProject handles the modal form. A non-empty editing_id turns the
// submit into an update of that project. Only edits need the list up
// front; a create that fails fetches it just before re-rendering.
func (h *Handler) SaveProject(c *fiber.Ctx) error {
	state := &ui.ViewState{}
	if raw := strings.TrimSpace(c.FormValue("editing_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return fiber.ErrBadRequest
		}
		state = h.load(c)
		if err := h.controller.OpenEdit(state, id); err != nil {
			state.Error = "Project not found."
			return h.render(c.Status(fiber.StatusNotFound), state)
		}
	} else {
		h.controller.OpenCreate(state)
	}
	editing := state.Editing()

	fail := func(status int, msg string) error {
		if !editing {
			_ = h.controller.Load(c.UserContext(), state)
		}
		state.Error = msg
		return h.render(c.Status(status), state)
	}

	form, err := parseForm(c)
	state.Form = form
	if err != nil {
		return fail(fiber.StatusBadRequest, err.Error())
	}

	if fh, err := c.FormFile("image"); err == nil && fh.Size > 0 {
		data, err := readUpload(fh)
		if err != nil {
			return err
		}
		if err := h.controller.AttachImage(state, fh.Filename, data); err != nil {
			return fail(fiber.StatusBadRequest, state.Error)
		}
	}

	if err := h.controller.Submit(c.UserContext(), state, form); err != nil {
		return fail(statusFor(err), state.Error)
	}
	if editing {
		return c.Redirect("/?notice=updated", fiber.StatusSeeOther)
	}
	return c.Redirect("/?notice=created", fiber.StatusSeeOther)
}

// statusFor passes API rejections through as 400 and treats anything else
// as the API being unavailable.
func statusFor(err error) int {
	if ui.IsRejected(err) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusBadGateway
}

func (h *Handler) RateProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.ErrBadRequest
	}
	state := h.load(c)
	sent, err := h.controller.IncrementRating(c.UserContext(), state, int64(id))
	if err != nil {
		return h.render(c.Status(statusFor(err)), state)
	}
	if !sent {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Redirect("/?notice=updated", fiber.StatusSeeOther)
}

// DeleteProject only deletes when the confirm field is set by the
// browser's confirm dialog.
func (h *Handler) DeleteProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.ErrBadRequest
	}
	confirmed := c.FormValue("confirmed") == "yes"
	state := &ui.ViewState{}
	if err := h.controller.Delete(c.UserContext(), state, int64(id), confirmed); err != nil {
		return h.render(c.Status(statusFor(err)), state)
	}
	if !confirmed {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Redirect("/?notice=deleted", fiber.StatusSeeOther)
}

func parseForm(c *fiber.Ctx) (ui.Form, error) {
	form := ui.Form{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}
	rating, err := strconv.Atoi(strings.TrimSpace(c.FormValue("rating")))
	if err != nil {
		return form, errors.New("rating must be a number between 0 and 5")
	}
	form.Rating = rating
	return form, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	defer f.Close()
	return io.ReadAll(f)
}
