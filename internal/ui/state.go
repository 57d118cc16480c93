// Package ui holds the browser-side view state of the portfolio and the
// controller that moves it between Idle, ModalOpen and the short-lived
// mutation states.
package ui

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"portfolio-service/internal/models"
)

const MaxRating = 5

type ModalMode int

const (
	ModalClosed ModalMode = iota
	ModalCreate
	ModalEdit
)

func (m ModalMode) String() string {
	switch m {
	case ModalCreate:
		return "create"
	case ModalEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Form mirrors the fields of the create/edit modal.
type Form struct {
	Name        string
	Description string
	Rating      int
}

// ViewState is everything one render of the page needs. A state value is
// owned by a single request and never shared.
type ViewState struct {
	Projects     []models.Project
	Modal        ModalMode
	EditingID    *int64
	PendingImage *string
	Form         Form
	Error        string
	Flash        string
}

// Editing reports whether the modal targets an existing project.
func (s *ViewState) Editing() bool {
	return s.EditingID != nil
}

func (s *ViewState) find(id int64) *models.Project {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i]
		}
	}
	return nil
}

func (s *ViewState) closeModal() {
	s.Modal = ModalClosed
	s.EditingID = nil
	s.PendingImage = nil
	s.Form = Form{}
}

// Stars renders a rating as filled and hollow stars out of MaxRating.
func Stars(rating int) string {
	filled := min(max(rating, 0), MaxRating)
	return strings.Repeat("★", filled) + strings.Repeat("☆", MaxRating-filled)
}

var upper = cases.Upper(language.Und)

// Initial is the uppercased first letter of name, shown when a project has no image.
func Initial(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError && size <= 1 {
		return ""
	}
	return upper.String(name[:size])
}
