package models

// Project is a single portfolio entry stored in the projects table.
type Project struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	Description string  `json:"description"`
	Rating      int     `json:"rating"`
}

// ProjectInput is the request body accepted by create and update.
type ProjectInput struct {
	Name        string  `json:"name" validate:"required"`
	Image       *string `json:"image" validate:"omitempty,base64datauri"`
	Description string  `json:"description" validate:"required"`
	Rating      *int    `json:"rating" validate:"required,min=0,max=5"`
}

// Apply copies the input fields onto p. The id is left untouched.
func (in ProjectInput) Apply(p *Project) {
	p.Name = in.Name
	p.Image = in.Image
	p.Description = in.Description
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
}

// Input returns the writable fields of p as a ProjectInput.
func (p Project) Input() ProjectInput {
	rating := p.Rating
	return ProjectInput{
		Name:        p.Name,
		Image:       p.Image,
		Description: p.Description,
		Rating:      &rating,
	}
}

// MessageResponse is the body returned by update and delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body returned for any failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
