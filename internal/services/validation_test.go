package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"portfolio-service/internal/models"
)

func TestIsBase64DataURI(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"data:image/png;base64,iVBORw0KGgo=", true},
		{"data:image/gif;base64,R0lGODlhAQABAAAAACw=", true},
		{"data:image/png;base64,", true},
		{"data:image/png,iVBORw0KGgo=", false},
		{"data:;base64,iVBORw0KGgo=", false},
		{"image/png;base64,iVBORw0KGgo=", false},
		{"data:image/png;base64", false},
		{"data:image/png;base64,iVBORw0KGgo", false},
		{"data:image/png;base64,@@@@", false},
		{"http://example.com/a.png", false},
	}
	for _, tc := range cases {
		if got := isBase64DataURI(tc.in); got != tc.want {
			t.Fatalf("isBase64DataURI(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestValidateInputAcceptsLargeImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("\x89PNG-image-bytes", 512*1024)))
	image := "data:image/png;base64," + payload
	in := models.ProjectInput{Name: "n", Description: "d", Rating: intPtr(1), Image: &image}
	if err := ValidateInput(newValidator(), in); err != nil {
		t.Fatalf("validate %d byte image: %v", len(image), err)
	}

	broken := image[:len(image)-4] + "!!!!"
	in.Image = &broken
	if err := ValidateInput(newValidator(), in); err == nil {
		t.Fatal("corrupt payload accepted")
	}
}
