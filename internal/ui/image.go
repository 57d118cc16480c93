package ui

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// ErrNotImage is returned by AttachImage for any upload that is not an image.
var ErrNotImage = errors.New("please select an image file")

// EncodeImage sniffs data and returns it as a base64 data URI. The bytes are
// not resized or re-encoded.
func EncodeImage(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", errors.WithMessage(ErrNotImage, mtype.String())
	}
	mediaType := strings.TrimSpace(strings.SplitN(mtype.String(), ";", 2)[0])
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
