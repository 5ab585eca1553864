package projects

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxImageBytes is the largest accepted preview image.
const MaxImageBytes = 5 * 1024 * 1024

var (
	ErrImageTooLarge = errors.New("image size must be less than 5MB")
	ErrImageType     = errors.New("not an image file")
)

// CheckImage validates the declared size and MIME type of an upload.
func CheckImage(size int64, contentType string) error {
	if size > MaxImageBytes {
		return ErrImageTooLarge
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrImageType
	}
	return nil
}

// ReadImage validates and reads an upload into a data URL suitable for
// Project.ImageURL. Nothing is returned unless the whole image is accepted.
func ReadImage(r io.Reader, size int64, contentType string) (string, error) {
	if err := CheckImage(size, contentType); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return "", ErrImageTooLarge
	}
	mime := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ImageUpload holds the preview image currently attached to the admin form.
type ImageUpload struct {
	dataURL string
}

// Load replaces the current image. On error the previous image is kept.
func (u *ImageUpload) Load(r io.Reader, size int64, contentType string) error {
	dataURL, err := ReadImage(r, size, contentType)
	if err != nil {
		return err
	}
	u.dataURL = dataURL
	return nil
}

func (u *ImageUpload) Current() string { return u.dataURL }

func (u *ImageUpload) HasImage() bool { return u.dataURL != "" }

func (u *ImageUpload) Remove() { u.dataURL = "" }
