package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Felixnganga-max/kamson/internal/apperr"
)

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
}

// formFile reads an optional multipart file field, enforcing the MIME
// allow-list and size ceiling before anything reaches the CDN gateway.
// A missing field returns a nil buffer, not an error.
func formFile(c *fiber.Ctx, field string, maxBytes int) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}
	if fh.Size == 0 {
		return nil, "", nil
	}
	if maxBytes > 0 && fh.Size > int64(maxBytes) {
		return nil, "", apperr.BadRequest("File too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", apperr.Internal("cannot open uploaded file", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", apperr.Internal("cannot read uploaded file", err)
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if !allowedUploadTypes[ct] {
		return nil, "", apperr.BadRequest("Only JPG, PNG, GIF, WEBP images, and MP4 videos are allowed!")
	}
	return data, ct, nil
}
