// Package storage wraps the Cloudinary upload API behind a small
// gateway. The gateway holds no state of its own; records reference
// uploaded assets by URL only.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var (
	ErrNoFile     = errors.New("no file provided")
	ErrNoURL      = errors.New("no file URL provided")
	ErrInvalidURL = errors.New("invalid asset URL")
)

// Uploader is the CDN surface the services depend on.
type Uploader interface {
	Upload(ctx context.Context, data []byte, mimeType, folder string) (string, error)
	Delete(ctx context.Context, url string) error
}

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// delivery URLs look like .../v<version>/<publicId>.<ext>
var assetURLRe = regexp.MustCompile(`/v\d+/(.+)\.(jpg|jpeg|png|gif|webp|mp4)$`)

var allowedFormats = api.CldAPIArray{"jpg", "jpeg", "png", "gif", "webp", "mp4"}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string, chunkSize, uploadTimeoutSeconds int64) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	if chunkSize > 0 {
		cld.Config.API.ChunkSize = chunkSize
	}
	if uploadTimeoutSeconds > 0 {
		cld.Config.API.UploadTimeout = uploadTimeoutSeconds
	}
	return &CloudinaryStore{cld: cld}, nil
}

// Upload sends the buffer to Cloudinary and returns the canonical
// secure URL. Videos stream through the chunked upload path; images go
// up in a single call as a base64 data URI.
func (s *CloudinaryStore) Upload(ctx context.Context, data []byte, mimeType, folder string) (string, error) {
	if len(data) == 0 {
		return "", ErrNoFile
	}

	var file interface{}
	params := uploader.UploadParams{
		Folder:         folder,
		AllowedFormats: allowedFormats,
	}
	if strings.HasPrefix(mimeType, "video/") {
		params.ResourceType = "video"
		file = bytes.NewReader(data)
	} else {
		params.ResourceType = "image"
		file = fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	}

	resp, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("file upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("file upload failed: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// Delete permanently removes the remote asset behind url. Callers must
// ensure no other record still references it.
func (s *CloudinaryStore) Delete(ctx context.Context, url string) error {
	publicID, resourceType, err := ParsePublicID(url)
	if err != nil {
		return err
	}
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("file deletion failed: %w", err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("file deletion failed: %s", resp.Result)
	}
	return nil
}

// ParsePublicID extracts the Cloudinary public ID and resource type
// (image or video, inferred from the extension) from a delivery URL.
func ParsePublicID(url string) (publicID, resourceType string, err error) {
	if url == "" {
		return "", "", ErrNoURL
	}
	m := assetURLRe.FindStringSubmatch(url)
	if m == nil {
		return "", "", ErrInvalidURL
	}
	resourceType = "image"
	if m[2] == "mp4" {
		resourceType = "video"
	}
	return m[1], resourceType, nil
}
