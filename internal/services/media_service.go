package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Felixnganga-max/kamson/internal/apperr"
	"github.com/Felixnganga-max/kamson/internal/models"
	"github.com/Felixnganga-max/kamson/internal/repository"
	"github.com/Felixnganga-max/kamson/internal/storage"
)

type MediaRepository interface {
	Insert(ctx context.Context, m *models.Media) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Media, error)
	Find(ctx context.Context, category, mediaType string) ([]models.Media, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MediaService struct {
	repo   MediaRepository
	store  storage.Uploader
	folder string
	log    *zap.SugaredLogger
}

func NewMediaService(repo MediaRepository, store storage.Uploader, folder string, log *zap.SugaredLogger) *MediaService {
	return &MediaService{repo: repo, store: store, folder: folder, log: log}
}

type UploadMediaInput struct {
	Title     string
	Category  string
	Type      string
	Thumbnail string
	File      []byte
	FileType  string
}

// Upload stores the file on the CDN first; the record is only written
// once a durable URL exists. For images the thumbnail is the asset
// itself; for videos it is the separately hosted still supplied by the
// client.
func (s *MediaService) Upload(ctx context.Context, in UploadMediaInput) (*models.Media, error) {
	if len(in.File) == 0 {
		return nil, apperr.BadRequest("No file was uploaded")
	}
	if in.Title == "" || in.Category == "" || in.Type == "" {
		return nil, apperr.BadRequest("title, category and type are required")
	}
	if in.Type != models.MediaTypeImage && in.Type != models.MediaTypeVideo {
		return nil, apperr.BadRequest("type must be image or video")
	}

	url, err := s.store.Upload(ctx, in.File, in.FileType, s.folder)
	if err != nil {
		s.log.Errorw("media upload failed", "error", err)
		return nil, apperr.Internal("Media upload failed", err)
	}

	thumbnail := url
	if in.Type == models.MediaTypeVideo {
		thumbnail = in.Thumbnail
	}
	m := &models.Media{
		Type:      in.Type,
		Title:     in.Title,
		Src:       url,
		Thumbnail: thumbnail,
		Category:  in.Category,
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	return m, nil
}

func (s *MediaService) List(ctx context.Context, category, mediaType string) ([]models.Media, error) {
	media, err := s.repo.Find(ctx, category, mediaType)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	return media, nil
}

// Delete removes the CDN assets first (the thumbnail separately when it
// is a distinct object), then the record. CDN failures are logged and
// tolerated so the database never keeps a record for an asset the
// caller asked to remove.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.BadRequest("Invalid media ID format")
	}
	m, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperr.NotFound("Media not found")
		}
		return apperr.Internal("Internal server error", err)
	}

	if err := s.store.Delete(ctx, m.Src); err != nil {
		s.log.Warnw("could not delete media asset", "url", m.Src, "error", err)
	}
	if m.Type == models.MediaTypeVideo && m.Thumbnail != "" && m.Thumbnail != m.Src {
		if err := s.store.Delete(ctx, m.Thumbnail); err != nil {
			s.log.Warnw("could not delete media thumbnail", "url", m.Thumbnail, "error", err)
		}
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		if err == repository.ErrNotFound {
			return apperr.NotFound("Media not found")
		}
		return apperr.Internal("Internal server error", err)
	}
	return nil
}
