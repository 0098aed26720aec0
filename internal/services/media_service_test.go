package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Felixnganga-max/kamson/internal/apperr"
	"github.com/Felixnganga-max/kamson/internal/models"
	"github.com/Felixnganga-max/kamson/internal/repository"
)

// mockMediaRepo is an in-memory mock of MediaRepository.
type mockMediaRepo struct {
	media    map[primitive.ObjectID]*models.Media
	findList []models.Media
}

func newMockMediaRepo() *mockMediaRepo {
	return &mockMediaRepo{media: map[primitive.ObjectID]*models.Media{}}
}

func (m *mockMediaRepo) Insert(ctx context.Context, md *models.Media) error {
	md.ID = primitive.NewObjectID()
	cp := *md
	m.media[md.ID] = &cp
	return nil
}

func (m *mockMediaRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Media, error) {
	md, ok := m.media[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *md
	return &cp, nil
}

func (m *mockMediaRepo) Find(ctx context.Context, category, mediaType string) ([]models.Media, error) {
	return m.findList, nil
}

func (m *mockMediaRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.media[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.media, id)
	return nil
}

func newMediaService(repo *mockMediaRepo, store *mockUploader) *MediaService {
	return NewMediaService(repo, store, "products", zap.NewNop().Sugar())
}

func TestUploadMediaNoFile(t *testing.T) {
	repo := newMockMediaRepo()
	store := &mockUploader{}
	svc := newMediaService(repo, store)

	_, err := svc.Upload(context.Background(), UploadMediaInput{
		Title: "t", Category: "gigs", Type: "image",
	})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Code)
	assert.Zero(t, store.uploads)
	assert.Empty(t, repo.media, "no storage write on a missing file")
}

func TestUploadMediaMissingFields(t *testing.T) {
	svc := newMediaService(newMockMediaRepo(), &mockUploader{})

	_, err := svc.Upload(context.Background(), UploadMediaInput{
		File: []byte("x"), FileType: "image/png", Title: "t", Category: "gigs",
	})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Code)
}

func TestUploadMediaRejectsUnknownType(t *testing.T) {
	svc := newMediaService(newMockMediaRepo(), &mockUploader{})

	_, err := svc.Upload(context.Background(), UploadMediaInput{
		File: []byte("x"), FileType: "image/png", Title: "t", Category: "gigs", Type: "audio",
	})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Code)
}

func TestUploadImageThumbnailEqualsSrc(t *testing.T) {
	repo := newMockMediaRepo()
	store := &mockUploader{uploadURL: "https://res.cloudinary.com/demo/image/upload/v1/products/pic.jpg"}
	svc := newMediaService(repo, store)

	m, err := svc.Upload(context.Background(), UploadMediaInput{
		File: []byte("x"), FileType: "image/jpeg", Title: "t", Category: "gigs", Type: "image",
	})

	require.NoError(t, err)
	assert.Equal(t, m.Src, m.Thumbnail)
}

func TestUploadVideoKeepsClientThumbnail(t *testing.T) {
	repo := newMockMediaRepo()
	store := &mockUploader{uploadURL: "https://res.cloudinary.com/demo/video/upload/v1/products/clip.mp4"}
	svc := newMediaService(repo, store)

	m, err := svc.Upload(context.Background(), UploadMediaInput{
		File: []byte("x"), FileType: "video/mp4", Title: "t", Category: "gigs", Type: "video",
		Thumbnail: "https://res.cloudinary.com/demo/image/upload/v1/products/still.jpg",
	})

	require.NoError(t, err)
	assert.NotEqual(t, m.Src, m.Thumbnail)
}

func TestDeleteVideoWithDistinctThumbnail(t *testing.T) {
	repo := newMockMediaRepo()
	src := "https://res.cloudinary.com/demo/video/upload/v1/products/clip.mp4"
	thumb := "https://res.cloudinary.com/demo/image/upload/v1/products/still.jpg"
	m := &models.Media{Type: models.MediaTypeVideo, Title: "t", Src: src, Thumbnail: thumb, Category: "gigs"}
	require.NoError(t, repo.Insert(context.Background(), m))

	store := &mockUploader{}
	svc := newMediaService(repo, store)

	require.NoError(t, svc.Delete(context.Background(), m.ID.Hex()))
	assert.Equal(t, []string{src, thumb}, store.deleted, "video and its still are separate assets")
	assert.Empty(t, repo.media)
}

func TestDeleteImageSingleCDNCall(t *testing.T) {
	repo := newMockMediaRepo()
	src := "https://res.cloudinary.com/demo/image/upload/v1/products/pic.jpg"
	m := &models.Media{Type: models.MediaTypeImage, Title: "t", Src: src, Thumbnail: src, Category: "gigs"}
	require.NoError(t, repo.Insert(context.Background(), m))

	store := &mockUploader{}
	svc := newMediaService(repo, store)

	require.NoError(t, svc.Delete(context.Background(), m.ID.Hex()))
	assert.Equal(t, []string{src}, store.deleted)
}

func TestDeleteMediaMalformedID(t *testing.T) {
	svc := newMediaService(newMockMediaRepo(), &mockUploader{})

	err := svc.Delete(context.Background(), "nope")

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Code)
}

func TestDeleteMediaNotFound(t *testing.T) {
	svc := newMediaService(newMockMediaRepo(), &mockUploader{})

	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 404, ae.Code)
}
