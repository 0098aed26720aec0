package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePublicIDImage(t *testing.T) {
	id, rt, err := ParsePublicID("https://res.cloudinary.com/demo/image/upload/v1712345678/products/band-photo.jpg")
	assert.NoError(t, err)
	assert.Equal(t, "products/band-photo", id)
	assert.Equal(t, "image", rt)
}

func TestParsePublicIDVideo(t *testing.T) {
	id, rt, err := ParsePublicID("https://res.cloudinary.com/demo/video/upload/v1700000000/products/live-set.mp4")
	assert.NoError(t, err)
	assert.Equal(t, "products/live-set", id)
	assert.Equal(t, "video", rt)
}

func TestParsePublicIDEmptyURL(t *testing.T) {
	_, _, err := ParsePublicID("")
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestParsePublicIDBadShape(t *testing.T) {
	for _, url := range []string{
		"https://example.com/default-event.jpg",
		"https://res.cloudinary.com/demo/image/upload/no-version/x.jpg",
		"https://res.cloudinary.com/demo/image/upload/v123/file.tiff",
	} {
		_, _, err := ParsePublicID(url)
		assert.ErrorIs(t, err, ErrInvalidURL, url)
	}
}
