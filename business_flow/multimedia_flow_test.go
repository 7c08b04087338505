package businessflow

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeMultimediaPath(t *testing.T) {
	t.Run("ValidStoredPath", func(t *testing.T) {
		path, err := sanitizeMultimediaPath("data/uploads/multimedia/2026-01-01/photo.jpg")
		require.NoError(t, err)
		assert.NotEmpty(t, path)
	})

	t.Run("EmptyPath", func(t *testing.T) {
		_, err := sanitizeMultimediaPath("")
		assert.Error(t, err)
	})

	t.Run("AbsolutePathRejected", func(t *testing.T) {
		_, err := sanitizeMultimediaPath("/etc/passwd")
		assert.Error(t, err)
	})

	t.Run("TraversalRejected", func(t *testing.T) {
		_, err := sanitizeMultimediaPath("data/uploads/multimedia/../../../etc/passwd")
		assert.Error(t, err)
	})

	t.Run("OutsideBaseRejected", func(t *testing.T) {
		_, err := sanitizeMultimediaPath("data/other/photo.jpg")
		assert.Error(t, err)
	})
}

func TestAllowedMultimediaExts(t *testing.T) {
	assert.Equal(t, "image", allowedMultimediaExts[".jpg"])
	assert.Equal(t, "image", allowedMultimediaExts[".webp"])
	assert.Equal(t, "video", allowedMultimediaExts[".mp4"])
	assert.Equal(t, "video", allowedMultimediaExts[".mkv"])
	_, ok := allowedMultimediaExts[".exe"]
	assert.False(t, ok)
}

func TestResizeImage(t *testing.T) {
	t.Run("SmallImagePassesThrough", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 100, 80))
		out := resizeImage(src, 512)
		assert.Equal(t, src.Bounds(), out.Bounds())
	})

	t.Run("WideImageScaledToMaxWidth", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 1024, 512))
		out := resizeImage(src, 512)
		assert.Equal(t, 512, out.Bounds().Dx())
		assert.Equal(t, 256, out.Bounds().Dy())
	})

	t.Run("TallImageScaledToMaxHeight", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 512, 2048))
		out := resizeImage(src, 512)
		assert.Equal(t, 128, out.Bounds().Dx())
		assert.Equal(t, 512, out.Bounds().Dy())
	})
}
