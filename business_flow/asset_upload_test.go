package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/amirphl/Kitsune-no-Ichiba/app/services"
	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingUploadService always fails the batch call
type failingUploadService struct{}

func (failingUploadService) Upload(ctx context.Context, file *models.PendingFile) (string, error) {
	return "", errors.New("disk full")
}

func (failingUploadService) UploadBatch(ctx context.Context, files []*models.PendingFile) ([]string, error) {
	return nil, errors.New("disk full")
}

// shortUploadService returns fewer references than files
type shortUploadService struct{}

func (shortUploadService) Upload(ctx context.Context, file *models.PendingFile) (string, error) {
	return "ref", nil
}

func (shortUploadService) UploadBatch(ctx context.Context, files []*models.PendingFile) ([]string, error) {
	return []string{"only-one"}, nil
}

func pendingSlot(name string) models.AssetRef {
	return models.AssetRef{File: &models.PendingFile{Filename: name, Content: []byte("data")}}
}

func TestAssetUploadCoordinatorResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyInput", func(t *testing.T) {
		c := NewAssetUploadCoordinator(services.NewMockUploadService())
		refs, err := c.Resolve(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("AllPersistedPassThrough", func(t *testing.T) {
		c := NewAssetUploadCoordinator(services.NewMockUploadService())
		refs, err := c.Resolve(ctx, []models.AssetRef{
			{Reference: "a.jpg"},
			{Reference: "b.jpg"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.jpg", "b.jpg"}, refs)
	})

	t.Run("MixedSlotsKeepOrder", func(t *testing.T) {
		c := NewAssetUploadCoordinator(services.NewMockUploadService())
		refs, err := c.Resolve(ctx, []models.AssetRef{
			{Reference: "persisted-0.jpg"},
			pendingSlot("new-1.jpg"),
			{Reference: "persisted-2.jpg"},
			pendingSlot("new-3.jpg"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"persisted-0.jpg",
			"mock-new-1.jpg",
			"persisted-2.jpg",
			"mock-new-3.jpg",
		}, refs)
	})

	t.Run("EmptySlotRejected", func(t *testing.T) {
		c := NewAssetUploadCoordinator(services.NewMockUploadService())
		_, err := c.Resolve(ctx, []models.AssetRef{{}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyAssetSlot)
	})

	t.Run("BatchFailureAbortsGroup", func(t *testing.T) {
		c := NewAssetUploadCoordinator(failingUploadService{})
		refs, err := c.Resolve(ctx, []models.AssetRef{
			{Reference: "persisted.jpg"},
			pendingSlot("new.jpg"),
		})
		require.Error(t, err)
		assert.True(t, IsUploadFailed(err))
		assert.Nil(t, refs)

		var bizErr *BusinessError
		require.ErrorAs(t, err, &bizErr)
		assert.Equal(t, "ASSET_UPLOAD_FAILED", bizErr.Code)
	})

	t.Run("ShortBatchRejected", func(t *testing.T) {
		c := NewAssetUploadCoordinator(shortUploadService{})
		_, err := c.Resolve(ctx, []models.AssetRef{
			pendingSlot("a.jpg"),
			pendingSlot("b.jpg"),
		})
		require.Error(t, err)
		assert.True(t, IsUploadCountMismatch(err))
	})

	t.Run("NoPendingSkipsUploadService", func(t *testing.T) {
		// A failing uploader must never be called when everything is persisted.
		c := NewAssetUploadCoordinator(failingUploadService{})
		refs, err := c.Resolve(ctx, []models.AssetRef{{Reference: "a.jpg"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.jpg"}, refs)
	})
}
