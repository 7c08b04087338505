package businessflow

import (
	"context"
	"fmt"

	"github.com/amirphl/Kitsune-no-Ichiba/app/services"
	"github.com/amirphl/Kitsune-no-Ichiba/models"
)

// AssetUploadCoordinator resolves a mixed list of persisted references and
// pending binaries into a list of persisted references, preserving the
// original slot order. Pending binaries are uploaded as a single batch call.
type AssetUploadCoordinator struct {
	uploader services.UploadService
}

// NewAssetUploadCoordinator creates a new coordinator over the upload service
func NewAssetUploadCoordinator(uploader services.UploadService) *AssetUploadCoordinator {
	return &AssetUploadCoordinator{uploader: uploader}
}

// Resolve returns one persisted reference per input slot, in input order.
// Already-persisted slots pass through untouched; pending slots are replaced
// by the reference the batch upload returned for their relative position. A
// failed or short batch aborts the whole group; nothing is partially applied.
func (c *AssetUploadCoordinator) Resolve(ctx context.Context, slots []models.AssetRef) ([]string, error) {
	refs := make([]string, len(slots))
	pendingFiles := []*models.PendingFile{}
	pendingIdx := []int{}

	for i, slot := range slots {
		switch {
		case slot.IsPending():
			pendingFiles = append(pendingFiles, slot.File)
			pendingIdx = append(pendingIdx, i)
		case slot.Reference != "":
			refs[i] = slot.Reference
		default:
			return nil, ErrEmptyAssetSlot
		}
	}

	if len(pendingFiles) == 0 {
		return refs, nil
	}

	uploaded, err := c.uploader.UploadBatch(ctx, pendingFiles)
	if err != nil {
		return nil, NewBusinessError("ASSET_UPLOAD_FAILED", ErrUploadFailed.Error(), fmt.Errorf("%w: %v", ErrUploadFailed, err))
	}
	if len(uploaded) != len(pendingFiles) {
		return nil, ErrUploadCountMismatch
	}

	for n, i := range pendingIdx {
		refs[i] = uploaded[n]
	}

	return refs, nil
}
