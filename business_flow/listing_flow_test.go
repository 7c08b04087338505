package businessflow

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/Kitsune-no-Ichiba/app/dto"
	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// stubListingRepo serves canned listings without a database
type stubListingRepo struct {
	listings []*models.Listing
	byUUID   *models.Listing
}

func (s *stubListingRepo) ByID(ctx context.Context, id uint) (*models.Listing, error) {
	return nil, nil
}

func (s *stubListingRepo) ByFilter(ctx context.Context, filter models.ListingFilter, orderBy string, limit, offset int) ([]*models.Listing, error) {
	return s.listings, nil
}

func (s *stubListingRepo) Save(ctx context.Context, entity *models.Listing) error { return nil }

func (s *stubListingRepo) SaveBatch(ctx context.Context, entities []*models.Listing) error {
	return nil
}

func (s *stubListingRepo) Count(ctx context.Context, filter models.ListingFilter) (int64, error) {
	return int64(len(s.listings)), nil
}

func (s *stubListingRepo) Exists(ctx context.Context, filter models.ListingFilter) (bool, error) {
	return len(s.listings) > 0, nil
}

func (s *stubListingRepo) ByUUID(ctx context.Context, uuid string) (*models.Listing, error) {
	return s.byUUID, nil
}

func (s *stubListingRepo) BySKU(ctx context.Context, sku string) (*models.Listing, error) {
	return nil, nil
}

func (s *stubListingRepo) BySellerID(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Listing, error) {
	return s.listings, nil
}

func (s *stubListingRepo) Update(ctx context.Context, listing models.Listing) error { return nil }

func (s *stubListingRepo) UpdateStatus(ctx context.Context, id uint, status models.ListingStatus) error {
	return nil
}

func (s *stubListingRepo) CountBySellerID(ctx context.Context, sellerID uint) (int, error) {
	return len(s.listings), nil
}

// stubAuditRepo records every saved entry
type stubAuditRepo struct {
	saved []*models.AuditLog
}

func (s *stubAuditRepo) ByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	return nil, nil
}

func (s *stubAuditRepo) ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error) {
	return s.saved, nil
}

func (s *stubAuditRepo) Save(ctx context.Context, entity *models.AuditLog) error {
	s.saved = append(s.saved, entity)
	return nil
}

func (s *stubAuditRepo) SaveBatch(ctx context.Context, entities []*models.AuditLog) error {
	s.saved = append(s.saved, entities...)
	return nil
}

func (s *stubAuditRepo) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	return int64(len(s.saved)), nil
}

func (s *stubAuditRepo) Exists(ctx context.Context, filter models.AuditLogFilter) (bool, error) {
	return len(s.saved) > 0, nil
}

func (s *stubAuditRepo) ListBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*models.AuditLog, error) {
	return s.saved, nil
}

func (s *stubAuditRepo) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error) {
	return s.saved, nil
}

func (s *stubAuditRepo) ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	return s.saved, nil
}

func storedListing(sellerID uint) *models.Listing {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Listing{
		ID:          1,
		UUID:        uuid.New(),
		SellerID:    sellerID,
		SKU:         "P-000001",
		Kind:        models.ListingKindProduct,
		Status:      models.ListingStatusSubmitted,
		ProductName: "Cordless Drill 18V",
		Payload:     storedPayload(),
		CreatedAt:   created,
	}
}

func TestGetListing(t *testing.T) {
	ctx := context.Background()
	metadata := &ClientMetadata{IPAddress: "127.0.0.1", UserAgent: "test"}

	t.Run("BlankUUID", func(t *testing.T) {
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{}}
		_, err := flow.GetListing(ctx, &dto.GetListingRequest{SellerID: 1}, metadata)
		require.Error(t, err)
		assert.True(t, IsListingUUIDRequired(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{}}
		_, err := flow.GetListing(ctx, &dto.GetListingRequest{SellerID: 1, UUID: uuid.NewString()}, metadata)
		require.Error(t, err)
		assert.True(t, IsListingNotFound(err))
	})

	t.Run("ForeignListingDenied", func(t *testing.T) {
		listing := storedListing(99)
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{byUUID: listing}}
		_, err := flow.GetListing(ctx, &dto.GetListingRequest{SellerID: 1, UUID: listing.UUID.String()}, metadata)
		require.Error(t, err)
		assert.True(t, IsListingAccessDenied(err))
	})

	t.Run("Success", func(t *testing.T) {
		listing := storedListing(1)
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{byUUID: listing}}
		resp, err := flow.GetListing(ctx, &dto.GetListingRequest{SellerID: 1, UUID: listing.UUID.String()}, metadata)
		require.NoError(t, err)
		assert.Equal(t, "P-000001", resp.Listing.SKU)
		assert.Equal(t, listing.UUID.String(), resp.Listing.UUID)
	})
}

func TestListListings(t *testing.T) {
	ctx := context.Background()
	metadata := &ClientMetadata{}

	t.Run("InvalidPage", func(t *testing.T) {
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{}}
		_, err := flow.ListListings(ctx, &dto.ListListingsRequest{SellerID: 1, Page: -1}, metadata)
		require.Error(t, err)
		assert.True(t, IsInvalidPage(err))
	})

	t.Run("InvalidPageSize", func(t *testing.T) {
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{}}
		_, err := flow.ListListings(ctx, &dto.ListListingsRequest{SellerID: 1, Limit: utils.MaxPageSize + 1}, metadata)
		require.Error(t, err)
		assert.True(t, IsInvalidPageSize(err))
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{listings: []*models.Listing{storedListing(1)}}}
		resp, err := flow.ListListings(ctx, &dto.ListListingsRequest{SellerID: 1}, metadata)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Pagination.Page)
		assert.Equal(t, utils.DefaultPageSize, resp.Pagination.Limit)
		assert.Equal(t, int64(1), resp.Pagination.Total)
		assert.Equal(t, 1, resp.Pagination.TotalPages)
		require.Len(t, resp.Items, 1)
	})

	t.Run("InvalidKindFilter", func(t *testing.T) {
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{}}
		req := &dto.ListListingsRequest{
			SellerID: 1,
			Filter:   &dto.ListListingsFilter{Kind: utils.ToPtr("X")},
		}
		_, err := flow.ListListings(ctx, req, metadata)
		require.Error(t, err)
		assert.True(t, IsListingKindInvalid(err))
	})
}

func TestBuildFilter(t *testing.T) {
	flow := &ListingFlowImpl{}

	t.Run("NilFilterScopesToSeller", func(t *testing.T) {
		filter, err := flow.buildFilter(7, nil)
		require.NoError(t, err)
		require.NotNil(t, filter.SellerID)
		assert.Equal(t, uint(7), *filter.SellerID)
		assert.Nil(t, filter.Kind)
	})

	t.Run("BlankFieldsIgnored", func(t *testing.T) {
		filter, err := flow.buildFilter(7, &dto.ListListingsFilter{
			ProductName: utils.ToPtr("  "),
			Kind:        utils.ToPtr(""),
		})
		require.NoError(t, err)
		assert.Nil(t, filter.ProductName)
		assert.Nil(t, filter.Kind)
	})

	t.Run("ValidKindAndStatus", func(t *testing.T) {
		filter, err := flow.buildFilter(7, &dto.ListListingsFilter{
			Kind:   utils.ToPtr("R"),
			Status: utils.ToPtr("submitted"),
		})
		require.NoError(t, err)
		require.NotNil(t, filter.Kind)
		assert.Equal(t, models.ListingKindQuoteRequest, *filter.Kind)
		require.NotNil(t, filter.Status)
		assert.Equal(t, models.ListingStatusSubmitted, *filter.Status)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		_, err := flow.buildFilter(7, &dto.ListListingsFilter{Status: utils.ToPtr("pending")})
		require.Error(t, err)
	})
}

func TestExportListingsXLSX(t *testing.T) {
	ctx := context.Background()
	auditRepo := &stubAuditRepo{}
	flow := &ListingFlowImpl{
		listingRepo: &stubListingRepo{listings: []*models.Listing{storedListing(1)}},
		auditRepo:   auditRepo,
	}

	data, filename, err := flow.ExportListingsXLSX(ctx, &dto.ExportListingsRequest{SellerID: 1}, &ClientMetadata{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "listings-"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows("Listings")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "SKU", rows[0][0])
	assert.Equal(t, "P-000001", rows[1][0])
	assert.Equal(t, "P", rows[1][1])
	assert.Equal(t, "submitted", rows[1][2])
	assert.Equal(t, "Cordless Drill 18V", rows[1][3])

	require.Len(t, auditRepo.saved, 1)
	assert.Equal(t, models.AuditActionListingExported, auditRepo.saved[0].Action)
}

func TestGetEditDraft(t *testing.T) {
	ctx := context.Background()
	metadata := &ClientMetadata{}

	t.Run("NotFound", func(t *testing.T) {
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{}}
		_, err := flow.GetEditDraft(ctx, &dto.GetEditDraftRequest{SellerID: 1, UUID: uuid.NewString()}, metadata)
		require.Error(t, err)
		assert.True(t, IsListingNotFound(err))
	})

	t.Run("ForeignListingDenied", func(t *testing.T) {
		listing := storedListing(99)
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{byUUID: listing}}
		_, err := flow.GetEditDraft(ctx, &dto.GetEditDraftRequest{SellerID: 1, UUID: listing.UUID.String()}, metadata)
		require.Error(t, err)
		assert.True(t, IsListingAccessDenied(err))
	})

	t.Run("FrozenStatusRejected", func(t *testing.T) {
		listing := storedListing(1)
		listing.Status = models.ListingStatusActive
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{byUUID: listing}}
		_, err := flow.GetEditDraft(ctx, &dto.GetEditDraftRequest{SellerID: 1, UUID: listing.UUID.String()}, metadata)
		require.Error(t, err)
		assert.True(t, IsListingUpdateNotAllowed(err))
	})

	t.Run("StoredPayloadWithoutAutosave", func(t *testing.T) {
		listing := storedListing(1)
		flow := &ListingFlowImpl{listingRepo: &stubListingRepo{byUUID: listing}}

		resp, err := flow.GetEditDraft(ctx, &dto.GetEditDraftRequest{SellerID: 1, UUID: listing.UUID.String()}, metadata)
		require.NoError(t, err)
		assert.False(t, resp.FromAutosave)
		assert.Equal(t, "Cordless Drill 18V", resp.Draft.ProductName)
		assert.True(t, resp.Draft.SetUpPrice)
	})
}

func TestDraftCacheKey(t *testing.T) {
	assert.Equal(t, utils.DraftCacheKeyPrefix+":42", draftCacheKey(42))
}

func TestDraftOpsWithoutCache(t *testing.T) {
	ctx := context.Background()
	flow := &ListingFlowImpl{}

	_, err := flow.SaveDraft(ctx, &dto.SaveDraftRequest{SellerID: 1}, &ClientMetadata{})
	require.Error(t, err)
	assert.True(t, IsCacheNotAvailable(err))

	_, err = flow.GetDraft(ctx, 1, &ClientMetadata{})
	require.Error(t, err)
	assert.True(t, IsCacheNotAvailable(err))
}
