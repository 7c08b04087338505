package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/Kitsune-no-Ichiba/app/dto"
	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/repository"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

// ListingFlow defines read-side listing operations and draft autosave
type ListingFlow interface {
	GetListing(ctx context.Context, req *dto.GetListingRequest, metadata *ClientMetadata) (*dto.GetListingResponse, error)
	ListListings(ctx context.Context, req *dto.ListListingsRequest, metadata *ClientMetadata) (*dto.ListListingsResponse, error)
	ExportListingsXLSX(ctx context.Context, req *dto.ExportListingsRequest, metadata *ClientMetadata) ([]byte, string, error)
	SaveDraft(ctx context.Context, req *dto.SaveDraftRequest, metadata *ClientMetadata) (*dto.SaveDraftResponse, error)
	GetDraft(ctx context.Context, sellerID uint, metadata *ClientMetadata) (*dto.GetDraftResponse, error)
	GetEditDraft(ctx context.Context, req *dto.GetEditDraftRequest, metadata *ClientMetadata) (*dto.GetEditDraftResponse, error)
}

// ListingFlowImpl implements listing queries against the repository layer and
// draft autosave against Redis.
type ListingFlowImpl struct {
	listingRepo repository.ListingRepository
	sellerRepo  repository.SellerRepository
	auditRepo   repository.AuditLogRepository
	rc          *redis.Client
}

// NewListingFlow creates a new listing flow instance
func NewListingFlow(
	listingRepo repository.ListingRepository,
	sellerRepo repository.SellerRepository,
	auditRepo repository.AuditLogRepository,
	rc *redis.Client,
) ListingFlow {
	return &ListingFlowImpl{
		listingRepo: listingRepo,
		sellerRepo:  sellerRepo,
		auditRepo:   auditRepo,
		rc:          rc,
	}
}

// GetListing fetches one listing by UUID, scoped to the requesting seller.
func (l *ListingFlowImpl) GetListing(ctx context.Context, req *dto.GetListingRequest, metadata *ClientMetadata) (*dto.GetListingResponse, error) {
	if utils.IsBlank(req.UUID) {
		return nil, NewBusinessError("LISTING_VALIDATION_FAILED", ErrListingUUIDRequired.Error(), ErrListingUUIDRequired)
	}

	listing, err := l.listingRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("LISTING_LOOKUP_FAILED", "Failed to lookup listing", err)
	}
	if listing == nil {
		return nil, NewBusinessError("LISTING_NOT_FOUND", ErrListingNotFound.Error(), ErrListingNotFound)
	}
	if listing.SellerID != req.SellerID {
		return nil, NewBusinessError("LISTING_ACCESS_DENIED", ErrListingAccessDenied.Error(), ErrListingAccessDenied)
	}

	return &dto.GetListingResponse{
		Message: "Listing retrieved successfully",
		Listing: ToListingDTO(*listing),
	}, nil
}

// ListListings returns one page of the seller's listings, newest first by
// default.
func (l *ListingFlowImpl) ListListings(ctx context.Context, req *dto.ListListingsRequest, metadata *ClientMetadata) (*dto.ListListingsResponse, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGINATION", ErrInvalidPage.Error(), ErrInvalidPage)
	}

	limit := req.Limit
	if limit == 0 {
		limit = utils.DefaultPageSize
	}
	if limit < 1 || limit > utils.MaxPageSize {
		return nil, NewBusinessError("INVALID_PAGINATION", ErrInvalidPageSize.Error(), ErrInvalidPageSize)
	}

	orderBy := "created_at DESC"
	if req.OrderBy == "oldest" {
		orderBy = "created_at ASC"
	}

	filter, err := l.buildFilter(req.SellerID, req.Filter)
	if err != nil {
		return nil, err
	}

	total, err := l.listingRepo.Count(ctx, *filter)
	if err != nil {
		return nil, NewBusinessError("LISTING_LOOKUP_FAILED", "Failed to count listings", err)
	}

	offset := (page - 1) * limit
	listings, err := l.listingRepo.ByFilter(ctx, *filter, orderBy, limit, offset)
	if err != nil {
		return nil, NewBusinessError("LISTING_LOOKUP_FAILED", "Failed to list listings", err)
	}

	items := make([]dto.ListingDTO, 0, len(listings))
	for _, listing := range listings {
		items = append(items, ToListingDTO(*listing))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &dto.ListListingsResponse{
		Message: "Listings retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationInfo{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// ExportListingsXLSX builds a spreadsheet of the seller's listings and returns
// the workbook bytes with a suggested filename.
func (l *ListingFlowImpl) ExportListingsXLSX(ctx context.Context, req *dto.ExportListingsRequest, metadata *ClientMetadata) ([]byte, string, error) {
	filter, err := l.buildFilter(req.SellerID, req.Filter)
	if err != nil {
		return nil, "", err
	}

	listings, err := l.listingRepo.ByFilter(ctx, *filter, "created_at DESC", 0, 0)
	if err != nil {
		return nil, "", NewBusinessError("LISTING_LOOKUP_FAILED", "Failed to list listings", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	const sheet = "Listings"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []any{"SKU", "Kind", "Status", "Product Name", "Brand ID", "Category ID", "Price", "Offer Price", "Stock", "Sell Type", "Menu ID", "Created At", "Updated At"}
	if err := xl.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", NewBusinessError("LISTING_EXPORT_FAILED", "Failed to build export", err)
	}

	for ri, listing := range listings {
		var price, offer float64
		var stock int
		var sellType, menuID string
		if len(listing.Payload.ProductPriceList) > 0 {
			entry := listing.Payload.ProductPriceList[0]
			price = entry.ProductPrice
			offer = entry.OfferPrice
			stock = entry.Stock
			sellType = entry.SellType
			menuID = entry.MenuID
		}

		updatedAt := ""
		if listing.UpdatedAt != nil {
			updatedAt = listing.UpdatedAt.Format(time.RFC3339)
		}

		row := []any{
			listing.SKU,
			string(listing.Kind),
			string(listing.Status),
			listing.ProductName,
			listing.Payload.BrandID,
			listing.Payload.CategoryID,
			price,
			offer,
			stock,
			sellType,
			menuID,
			listing.CreatedAt.Format(time.RFC3339),
			updatedAt,
		}

		cell, err := excelize.CoordinatesToCellName(1, ri+2)
		if err != nil {
			return nil, "", NewBusinessError("LISTING_EXPORT_FAILED", "Failed to build export", err)
		}
		if err := xl.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", NewBusinessError("LISTING_EXPORT_FAILED", "Failed to build export", err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, "", NewBusinessError("LISTING_EXPORT_FAILED", "Failed to build export", err)
	}

	msg := fmt.Sprintf("Exported %d listings", len(listings))
	_ = l.createAuditLog(ctx, req.SellerID, models.AuditActionListingExported, msg, true, nil, metadata)

	filename := fmt.Sprintf("listings-%s.xlsx", utils.UTCNow().Format("20060102-150405"))
	return buf.Bytes(), filename, nil
}

// SaveDraft stores the seller's in-progress draft in Redis. Each seller holds
// at most one autosaved draft; a new save replaces the previous one.
func (l *ListingFlowImpl) SaveDraft(ctx context.Context, req *dto.SaveDraftRequest, metadata *ClientMetadata) (*dto.SaveDraftResponse, error) {
	if l.rc == nil {
		return nil, NewBusinessError("CACHE_NOT_AVAILABLE", ErrCacheNotAvailable.Error(), ErrCacheNotAvailable)
	}

	envelope := draftEnvelope{
		Draft:   req.ListingDraft,
		SavedAt: utils.UTCNowRFC3339(),
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return nil, NewBusinessError("DRAFT_SAVE_FAILED", "Failed to serialize draft", err)
	}

	if err := l.rc.Set(ctx, draftCacheKey(req.SellerID), raw, utils.DraftCacheTTL).Err(); err != nil {
		return nil, NewBusinessError("DRAFT_SAVE_FAILED", "Failed to save draft", err)
	}

	return &dto.SaveDraftResponse{
		Message: "Draft saved successfully",
		SavedAt: envelope.SavedAt,
	}, nil
}

// GetDraft returns the seller's autosaved draft, if one exists.
func (l *ListingFlowImpl) GetDraft(ctx context.Context, sellerID uint, metadata *ClientMetadata) (*dto.GetDraftResponse, error) {
	if l.rc == nil {
		return nil, NewBusinessError("CACHE_NOT_AVAILABLE", ErrCacheNotAvailable.Error(), ErrCacheNotAvailable)
	}

	raw, err := l.rc.Get(ctx, draftCacheKey(sellerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, NewBusinessError("DRAFT_NOT_FOUND", ErrDraftNotFound.Error(), ErrDraftNotFound)
		}
		return nil, NewBusinessError("DRAFT_LOOKUP_FAILED", "Failed to fetch draft", err)
	}

	var envelope draftEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, NewBusinessError("DRAFT_LOOKUP_FAILED", "Failed to decode draft", err)
	}

	return &dto.GetDraftResponse{
		Message: "Draft retrieved successfully",
		Draft:   envelope.Draft,
		SavedAt: envelope.SavedAt,
	}, nil
}

// GetEditDraft pre-populates the edit form for a listing: the stored payload
// is folded back into a draft and the seller's autosaved draft, when present,
// shadows it field by field.
func (l *ListingFlowImpl) GetEditDraft(ctx context.Context, req *dto.GetEditDraftRequest, metadata *ClientMetadata) (*dto.GetEditDraftResponse, error) {
	if utils.IsBlank(req.UUID) {
		return nil, NewBusinessError("LISTING_VALIDATION_FAILED", ErrListingUUIDRequired.Error(), ErrListingUUIDRequired)
	}

	listing, err := l.listingRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("LISTING_LOOKUP_FAILED", "Failed to lookup listing", err)
	}
	if listing == nil {
		return nil, NewBusinessError("LISTING_NOT_FOUND", ErrListingNotFound.Error(), ErrListingNotFound)
	}
	if listing.SellerID != req.SellerID {
		return nil, NewBusinessError("LISTING_ACCESS_DENIED", ErrListingAccessDenied.Error(), ErrListingAccessDenied)
	}
	if !listing.IsEditable() {
		return nil, NewBusinessError("LISTING_UPDATE_NOT_ALLOWED", ErrListingUpdateNotAllowed.Error(), ErrListingUpdateNotAllowed)
	}

	stored := DraftFromPayload(listing.Payload)

	// A missing or unreadable autosave falls back to the stored record alone.
	var autosaved *models.ListingDraft
	if l.rc != nil {
		if raw, err := l.rc.Get(ctx, draftCacheKey(req.SellerID)).Result(); err == nil {
			var envelope draftEnvelope
			if err := json.Unmarshal([]byte(raw), &envelope); err == nil {
				autosaved = &envelope.Draft
			}
		}
	}

	merged := ResolveEditDraft(autosaved, &stored)

	return &dto.GetEditDraftResponse{
		Message:      "Edit draft prepared successfully",
		Draft:        merged,
		FromAutosave: autosaved != nil,
	}, nil
}

// draftEnvelope is the JSON shape stored under the draft cache key
type draftEnvelope struct {
	Draft   models.ListingDraft `json:"draft"`
	SavedAt string              `json:"saved_at"`
}

func draftCacheKey(sellerID uint) string {
	return fmt.Sprintf("%s:%d", utils.DraftCacheKeyPrefix, sellerID)
}

func (l *ListingFlowImpl) buildFilter(sellerID uint, f *dto.ListListingsFilter) (*models.ListingFilter, error) {
	filter := &models.ListingFilter{SellerID: &sellerID}
	if f == nil {
		return filter, nil
	}

	if f.ProductName != nil && !utils.IsBlank(*f.ProductName) {
		filter.ProductName = f.ProductName
	}
	if f.Kind != nil && !utils.IsBlank(*f.Kind) {
		kind := models.ListingKind(*f.Kind)
		if !kind.Valid() {
			return nil, NewBusinessError("LISTING_VALIDATION_FAILED", ErrListingKindInvalid.Error(), ErrListingKindInvalid)
		}
		filter.Kind = &kind
	}
	if f.Status != nil && !utils.IsBlank(*f.Status) {
		status := models.ListingStatus(*f.Status)
		if !status.Valid() {
			return nil, NewBusinessErrorf("LISTING_VALIDATION_FAILED", "invalid listing status: %s", nil, *f.Status)
		}
		filter.Status = &status
	}

	return filter, nil
}

func (l *ListingFlowImpl) createAuditLog(ctx context.Context, sellerID uint, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	ipAddress := ""
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		SellerID:     &sellerID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}

	requestID := ctx.Value(utils.RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return l.auditRepo.Save(ctx, audit)
}
