package businessflow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/amirphl/Kitsune-no-Ichiba/app/dto"
	"github.com/amirphl/Kitsune-no-Ichiba/config"
	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/repository"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SubmissionFlow defines the listing submission pipeline
type SubmissionFlow interface {
	SubmitListing(ctx context.Context, req *dto.SubmitListingRequest, metadata *ClientMetadata) (*dto.SubmitListingResponse, error)
	UpdateListing(ctx context.Context, req *dto.UpdateListingRequest, metadata *ClientMetadata) (*dto.UpdateListingResponse, error)
}

// SubmissionFlowImpl implements the listing submission business flow
type SubmissionFlowImpl struct {
	listingRepo  repository.ListingRepository
	sellerRepo   repository.SellerRepository
	auditRepo    repository.AuditLogRepository
	sequenceRepo repository.SequenceCounterRepository
	coordinator  *AssetUploadCoordinator
	menuCfg      config.MenuConfig
	rc           *redis.Client
	db           *gorm.DB
}

// NewSubmissionFlow creates a new submission flow instance
func NewSubmissionFlow(
	listingRepo repository.ListingRepository,
	sellerRepo repository.SellerRepository,
	auditRepo repository.AuditLogRepository,
	sequenceRepo repository.SequenceCounterRepository,
	coordinator *AssetUploadCoordinator,
	menuCfg config.MenuConfig,
	rc *redis.Client,
	db *gorm.DB,
) SubmissionFlow {
	return &SubmissionFlowImpl{
		listingRepo:  listingRepo,
		sellerRepo:   sellerRepo,
		auditRepo:    auditRepo,
		sequenceRepo: sequenceRepo,
		coordinator:  coordinator,
		menuCfg:      menuCfg,
		rc:           rc,
		db:           db,
	}
}

// SubmitListing runs the full pipeline: validate, resolve assets, expand
// variants, assemble the kind-pruned payload, and persist the listing.
func (s *SubmissionFlowImpl) SubmitListing(ctx context.Context, req *dto.SubmitListingRequest, metadata *ClientMetadata) (*dto.SubmitListingResponse, error) {
	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, err
	}

	// Snapshot the draft; normalization mutates price fields and nothing of
	// the caller's request should change under it.
	draft := req.ListingDraft

	payload, err := s.buildPayload(ctx, &draft)
	if err != nil {
		errMsg := fmt.Sprintf("Listing submission failed: %s", err.Error())
		_ = s.createAuditLog(ctx, seller, models.AuditActionListingSubmissionFailed, errMsg, false, &errMsg, metadata)
		return nil, err
	}

	sku, err := s.nextSKU(ctx, draft.Kind)
	if err != nil {
		return nil, NewBusinessError("SKU_GENERATION_FAILED", "Failed to generate SKU", err)
	}
	payload.SKU = sku

	var listing *models.Listing
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		listing = &models.Listing{
			UUID:              uuid.New(),
			SellerID:          seller.ID,
			SKU:               sku,
			Kind:              draft.Kind,
			Status:            models.ListingStatusSubmitted,
			ProductName:       draft.ProductName,
			Tags:              pq.StringArray(draft.Tags),
			ShortDescriptions: pq.StringArray(draft.ShortDescriptions),
			SellLocations:     pq.StringArray(draft.SellLocations),
			Payload:           payload,
		}
		return s.listingRepo.Save(txCtx, listing)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Listing submission failed: %s", err.Error())
		_ = s.createAuditLog(ctx, seller, models.AuditActionListingSubmissionFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("LISTING_SUBMISSION_FAILED", "Listing submission failed", err)
	}

	msg := fmt.Sprintf("Listing submitted successfully: %s", listing.UUID.String())
	_ = s.createAuditLog(ctx, seller, models.AuditActionListingSubmitted, msg, true, nil, metadata)

	// Best-effort: drop the autosaved draft now that it is submitted. A
	// failure here never rolls back the submission.
	warnings := s.clearDraftCache(ctx, seller.ID)

	return &dto.SubmitListingResponse{
		Message:   "Listing submitted successfully",
		ID:        listing.ID,
		UUID:      listing.UUID.String(),
		SKU:       listing.SKU,
		Status:    string(listing.Status),
		CreatedAt: listing.CreatedAt.Format(time.RFC3339),
		Warnings:  warnings,
	}, nil
}

// UpdateListing re-runs the pipeline against an existing listing, keeping its
// SKU and identity.
func (s *SubmissionFlowImpl) UpdateListing(ctx context.Context, req *dto.UpdateListingRequest, metadata *ClientMetadata) (*dto.UpdateListingResponse, error) {
	if utils.IsBlank(req.UUID) {
		return nil, NewBusinessError("LISTING_VALIDATION_FAILED", ErrListingUUIDRequired.Error(), ErrListingUUIDRequired)
	}

	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, err
	}

	existing, err := s.listingRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("LISTING_LOOKUP_FAILED", "Failed to lookup listing", err)
	}
	if existing == nil {
		return nil, NewBusinessError("LISTING_NOT_FOUND", ErrListingNotFound.Error(), ErrListingNotFound)
	}
	if existing.SellerID != seller.ID {
		return nil, NewBusinessError("LISTING_ACCESS_DENIED", ErrListingAccessDenied.Error(), ErrListingAccessDenied)
	}
	if !existing.IsEditable() {
		return nil, NewBusinessError("LISTING_UPDATE_NOT_ALLOWED", ErrListingUpdateNotAllowed.Error(), ErrListingUpdateNotAllowed)
	}

	draft := req.ListingDraft

	payload, err := s.buildPayload(ctx, &draft)
	if err != nil {
		errMsg := fmt.Sprintf("Listing update failed: %s", err.Error())
		_ = s.createAuditLog(ctx, seller, models.AuditActionListingUpdateFailed, errMsg, false, &errMsg, metadata)
		return nil, err
	}
	payload.SKU = existing.SKU

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		existing.Kind = draft.Kind
		existing.ProductName = draft.ProductName
		existing.Tags = pq.StringArray(draft.Tags)
		existing.ShortDescriptions = pq.StringArray(draft.ShortDescriptions)
		existing.SellLocations = pq.StringArray(draft.SellLocations)
		existing.Payload = payload
		existing.Status = models.ListingStatusSubmitted
		return s.listingRepo.Update(txCtx, *existing)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Listing update failed: %s", err.Error())
		_ = s.createAuditLog(ctx, seller, models.AuditActionListingUpdateFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("LISTING_UPDATE_FAILED", "Listing update failed", err)
	}

	msg := fmt.Sprintf("Listing updated successfully: %s", existing.UUID.String())
	_ = s.createAuditLog(ctx, seller, models.AuditActionListingUpdated, msg, true, nil, metadata)

	warnings := s.clearDraftCache(ctx, seller.ID)

	return &dto.UpdateListingResponse{
		Message:   "Listing updated successfully",
		ID:        existing.ID,
		UUID:      existing.UUID.String(),
		SKU:       existing.SKU,
		Status:    string(existing.Status),
		UpdatedAt: utils.UTCNowRFC3339(),
		Warnings:  warnings,
	}, nil
}

// buildPayload runs validation and the transformation stages against one
// draft snapshot. The pipeline is strictly linear: validation, asset
// resolution, variant expansion, price-entry assembly.
func (s *SubmissionFlowImpl) buildPayload(ctx context.Context, draft *models.ListingDraft) (models.SubmissionPayload, error) {
	rules := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
	if errs := rules.Apply(draft); len(errs) > 0 {
		return models.SubmissionPayload{}, NewBusinessError("LISTING_VALIDATION_FAILED", "Listing validation failed", errs)
	}

	variants, variantImages := BuildVariantMatrix(draft.VariantAxes)

	variantSlots := make([]models.AssetRef, len(variantImages))
	for i, vi := range variantImages {
		variantSlots[i] = vi.Asset
	}

	// Listing images and variant images are independent groups; resolve both
	// batches concurrently, then join before payload assembly.
	var (
		wg          sync.WaitGroup
		listingRefs []string
		variantRefs []string
		listingErr  error
		variantErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		listingRefs, listingErr = s.coordinator.Resolve(ctx, draft.Images)
	}()
	go func() {
		defer wg.Done()
		variantRefs, variantErr = s.coordinator.Resolve(ctx, variantSlots)
	}()
	wg.Wait()

	if listingErr != nil {
		return models.SubmissionPayload{}, listingErr
	}
	if variantErr != nil {
		return models.SubmissionPayload{}, variantErr
	}

	imagesList := make([]models.ImageEntry, 0, len(listingRefs)+len(variantRefs))
	for _, ref := range listingRefs {
		imagesList = append(imagesList, mediaEntry(ref, nil))
	}
	for i, ref := range variantRefs {
		tag := models.VariantRef{Type: variantImages[i].Type, Value: variantImages[i].Value}
		imagesList = append(imagesList, mediaEntry(ref, &tag))
	}

	payload := models.SubmissionPayload{
		ListingKind:       draft.Kind,
		ProductName:       draft.ProductName,
		BrandID:           utils.Deref(draft.BrandID),
		CategoryID:        utils.Deref(draft.CategoryID),
		Condition:         draft.Condition,
		Tags:              draft.Tags,
		ShortDescriptions: draft.ShortDescriptions,
		Specifications:    draft.Specifications,
		ProductPriceList:  []models.PriceEntry{s.buildPriceEntry(draft)},
		ProductVariant:    variants,
		ProductImagesList: imagesList,
	}

	return payload, nil
}

// buildPriceEntry assembles the single productPriceList element, applying the
// askFor* switches, the routing code, and the kind-specific location pruning.
func (s *SubmissionFlowImpl) buildPriceEntry(draft *models.ListingDraft) models.PriceEntry {
	rule := draft.PriceRule()

	entry := models.PriceEntry{
		ConsumerType:           rule.ConsumerType,
		SellType:               draft.SellType().String(),
		ConsumerDiscount:       utils.Deref(rule.ConsumerDiscount),
		VendorDiscount:         utils.Deref(rule.VendorDiscount),
		DeliveryAfter:          utils.Deref(rule.DeliveryAfter),
		MinQuantity:            utils.Deref(rule.MinQuantity),
		MaxQuantity:            utils.Deref(rule.MaxQuantity),
		MinCustomer:            utils.Deref(rule.MinCustomer),
		MaxCustomer:            utils.Deref(rule.MaxCustomer),
		MinQuantityPerCustomer: utils.Deref(rule.MinQuantityPerCustomer),
		MaxQuantityPerCustomer: utils.Deref(rule.MaxQuantityPerCustomer),
		OpenTime:               rule.OpenTime,
		CloseTime:              rule.CloseTime,
		AskForPrice:            utils.BoolString(draft.AskForPrice),
		AskForStock:            utils.BoolString(draft.AskForStock),
		MenuID:                 s.routingCode(draft),
		Status:                 "ACTIVE",
	}

	if draft.AskForStock {
		entry.Stock = 0
	} else {
		entry.Stock = utils.Deref(draft.Stock)
	}

	switch {
	case draft.AskForPrice:
		entry.ProductPrice = 0
		entry.OfferPrice = 0
	case draft.Kind == models.ListingKindQuoteRequest:
		// Quote requests carry one price; product and offer price match.
		entry.ProductPrice = utils.Deref(draft.ProductPrice)
		entry.OfferPrice = utils.Deref(draft.ProductPrice)
	default:
		entry.ProductPrice = utils.Deref(draft.ProductPrice)
		entry.OfferPrice = utils.Deref(draft.OfferPrice)
	}

	// Location and sell territory never apply to quote requests.
	if draft.Kind != models.ListingKindQuoteRequest {
		entry.ProductCountryID = draft.CountryID
		entry.ProductStateID = draft.StateID
		entry.ProductCityID = draft.CityID
		entry.ProductTown = draft.Town
		entry.ProductLatLng = draft.LatLng
		entry.SellLocations = draft.SellLocations
	}

	return entry
}

// routingCode picks the menuId for the downstream marketplace surface. The
// custom-product flag overrides the sell-type code; the quote-request code
// overrides everything.
func (s *SubmissionFlowImpl) routingCode(draft *models.ListingDraft) string {
	code := s.menuCfg.StoreMenuID
	if draft.SellType() == models.SellTypeGroupBuy {
		code = s.menuCfg.GroupBuyMenuID
	}
	if draft.CustomProduct {
		code = s.menuCfg.CustomProductMenuID
	}
	if draft.Kind == models.ListingKindQuoteRequest {
		code = s.menuCfg.QuoteRequestMenuID
	}
	return code
}

// nextSKU allocates the next identifier in the per-kind sequence.
func (s *SubmissionFlowImpl) nextSKU(ctx context.Context, kind models.ListingKind) (string, error) {
	seq, err := s.sequenceRepo.Next(ctx, "listing_sku_"+strings.ToLower(kind.String()))
	if err != nil {
		return "", err
	}
	return formatListingSKU(kind, seq), nil
}

func formatListingSKU(kind models.ListingKind, seq uint64) string {
	s := encodeBase36(seq)
	if len(s) < 6 {
		s = strings.Repeat("0", 6-len(s)) + s
	}
	return fmt.Sprintf("%s-%s", kind, strings.ToUpper(s))
}

func encodeBase36(n uint64) string {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	if n == 0 {
		return "0"
	}
	buf := make([]byte, 0, 16)
	for n > 0 {
		r := n % 36
		buf = append(buf, digits[r])
		n /= 36
	}
	// reverse in place
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".mkv":  true,
}

// mediaEntry classifies a resolved reference into the image or video field
// pair and attaches the variant tag when present.
func mediaEntry(ref string, variant *models.VariantRef) models.ImageEntry {
	name := filepath.Base(ref)
	ext := strings.ToLower(filepath.Ext(ref))
	if videoExtensions[ext] {
		return models.ImageEntry{Video: ref, VideoName: name, Variant: variant}
	}
	return models.ImageEntry{Image: ref, ImageName: name, Variant: variant}
}

// clearDraftCache removes the autosaved draft after a successful submit. A
// cache failure is reported as a warning, never as an error.
func (s *SubmissionFlowImpl) clearDraftCache(ctx context.Context, sellerID uint) []string {
	if s.rc == nil {
		return nil
	}
	if err := s.rc.Del(ctx, draftCacheKey(sellerID)).Err(); err != nil {
		return []string{fmt.Sprintf("failed to clear draft autosave: %v", err)}
	}
	return nil
}

func getSeller(ctx context.Context, sellerRepo repository.SellerRepository, sellerID uint) (*models.Seller, error) {
	seller, err := sellerRepo.ByID(ctx, sellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}
	if seller == nil {
		return nil, NewBusinessError("SELLER_NOT_FOUND", ErrSellerNotFound.Error(), ErrSellerNotFound)
	}
	if !seller.CanSubmitListings() {
		return nil, NewBusinessError("ACCOUNT_INACTIVE", ErrAccountInactive.Error(), ErrAccountInactive)
	}
	return seller, nil
}

func (s *SubmissionFlowImpl) createAuditLog(ctx context.Context, seller *models.Seller, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	var sellerID *uint
	if seller != nil {
		sellerID = &seller.ID
	}

	ipAddress := ""
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		SellerID:     sellerID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}

	// Extract request ID from context if available
	requestID := ctx.Value(utils.RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return s.auditRepo.Save(ctx, audit)
}
