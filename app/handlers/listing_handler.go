// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/amirphl/Kitsune-no-Ichiba/app/dto"
	"github.com/amirphl/Kitsune-no-Ichiba/app/middleware"
	businessflow "github.com/amirphl/Kitsune-no-Ichiba/business_flow"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ListingHandlerInterface defines the contract for listing handlers
type ListingHandlerInterface interface {
	SubmitListing(c fiber.Ctx) error
	UpdateListing(c fiber.Ctx) error
	GetListing(c fiber.Ctx) error
	ListListings(c fiber.Ctx) error
	ExportListings(c fiber.Ctx) error
	SaveDraft(c fiber.Ctx) error
	GetDraft(c fiber.Ctx) error
	GetEditDraft(c fiber.Ctx) error
}

// ListingHandler handles listing-related HTTP requests
type ListingHandler struct {
	submissionFlow businessflow.SubmissionFlow
	listingFlow    businessflow.ListingFlow
	validator      *validator.Validate
}

func (h *ListingHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ListingHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewListingHandler creates a new listing handler
func NewListingHandler(submissionFlow businessflow.SubmissionFlow, listingFlow businessflow.ListingFlow) *ListingHandler {
	return &ListingHandler{
		submissionFlow: submissionFlow,
		listingFlow:    listingFlow,
		validator:      validator.New(),
	}
}

// SubmitListing handles the listing submission process
// @Summary Submit Listing
// @Description Validate and submit a listing draft, producing the server-bound record
// @Tags Listings
// @Accept json
// @Produce json
// @Param request body dto.SubmitListingRequest true "Listing draft data"
// @Success 201 {object} dto.APIResponse{data=dto.SubmitListingResponse} "Listing submitted successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized - seller not found or inactive"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/listings [post]
func (h *ListingHandler) SubmitListing(c fiber.Ctx) error {
	var req dto.SubmitListingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Get authenticated seller ID from context
	sellerID, ok := middleware.GetSellerIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller ID not found in context", "MISSING_SELLER_ID", nil)
	}
	req.SellerID = sellerID

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// Call business logic with proper context
	result, err := h.submissionFlow.SubmitListing(h.createRequestContext(c, "/api/v1/listings"), &req, metadata)
	if err != nil {
		middleware.RecordListingSubmission(string(req.Kind), submissionOutcome(err))
		return h.listingErrorResponse(c, err, "Listing submission failed", "LISTING_SUBMISSION_FAILED")
	}

	middleware.RecordListingSubmission(string(req.Kind), "success")

	// Successful listing submission
	return h.SuccessResponse(c, fiber.StatusCreated, "Listing submitted successfully", fiber.Map{
		"message":    result.Message,
		"id":         result.ID,
		"uuid":       result.UUID,
		"sku":        result.SKU,
		"status":     result.Status,
		"created_at": result.CreatedAt,
		"warnings":   result.Warnings,
	})
}

// UpdateListing handles the listing update process
// @Summary Update Listing
// @Description Re-run the submission pipeline against an existing listing
// @Tags Listings
// @Accept json
// @Produce json
// @Param uuid path string true "Listing UUID"
// @Param request body dto.UpdateListingRequest true "Listing draft data"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateListingResponse} "Listing updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized - seller not found or inactive"
// @Failure 403 {object} dto.APIResponse "Forbidden - listing access denied or update not allowed"
// @Failure 404 {object} dto.APIResponse "Listing not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/listings/{uuid} [put]
func (h *ListingHandler) UpdateListing(c fiber.Ctx) error {
	// Get listing UUID from path parameter
	listingUUID := c.Params("uuid")
	if listingUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Listing UUID is required", "MISSING_LISTING_UUID", nil)
	}

	var req dto.UpdateListingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = listingUUID

	// Get authenticated seller ID from context
	sellerID, ok := middleware.GetSellerIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller ID not found in context", "MISSING_SELLER_ID", nil)
	}
	req.SellerID = sellerID

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// Call business logic with proper context
	result, err := h.submissionFlow.UpdateListing(h.createRequestContext(c, "/api/v1/listings/"+listingUUID), &req, metadata)
	if err != nil {
		return h.listingErrorResponse(c, err, "Listing update failed", "LISTING_UPDATE_FAILED")
	}

	// Successful listing update
	return h.SuccessResponse(c, fiber.StatusOK, "Listing updated successfully", fiber.Map{
		"message":    result.Message,
		"id":         result.ID,
		"uuid":       result.UUID,
		"sku":        result.SKU,
		"status":     result.Status,
		"updated_at": result.UpdatedAt,
		"warnings":   result.Warnings,
	})
}

// GetListing returns a single listing by UUID
// @Summary Get Listing
// @Description Retrieve one of the authenticated seller's listings
// @Tags Listings
// @Produce json
// @Param uuid path string true "Listing UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetListingResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Listing not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/listings/{uuid} [get]
func (h *ListingHandler) GetListing(c fiber.Ctx) error {
	listingUUID := c.Params("uuid")
	if listingUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Listing UUID is required", "MISSING_LISTING_UUID", nil)
	}

	sellerID, ok := middleware.GetSellerIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller ID not found in context", "MISSING_SELLER_ID", nil)
	}

	req := &dto.GetListingRequest{SellerID: sellerID, UUID: listingUUID}
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.listingFlow.GetListing(h.createRequestContext(c, "/api/v1/listings/"+listingUUID), req, metadata)
	if err != nil {
		return h.listingErrorResponse(c, err, "Failed to get listing", "GET_LISTING_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Listing retrieved successfully", fiber.Map{
		"message": result.Message,
		"listing": result.Listing,
	})
}

// ListListings returns the seller's listings with filters and pagination
// @Summary List Listings
// @Description Retrieve the authenticated seller's listings with pagination, ordering, and filters
// @Tags Listings
// @Produce json
// @Param page query int true "Page number"
// @Param limit query int true "Items per page (max 100)"
// @Param orderby query string false "Order by (newest|oldest)" default(newest)
// @Param product_name query string false "Filter by product name (contains)"
// @Param kind query string false "Filter by listing kind (P|R)"
// @Param status query string false "Filter by status (draft|submitted|active|rejected|archived)"
// @Success 200 {object} dto.APIResponse{data=dto.ListListingsResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/listings [get]
func (h *ListingHandler) ListListings(c fiber.Ctx) error {
	// Parse query params
	pageStr := c.Query("page", "1")
	limitStr := c.Query("limit", "20")
	page := 1
	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		page = v
	}
	limit := 20
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	orderby := c.Query("orderby", "newest")
	productName := c.Query("product_name")
	kind := c.Query("kind")
	status := c.Query("status")

	sellerID, ok := middleware.GetSellerIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller ID not found in context", "MISSING_SELLER_ID", nil)
	}

	// Build request DTO
	var filter *dto.ListListingsFilter
	if productName != "" || kind != "" || status != "" {
		filter = &dto.ListListingsFilter{}
		if productName != "" {
			filter.ProductName = &productName
		}
		if kind != "" {
			filter.Kind = &kind
		}
		if status != "" {
			filter.Status = &status
		}
	}
	req := &dto.ListListingsRequest{
		SellerID: sellerID,
		Page:     page,
		Limit:    limit,
		OrderBy:  orderby,
		Filter:   filter,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.listingFlow.ListListings(h.createRequestContext(c, "/api/v1/listings"), req, metadata)
	if err != nil {
		return h.listingErrorResponse(c, err, "Failed to list listings", "LIST_LISTINGS_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Listings retrieved successfully", fiber.Map{
		"message":    result.Message,
		"items":      result.Items,
		"pagination": result.Pagination,
	})
}

// ExportListings downloads the seller's listings as an XLSX workbook
// @Summary Export Listings
// @Description Export the authenticated seller's listings as a spreadsheet
// @Tags Listings
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param product_name query string false "Filter by product name (contains)"
// @Param kind query string false "Filter by listing kind (P|R)"
// @Param status query string false "Filter by status"
// @Success 200 {file} binary "XLSX workbook"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/listings/export [get]
func (h *ListingHandler) ExportListings(c fiber.Ctx) error {
	sellerID, ok := middleware.GetSellerIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller ID not found in context", "MISSING_SELLER_ID", nil)
	}

	productName := c.Query("product_name")
	kind := c.Query("kind")
	status := c.Query("status")

	var filter *dto.ListListingsFilter
	if productName != "" || kind != "" || status != "" {
		filter = &dto.ListListingsFilter{}
		if productName != "" {
			filter.ProductName = &productName
		}
		if kind != "" {
			filter.Kind = &kind
		}
		if status != "" {
			filter.Status = &status
		}
	}
	req := &dto.ExportListingsRequest{SellerID: sellerID, Filter: filter}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	data, filename, err := h.listingFlow.ExportListingsXLSX(h.createRequestContext(c, "/api/v1/listings/export"), req, metadata)
	if err != nil {
		return h.listingErrorResponse(c, err, "Failed to export listings", "EXPORT_LISTINGS_FAILED")
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	return c.Send(data)
}

// SaveDraft stores the seller's in-progress draft
// @Summary Save Draft
// @Description Autosave the authenticated seller's in-progress listing draft
// @Tags Listings
// @Accept json
// @Produce json
// @Param request body dto.SaveDraftRequest true "Draft data"
// @Success 200 {object} dto.APIResponse{data=dto.SaveDraftResponse} "Draft saved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/listings/draft [put]
func (h *ListingHandler) SaveDraft(c fiber.Ctx) error {
	var req dto.SaveDraftRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	sellerID, ok := middleware.GetSellerIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller ID not found in context", "MISSING_SELLER_ID", nil)
	}
	req.SellerID = sellerID

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.listingFlow.SaveDraft(h.createRequestContext(c, "/api/v1/listings/draft"), &req, metadata)
	if err != nil {
		return h.listingErrorResponse(c, err, "Failed to save draft", "DRAFT_SAVE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Draft saved successfully", fiber.Map{
		"message":  result.Message,
		"saved_at": result.SavedAt,
	})
}

// GetDraft returns the seller's autosaved draft
// @Summary Get Draft
// @Description Retrieve the authenticated seller's autosaved listing draft
// @Tags Listings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.GetDraftResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Draft not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/listings/draft [get]
func (h *ListingHandler) GetDraft(c fiber.Ctx) error {
	sellerID, ok := middleware.GetSellerIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller ID not found in context", "MISSING_SELLER_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.listingFlow.GetDraft(h.createRequestContext(c, "/api/v1/listings/draft"), sellerID, metadata)
	if err != nil {
		return h.listingErrorResponse(c, err, "Failed to get draft", "DRAFT_LOOKUP_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Draft retrieved successfully", fiber.Map{
		"message":  result.Message,
		"draft":    result.Draft,
		"saved_at": result.SavedAt,
	})
}

// GetEditDraft returns the pre-populated edit form for a listing
// @Summary Get Edit Draft
// @Description Rebuild an editable draft from a stored listing, merged with the seller's autosaved draft
// @Tags Listings
// @Produce json
// @Param uuid path string true "Listing UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetEditDraftResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Listing not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/listings/{uuid}/draft [get]
func (h *ListingHandler) GetEditDraft(c fiber.Ctx) error {
	listingUUID := c.Params("uuid")
	if listingUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Listing UUID is required", "MISSING_LISTING_UUID", nil)
	}

	sellerID, ok := middleware.GetSellerIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller ID not found in context", "MISSING_SELLER_ID", nil)
	}

	req := &dto.GetEditDraftRequest{SellerID: sellerID, UUID: listingUUID}
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.listingFlow.GetEditDraft(h.createRequestContext(c, "/api/v1/listings/"+listingUUID+"/draft"), req, metadata)
	if err != nil {
		return h.listingErrorResponse(c, err, "Failed to prepare edit draft", "EDIT_DRAFT_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Edit draft prepared successfully", fiber.Map{
		"message":       result.Message,
		"draft":         result.Draft,
		"from_autosave": result.FromAutosave,
	})
}

// listingErrorResponse maps business errors onto HTTP responses. Field-level
// validation failures carry the path-keyed detail map.
func (h *ListingHandler) listingErrorResponse(c fiber.Ctx, err error, fallbackMsg, fallbackCode string) error {
	if fieldErrs, ok := businessflow.IsFieldErrors(err); ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Listing validation failed", "LISTING_VALIDATION_FAILED", fieldErrs)
	}
	if businessflow.IsSellerNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller not found", "SELLER_NOT_FOUND", nil)
	}
	if businessflow.IsAccountInactive(err) {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller account is inactive", "ACCOUNT_INACTIVE", nil)
	}
	if businessflow.IsListingNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Listing not found", "LISTING_NOT_FOUND", nil)
	}
	if businessflow.IsListingAccessDenied(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Access denied: listing belongs to another seller", "LISTING_ACCESS_DENIED", nil)
	}
	if businessflow.IsListingUpdateNotAllowed(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Listing cannot be updated in current status", "LISTING_UPDATE_NOT_ALLOWED", nil)
	}
	if businessflow.IsListingUUIDRequired(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Listing UUID is required", "MISSING_LISTING_UUID", nil)
	}
	if businessflow.IsListingKindInvalid(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Listing kind is invalid", "LISTING_KIND_INVALID", nil)
	}
	if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
	}
	if businessflow.IsUploadFailed(err) || businessflow.IsUploadCountMismatch(err) {
		return h.ErrorResponse(c, fiber.StatusBadGateway, "Asset upload failed", "ASSET_UPLOAD_FAILED", nil)
	}
	if businessflow.IsDraftNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Draft not found", "DRAFT_NOT_FOUND", nil)
	}
	if businessflow.IsCacheNotAvailable(err) {
		return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Draft autosave is unavailable", "CACHE_NOT_AVAILABLE", nil)
	}

	log.Println(fallbackMsg, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMsg, fallbackCode, nil)
}

func submissionOutcome(err error) string {
	if _, ok := businessflow.IsFieldErrors(err); ok {
		return "validation_failed"
	}
	return "error"
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *ListingHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *ListingHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	// Create context with custom timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	// Add request-scoped values for observability
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel) // Store cancel function for cleanup

	return ctx
}
