package dto

import (
	"github.com/amirphl/Kitsune-no-Ichiba/models"
)

// SubmitListingRequest carries one draft snapshot into the submission
// pipeline. The draft fields bind directly from the request body; the seller
// is resolved from the session.
type SubmitListingRequest struct {
	SellerID uint `json:"-"`

	models.ListingDraft
}

// SubmitListingResponse represents a successful listing submission
type SubmitListingResponse struct {
	Message   string `json:"message"`
	ID        uint   `json:"id"`
	UUID      string `json:"uuid"`
	SKU       string `json:"sku"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`

	// Non-blocking warnings from optional post-processing steps
	Warnings []string `json:"warnings,omitempty"`
}

// UpdateListingRequest resubmits a full draft against an existing listing
type UpdateListingRequest struct {
	SellerID uint   `json:"-"`
	UUID     string `json:"uuid" validate:"required,uuid"`

	models.ListingDraft
}

// UpdateListingResponse represents a successful listing update
type UpdateListingResponse struct {
	Message   string `json:"message"`
	ID        uint   `json:"id"`
	UUID      string `json:"uuid"`
	SKU       string `json:"sku"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`

	Warnings []string `json:"warnings,omitempty"`
}

// ListingDTO is the API representation of a stored listing
type ListingDTO struct {
	ID          uint                     `json:"id"`
	UUID        string                   `json:"uuid"`
	SKU         string                   `json:"sku"`
	ListingKind string                   `json:"listingKind"`
	Status      string                   `json:"status"`
	ProductName string                   `json:"productName"`
	Tags        []string                 `json:"tags"`
	Payload     models.SubmissionPayload `json:"payload"`
	CreatedAt   string                   `json:"created_at"`
	UpdatedAt   string                   `json:"updated_at,omitempty"`
}

// GetListingRequest fetches one listing by UUID
type GetListingRequest struct {
	SellerID uint   `json:"-"`
	UUID     string `json:"uuid" validate:"required,uuid"`
}

// GetListingResponse wraps a single listing
type GetListingResponse struct {
	Message string     `json:"message"`
	Listing ListingDTO `json:"listing"`
}

// ListListingsFilter represents filter criteria for listing queries
type ListListingsFilter struct {
	ProductName *string `json:"productName,omitempty"`
	Kind        *string `json:"listingKind,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ListListingsRequest represents a paginated list request for a seller's listings
type ListListingsRequest struct {
	SellerID uint                `json:"-"`
	Page     int                 `json:"page"`
	Limit    int                 `json:"limit"`
	OrderBy  string              `json:"orderby"` // newest, oldest
	Filter   *ListListingsFilter `json:"filter,omitempty"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// ListListingsResponse represents a paginated list of listings
type ListListingsResponse struct {
	Message    string         `json:"message"`
	Items      []ListingDTO   `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// ExportListingsRequest exports a seller's listings as a spreadsheet
type ExportListingsRequest struct {
	SellerID uint                `json:"-"`
	Filter   *ListListingsFilter `json:"filter,omitempty"`
}

// SaveDraftRequest stores an in-progress draft for later resumption
type SaveDraftRequest struct {
	SellerID uint `json:"-"`

	models.ListingDraft
}

// SaveDraftResponse acknowledges a stored draft
type SaveDraftResponse struct {
	Message string `json:"message"`
	SavedAt string `json:"saved_at"`
}

// GetDraftResponse returns the seller's stored draft, if any
type GetDraftResponse struct {
	Message string              `json:"message"`
	Draft   models.ListingDraft `json:"draft"`
	SavedAt string              `json:"saved_at"`
}

// GetEditDraftRequest asks for the pre-populated edit form of a listing
type GetEditDraftRequest struct {
	SellerID uint   `json:"-"`
	UUID     string `json:"uuid" validate:"required,uuid"`
}

// GetEditDraftResponse carries the merged edit draft. FromAutosave reports
// whether an autosaved draft contributed to the merge.
type GetEditDraftResponse struct {
	Message      string              `json:"message"`
	Draft        models.ListingDraft `json:"draft"`
	FromAutosave bool                `json:"from_autosave"`
}
