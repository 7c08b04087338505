package models

import (
	"time"
)

// PendingFile is a user-selected binary that has not been persisted yet.
// Size/type pre-checks happen in the upload handler before a PendingFile is
// constructed.
type PendingFile struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
}

// AssetRef is one asset slot of a draft: either an already-persisted reference
// (opaque string) or a pending binary waiting for upload.
type AssetRef struct {
	Reference string       `json:"reference,omitempty"`
	File      *PendingFile `json:"file,omitempty"`
}

// IsPending reports whether the slot still holds an un-uploaded binary
func (a AssetRef) IsPending() bool {
	return a.File != nil
}

// VariantValue is one candidate value of a variant axis, optionally carrying
// an image for that specific value.
type VariantValue struct {
	Value string    `json:"value"`
	Image *AssetRef `json:"image,omitempty"`
}

// VariantAxis is a named dimension of product variation (e.g. "Color") with
// an ordered list of candidate values.
type VariantAxis struct {
	Type   string         `json:"type"`
	Values []VariantValue `json:"values"`
}

// PriceRule describes one pricing rule of a draft. Numeric fields are pointers
// so requiredness can be checked independently of the zero value.
type PriceRule struct {
	ConsumerType string   `json:"consumerType"`
	SellType     SellType `json:"sellType"`

	ConsumerDiscount *float64 `json:"consumerDiscount,omitempty"`
	VendorDiscount   *float64 `json:"vendorDiscount,omitempty"`

	DeliveryAfter *int `json:"deliveryAfter,omitempty"`

	MinQuantity            *int `json:"minQuantity,omitempty"`
	MaxQuantity            *int `json:"maxQuantity,omitempty"`
	MinCustomer            *int `json:"minCustomer,omitempty"`
	MaxCustomer            *int `json:"maxCustomer,omitempty"`
	MinQuantityPerCustomer *int `json:"minQuantityPerCustomer,omitempty"`
	MaxQuantityPerCustomer *int `json:"maxQuantityPerCustomer,omitempty"`

	// Group-buy window
	OpenTime  *time.Time `json:"openTime,omitempty"`
	CloseTime *time.Time `json:"closeTime,omitempty"`
}

// Reset clears every field back to its zero/empty value
func (r *PriceRule) Reset() {
	*r = PriceRule{}
}

// ListingDraft is the full in-progress record owned by one form session. It is
// identity-free until submit.
type ListingDraft struct {
	Kind       ListingKind `json:"listingKind"`
	SetUpPrice bool        `json:"setUpPrice"`

	ProductName       string               `json:"productName"`
	BrandID           *uint                `json:"brandId,omitempty"`
	CategoryID        *uint                `json:"categoryId,omitempty"`
	Condition         string               `json:"condition"`
	Tags              []string             `json:"tags"`
	ShortDescriptions []string             `json:"shortDescriptions"`
	Specifications    []SpecificationEntry `json:"specifications"`

	// Location triple and sell territory (standard products only)
	CountryID     *uint    `json:"productCountryId,omitempty"`
	StateID       *uint    `json:"productStateId,omitempty"`
	CityID        *uint    `json:"productCityId,omitempty"`
	Town          *string  `json:"productTown,omitempty"`
	LatLng        *string  `json:"productLatLng,omitempty"`
	SellLocations []string `json:"sellLocations,omitempty"`

	Stock        *int     `json:"stock,omitempty"`
	ProductPrice *float64 `json:"productPrice,omitempty"`
	OfferPrice   *float64 `json:"offerPrice,omitempty"`

	AskForPrice   bool `json:"askForPrice"`
	AskForStock   bool `json:"askForStock"`
	CustomProduct bool `json:"customProduct"`

	// Singleton, kept as a one-element list for API symmetry
	PriceRules []PriceRule `json:"productPriceList"`

	VariantAxes []VariantAxis `json:"productVariant"`

	Images []AssetRef `json:"productImagesList"`
}

// PriceRule returns the first pricing rule, allocating it when absent so the
// singleton invariant holds for callers that mutate it.
func (d *ListingDraft) PriceRule() *PriceRule {
	if len(d.PriceRules) == 0 {
		d.PriceRules = append(d.PriceRules, PriceRule{})
	}
	return &d.PriceRules[0]
}

// SellType resolves the draft's effective sell type, defaulting to NORMAL_SELL
func (d *ListingDraft) SellType() SellType {
	if len(d.PriceRules) == 0 || d.PriceRules[0].SellType == "" {
		return SellTypeNormal
	}
	return d.PriceRules[0].SellType
}
