package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ListingKind distinguishes standard products from quote requests
type ListingKind string

const (
	// ListingKindProduct is a standard product listing with full pricing/variant/location data
	ListingKindProduct ListingKind = "P"
	// ListingKindQuoteRequest is a request-for-quote listing with a reduced field set
	ListingKindQuoteRequest ListingKind = "R"
)

func (k ListingKind) String() string {
	return string(k)
}

func (k ListingKind) Valid() bool {
	return k == ListingKindProduct || k == ListingKindQuoteRequest
}

// SellType is the pricing mode of a price rule
type SellType string

const (
	SellTypeNormal   SellType = "NORMAL_SELL"
	SellTypeGroupBuy SellType = "GROUP_BUY"
)

func (t SellType) String() string {
	return string(t)
}

func (t SellType) Valid() bool {
	return t == SellTypeNormal || t == SellTypeGroupBuy
}

// ListingStatus represents the lifecycle status of a listing
type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusSubmitted ListingStatus = "submitted"
	ListingStatusActive    ListingStatus = "active"
	ListingStatusRejected  ListingStatus = "rejected"
	ListingStatusArchived  ListingStatus = "archived"
)

func (s ListingStatus) String() string {
	return string(s)
}

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusSubmitted, ListingStatusActive,
		ListingStatusRejected, ListingStatusArchived:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ListingStatus
func (s *ListingStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = ListingStatus(v)
	case []byte:
		*s = ListingStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ListingStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ListingStatus
func (s ListingStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ListingStatus: %s", s)
	}
	return string(s), nil
}

// VariantRef identifies one variant cell as a (type, value) pair
type VariantRef struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ImageEntry is one element of productImagesList. Exactly one of Image/Video is
// set; Variant tags entries that belong to a specific variant value.
type ImageEntry struct {
	Image     string      `json:"image,omitempty"`
	ImageName string      `json:"imageName,omitempty"`
	Video     string      `json:"video,omitempty"`
	VideoName string      `json:"videoName,omitempty"`
	Variant   *VariantRef `json:"variant,omitempty"`
}

// PriceEntry is the single element of productPriceList in the server-bound
// payload. Location and sell-territory fields are omitted for quote requests.
type PriceEntry struct {
	ConsumerType     string  `json:"consumerType"`
	SellType         string  `json:"sellType"`
	ConsumerDiscount float64 `json:"consumerDiscount"`
	VendorDiscount   float64 `json:"vendorDiscount"`

	Stock        int     `json:"stock"`
	ProductPrice float64 `json:"productPrice"`
	OfferPrice   float64 `json:"offerPrice"`

	DeliveryAfter int `json:"deliveryAfter"`

	MinQuantity            int `json:"minQuantity"`
	MaxQuantity            int `json:"maxQuantity"`
	MinCustomer            int `json:"minCustomer"`
	MaxCustomer            int `json:"maxCustomer"`
	MinQuantityPerCustomer int `json:"minQuantityPerCustomer"`
	MaxQuantityPerCustomer int `json:"maxQuantityPerCustomer"`

	OpenTime  *time.Time `json:"openTime,omitempty"`
	CloseTime *time.Time `json:"closeTime,omitempty"`

	AskForPrice string `json:"askForPrice"`
	AskForStock string `json:"askForStock"`

	MenuID string `json:"menuId"`
	Status string `json:"status"`

	// Present for standard products only
	ProductCountryID *uint    `json:"productCountryId,omitempty"`
	ProductStateID   *uint    `json:"productStateId,omitempty"`
	ProductCityID    *uint    `json:"productCityId,omitempty"`
	ProductTown      *string  `json:"productTown,omitempty"`
	ProductLatLng    *string  `json:"productLatLng,omitempty"`
	SellLocations    []string `json:"sellLocations,omitempty"`
}

// SpecificationEntry is one key/value row of the listing specification table
type SpecificationEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SubmissionPayload is the final, kind-pruned, server-bound record produced by
// one submit attempt.
type SubmissionPayload struct {
	SKU         string      `json:"sku"`
	ListingKind ListingKind `json:"listingKind"`

	ProductName       string               `json:"productName"`
	BrandID           uint                 `json:"brandId"`
	CategoryID        uint                 `json:"categoryId"`
	Condition         string               `json:"condition"`
	Tags              []string             `json:"tags"`
	ShortDescriptions []string             `json:"shortDescriptions"`
	Specifications    []SpecificationEntry `json:"specifications"`

	ProductPriceList  []PriceEntry `json:"productPriceList"`
	ProductVariant    []VariantRef `json:"productVariant"`
	ProductImagesList []ImageEntry `json:"productImagesList"`
}

// Value implements the driver.Valuer interface for SubmissionPayload
func (p SubmissionPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for SubmissionPayload
func (p *SubmissionPayload) Scan(value any) error {
	if value == nil {
		*p = SubmissionPayload{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SubmissionPayload", value)
	}

	return json.Unmarshal(bytes, p)
}

// Listing represents a submitted listing in the database
type Listing struct {
	ID       uint          `gorm:"primaryKey" json:"id"`
	UUID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:uk_listings_uuid;index:idx_listings_uuid" json:"uuid"`
	SellerID uint          `gorm:"not null;index:idx_listings_seller_id" json:"seller_id"`
	SKU      string        `gorm:"size:32;not null;uniqueIndex:uk_listings_sku" json:"sku"`
	Kind     ListingKind   `gorm:"type:varchar(1);not null;index:idx_listings_kind" json:"kind"`
	Status   ListingStatus `gorm:"type:listing_status;not null;default:'draft';index:idx_listings_status" json:"status"`

	ProductName       string         `gorm:"size:255;not null" json:"product_name"`
	Tags              pq.StringArray `gorm:"type:text[]" json:"tags"`
	ShortDescriptions pq.StringArray `gorm:"type:text[]" json:"short_descriptions"`
	SellLocations     pq.StringArray `gorm:"type:text[]" json:"sell_locations"`

	Payload SubmissionPayload `gorm:"type:jsonb;not null" json:"payload"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_listings_created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"index:idx_listings_updated_at" json:"updated_at,omitempty"`

	// Relations
	Seller *Seller `gorm:"foreignKey:SellerID;references:ID" json:"seller,omitempty"`
}

// TableName returns the table name for the model
func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate is called before creating a new record
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.Status == "" {
		l.Status = ListingStatusDraft
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (l *Listing) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	l.UpdatedAt = &now
	return nil
}

// IsEditable checks if the listing can be edited by its seller
func (l *Listing) IsEditable() bool {
	return l.Status == ListingStatusDraft ||
		l.Status == ListingStatusSubmitted ||
		l.Status == ListingStatusRejected
}

// ListingFilter represents filter criteria for listings
type ListingFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	SellerID      *uint
	SKU           *string
	Kind          *ListingKind
	Status        *ListingStatus
	ProductName   *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
}
