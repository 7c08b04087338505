package utils

import (
	"time"
)

// ContextKey is the type used for context values set by the HTTP layer.
type ContextKey string

// Context keys propagated from handlers into business flows
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
	SellerIDKey   ContextKey = "seller_id"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Listing constants
const (
	// MaxListingImages is the maximum number of images attached to one listing
	MaxListingImages = 9

	// MaxVariantAxes is the maximum number of variant dimensions per listing
	MaxVariantAxes = 3

	// MaxDiscountPercent is the upper bound for audience discount percentages
	MaxDiscountPercent = 100

	// MinDeliveryAfterDays is the minimum delivery lead time in days
	MinDeliveryAfterDays = 1

	// DraftCacheKeyPrefix prefixes per-seller draft autosave keys in Redis
	DraftCacheKeyPrefix = "listing_draft"

	// DraftCacheTTL is how long an autosaved draft survives without activity
	DraftCacheTTL = 7 * 24 * time.Hour
)

// Pagination constants
const (
	// DefaultPageSize is the page size used when the client does not set one
	DefaultPageSize = 20

	// MaxPageSize is the largest page size a client may request
	MaxPageSize = 100
)
