// Package businessflow contains the core business logic and use cases for listing workflows
package businessflow

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Business flow error constants
var (
	// Seller-related errors
	ErrSellerNotFound  = errors.New("seller not found")
	ErrAccountInactive = errors.New("account is inactive")

	// Listing-related errors
	ErrListingNotFound          = errors.New("listing not found")
	ErrListingAccessDenied      = errors.New("listing access denied")
	ErrListingUpdateNotAllowed  = errors.New("listing update not allowed")
	ErrListingKindInvalid       = errors.New("listing kind is invalid")
	ErrListingUUIDRequired      = errors.New("listing UUID is required")
	ErrProductNameRequired      = errors.New("product name is required")
	ErrBrandRequired            = errors.New("brand is required")
	ErrCategoryRequired         = errors.New("category is required")
	ErrConditionRequired        = errors.New("condition is required")
	ErrTagRequired              = errors.New("at least one tag is required")
	ErrShortDescriptionRequired = errors.New("at least one short description is required")
	ErrSpecificationRequired    = errors.New("at least one specification entry is required")
	ErrTooManyImages            = errors.New("too many listing images")
	ErrTooManyVariantAxes       = errors.New("too many variant axes")

	// Price-rule errors
	ErrSellTypeInvalid       = errors.New("sell type is invalid")
	ErrConsumerTypeRequired  = errors.New("consumer type is required")
	ErrDiscountOutOfRange    = errors.New("discount must be between 0 and 100")
	ErrDeliveryAfterTooLow   = errors.New("delivery lead time must be at least 1 day")
	ErrBoundsOutOfOrder      = errors.New("lower bound must be less than upper bound")
	ErrBoundRequired         = errors.New("bound is required")
	ErrGroupBuyWindowInvalid = errors.New("group-buy close time must be after open time")

	// Asset-related errors
	ErrUploadFailed        = errors.New("asset upload failed")
	ErrUploadCountMismatch = errors.New("upload service returned wrong number of references")
	ErrEmptyAssetSlot      = errors.New("asset slot has neither a reference nor a file")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrUnsupportedMedia    = errors.New("unsupported media type")

	// Draft errors
	ErrDraftNotFound     = errors.New("draft not found")
	ErrCacheNotAvailable = errors.New("cache not available")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// FieldErrors maps field paths (e.g. "productPriceList[0].minQuantity") to
// human-readable messages. Validation never stops at the first violation, so
// one pass accumulates every correction the user needs to make.
type FieldErrors map[string]string

// Add records a violation at the given path. The first message per path wins.
func (f FieldErrors) Add(path, message string) {
	if _, exists := f[path]; !exists {
		f[path] = message
	}
}

// Merge folds other into f, prefixing every path with the given prefix.
func (f FieldErrors) Merge(prefix string, other FieldErrors) {
	for path, msg := range other {
		if prefix == "" {
			f.Add(path, msg)
		} else {
			f.Add(prefix+"."+path, msg)
		}
	}
}

// OrNil returns f as an error, or nil when no violations were recorded.
func (f FieldErrors) OrNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

func (f FieldErrors) Error() string {
	paths := make([]string, 0, len(f))
	for path := range f {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, fmt.Sprintf("%s: %s", path, f[path]))
	}
	return strings.Join(parts, "; ")
}

func IsSellerNotFound(err error) bool {
	return errors.Is(err, ErrSellerNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsListingNotFound(err error) bool {
	return errors.Is(err, ErrListingNotFound)
}

func IsListingAccessDenied(err error) bool {
	return errors.Is(err, ErrListingAccessDenied)
}

func IsListingUpdateNotAllowed(err error) bool {
	return errors.Is(err, ErrListingUpdateNotAllowed)
}

func IsListingKindInvalid(err error) bool {
	return errors.Is(err, ErrListingKindInvalid)
}

func IsListingUUIDRequired(err error) bool {
	return errors.Is(err, ErrListingUUIDRequired)
}

func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

func IsUploadCountMismatch(err error) bool {
	return errors.Is(err, ErrUploadCountMismatch)
}

func IsAssetNotFound(err error) bool {
	return errors.Is(err, ErrAssetNotFound)
}

func IsUnsupportedMedia(err error) bool {
	return errors.Is(err, ErrUnsupportedMedia)
}

func IsDraftNotFound(err error) bool {
	return errors.Is(err, ErrDraftNotFound)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}

// IsFieldErrors reports whether err carries path-keyed validation errors and
// returns them when it does.
func IsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
