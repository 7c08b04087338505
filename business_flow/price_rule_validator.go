package businessflow

import (
	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
)

// PriceRuleSchema describes which price-rule fields are required for a given
// sell type. It is a plain value so tests can construct one without any form
// or session state.
type PriceRuleSchema struct {
	SellType models.SellType

	// Per-customer quantity bounds are required for every sell type.
	RequirePerCustomerBounds bool

	// Group-buy only: total quantity bounds are required and the customer
	// bounds pair must be complete when either side is set.
	RequireQuantityBounds bool
	CheckCustomerBounds   bool
}

// PriceRuleSchemaFor returns the requiredness matrix for the given sell type.
func PriceRuleSchemaFor(sellType models.SellType) PriceRuleSchema {
	schema := PriceRuleSchema{
		SellType:                 sellType,
		RequirePerCustomerBounds: true,
	}
	if sellType == models.SellTypeGroupBuy {
		schema.RequireQuantityBounds = true
		schema.CheckCustomerBounds = true
	}
	return schema
}

// ValidatePriceRule checks one price rule against the schema. Every check runs
// independently; the result carries one entry per violated field so the caller
// can route each message to the right input.
func ValidatePriceRule(rule *models.PriceRule, schema PriceRuleSchema) FieldErrors {
	errs := FieldErrors{}
	if rule == nil {
		errs.Add("sellType", ErrSellTypeInvalid.Error())
		return errs
	}

	if utils.IsBlank(rule.ConsumerType) {
		errs.Add("consumerType", ErrConsumerTypeRequired.Error())
	}
	if !rule.SellType.Valid() {
		errs.Add("sellType", ErrSellTypeInvalid.Error())
	}

	validateBoundsPair(errs, "minQuantityPerCustomer", "maxQuantityPerCustomer",
		rule.MinQuantityPerCustomer, rule.MaxQuantityPerCustomer, schema.RequirePerCustomerBounds)

	if schema.RequireQuantityBounds {
		validateBoundsPair(errs, "minQuantity", "maxQuantity",
			rule.MinQuantity, rule.MaxQuantity, true)
	}

	if schema.CheckCustomerBounds {
		// The customer pair is optional as a whole: both unset is valid,
		// exactly one set is not.
		if rule.MinCustomer != nil || rule.MaxCustomer != nil {
			validateBoundsPair(errs, "minCustomer", "maxCustomer",
				rule.MinCustomer, rule.MaxCustomer, true)
		}
	}

	if rule.ConsumerDiscount != nil && (*rule.ConsumerDiscount < 0 || *rule.ConsumerDiscount > utils.MaxDiscountPercent) {
		errs.Add("consumerDiscount", ErrDiscountOutOfRange.Error())
	}
	if rule.VendorDiscount != nil && (*rule.VendorDiscount < 0 || *rule.VendorDiscount > utils.MaxDiscountPercent) {
		errs.Add("vendorDiscount", ErrDiscountOutOfRange.Error())
	}
	if rule.DeliveryAfter != nil && *rule.DeliveryAfter < utils.MinDeliveryAfterDays {
		errs.Add("deliveryAfter", ErrDeliveryAfterTooLow.Error())
	}

	// Window ordering only; requiredness of the window itself is not enforced.
	if rule.SellType == models.SellTypeGroupBuy && rule.OpenTime != nil && rule.CloseTime != nil {
		if !rule.CloseTime.After(*rule.OpenTime) {
			errs.Add("closeTime", ErrGroupBuyWindowInvalid.Error())
		}
	}

	return errs
}

// validateBoundsPair records requiredness and strict ordering violations for a
// min/max pair. Ordering is only checked once both sides are present.
func validateBoundsPair(errs FieldErrors, minPath, maxPath string, minVal, maxVal *int, required bool) {
	if required {
		if minVal == nil {
			errs.Add(minPath, ErrBoundRequired.Error())
		}
		if maxVal == nil {
			errs.Add(maxPath, ErrBoundRequired.Error())
		}
	}
	if minVal != nil && maxVal != nil && *minVal >= *maxVal {
		errs.Add(minPath, ErrBoundsOutOfOrder.Error())
	}
}
