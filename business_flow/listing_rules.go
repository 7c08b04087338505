package businessflow

import (
	"fmt"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
)

// RuleSet is an immutable description of the record schema for one listing
// kind under a given set of switches. BuildRules constructs it from the three
// inputs alone, so validation behavior can be exercised without any form or
// session state.
type RuleSet struct {
	Kind       models.ListingKind
	SetUpPrice bool
	SellType   models.SellType

	// Base-shape requiredness. Quote requests relax the product-only fields.
	RequireLocation      bool
	RequireSellLocations bool
	RequireStock         bool
	RequirePrice         bool

	// Pricing subtree. Quote requests always treat pricing as set up.
	ValidatePricing bool
	PriceRule       PriceRuleSchema
}

// BuildRules composes the validation schema for a listing kind, conditioned by
// the set-up-price switch and the sell type.
func BuildRules(kind models.ListingKind, setUpPrice bool, sellType models.SellType) RuleSet {
	rs := RuleSet{
		Kind:       kind,
		SetUpPrice: setUpPrice,
		SellType:   sellType,
		PriceRule:  PriceRuleSchemaFor(sellType),
	}

	switch kind {
	case models.ListingKindQuoteRequest:
		rs.ValidatePricing = true
	default:
		rs.RequireLocation = true
		rs.RequireSellLocations = true
		rs.RequireStock = setUpPrice
		rs.RequirePrice = setUpPrice
		rs.ValidatePricing = setUpPrice
	}

	return rs
}

// Normalize applies the set-up-price short circuit: when pricing is not set
// up, the price fields are forced to zero and every price-rule field is reset,
// so no stale values survive into validation or payload assembly.
func (rs RuleSet) Normalize(d *models.ListingDraft) {
	if rs.ValidatePricing {
		return
	}
	d.ProductPrice = utils.ToPtr(0.0)
	d.OfferPrice = utils.ToPtr(0.0)
	for i := range d.PriceRules {
		d.PriceRules[i].Reset()
	}
}

// Validate checks the draft against the schema and reports every violation in
// one pass, keyed by field path.
func (rs RuleSet) Validate(d *models.ListingDraft) FieldErrors {
	errs := FieldErrors{}

	rs.validateBaseShape(d, errs)
	rs.validateVariantAxes(d, errs)

	if rs.ValidatePricing {
		ruleErrs := ValidatePriceRule(d.PriceRule(), rs.PriceRule)
		errs.Merge("productPriceList[0]", ruleErrs)
	}

	return errs
}

// Apply normalizes the draft and validates it, in that order.
func (rs RuleSet) Apply(d *models.ListingDraft) FieldErrors {
	rs.Normalize(d)
	return rs.Validate(d)
}

func (rs RuleSet) validateBaseShape(d *models.ListingDraft, errs FieldErrors) {
	if !d.Kind.Valid() {
		errs.Add("listingKind", ErrListingKindInvalid.Error())
	}
	if utils.IsBlank(d.ProductName) {
		errs.Add("productName", ErrProductNameRequired.Error())
	}
	if d.BrandID == nil {
		errs.Add("brandId", ErrBrandRequired.Error())
	}
	if d.CategoryID == nil {
		errs.Add("categoryId", ErrCategoryRequired.Error())
	}
	if utils.IsBlank(d.Condition) {
		errs.Add("condition", ErrConditionRequired.Error())
	}
	if countNonBlank(d.Tags) == 0 {
		errs.Add("tags", ErrTagRequired.Error())
	}
	if countNonBlank(d.ShortDescriptions) == 0 {
		errs.Add("shortDescriptions", ErrShortDescriptionRequired.Error())
	}
	if len(d.Specifications) == 0 {
		errs.Add("specifications", ErrSpecificationRequired.Error())
	}

	if rs.RequireLocation {
		if d.CountryID == nil {
			errs.Add("productCountryId", "country is required")
		}
		if d.StateID == nil {
			errs.Add("productStateId", "state is required")
		}
		if d.CityID == nil {
			errs.Add("productCityId", "city is required")
		}
	}
	if rs.RequireSellLocations && len(d.SellLocations) == 0 {
		errs.Add("sellLocations", "at least one sell location is required")
	}
	if rs.RequireStock && d.Stock == nil && !d.AskForStock {
		errs.Add("stock", "stock is required")
	}
	if rs.RequirePrice && d.ProductPrice == nil && !d.AskForPrice {
		errs.Add("productPrice", "product price is required")
	}

	if len(d.Images) > utils.MaxListingImages {
		errs.Add("productImagesList", ErrTooManyImages.Error())
	}
	if len(d.VariantAxes) > utils.MaxVariantAxes {
		errs.Add("productVariant", ErrTooManyVariantAxes.Error())
	}
}

// validateVariantAxes enforces the both-or-neither rule per axis: a type with
// no values errors on the first value slot, values with no type error on the
// type field.
func (rs RuleSet) validateVariantAxes(d *models.ListingDraft, errs FieldErrors) {
	for i, axis := range d.VariantAxes {
		hasType := !utils.IsBlank(axis.Type)
		hasValue := false
		for _, v := range axis.Values {
			if !utils.IsBlank(v.Value) {
				hasValue = true
				break
			}
		}

		switch {
		case hasType && !hasValue:
			errs.Add(fmt.Sprintf("productVariant[%d].values[0]", i), "at least one value is required")
		case !hasType && hasValue:
			errs.Add(fmt.Sprintf("productVariant[%d].type", i), "variant type is required")
		}
	}
}

func countNonBlank(items []string) int {
	n := 0
	for _, s := range items {
		if !utils.IsBlank(s) {
			n++
		}
	}
	return n
}
