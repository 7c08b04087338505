package businessflow

import (
	"github.com/amirphl/Kitsune-no-Ichiba/models"
)

// DraftFromPayload reconstructs an editable draft from a stored submission
// payload so the edit form can be pre-populated. Pruned fields stay empty;
// variant-tagged media entries are folded back into their axis values.
func DraftFromPayload(p models.SubmissionPayload) models.ListingDraft {
	draft := models.ListingDraft{
		Kind:              p.ListingKind,
		ProductName:       p.ProductName,
		Condition:         p.Condition,
		Tags:              p.Tags,
		ShortDescriptions: p.ShortDescriptions,
		Specifications:    p.Specifications,
		VariantAxes:       axesFromVariants(p.ProductVariant),
	}

	if p.BrandID != 0 {
		draft.BrandID = &p.BrandID
	}
	if p.CategoryID != 0 {
		draft.CategoryID = &p.CategoryID
	}

	for _, entry := range p.ProductImagesList {
		ref := entry.Image
		if ref == "" {
			ref = entry.Video
		}
		if entry.Variant != nil {
			attachVariantImage(draft.VariantAxes, *entry.Variant, ref)
			continue
		}
		draft.Images = append(draft.Images, models.AssetRef{Reference: ref})
	}

	if len(p.ProductPriceList) == 0 {
		return draft
	}
	entry := p.ProductPriceList[0]

	draft.AskForPrice = entry.AskForPrice == "true"
	draft.AskForStock = entry.AskForStock == "true"

	// Pricing survives submission only when the seller opted in; a surviving
	// consumer type marks that choice.
	draft.SetUpPrice = entry.ConsumerType != ""

	if !draft.AskForStock {
		draft.Stock = &entry.Stock
	}
	if !draft.AskForPrice {
		draft.ProductPrice = &entry.ProductPrice
		draft.OfferPrice = &entry.OfferPrice
	}

	draft.CountryID = entry.ProductCountryID
	draft.StateID = entry.ProductStateID
	draft.CityID = entry.ProductCityID
	draft.Town = entry.ProductTown
	draft.LatLng = entry.ProductLatLng
	draft.SellLocations = entry.SellLocations

	rule := models.PriceRule{
		ConsumerType: entry.ConsumerType,
		SellType:     models.SellType(entry.SellType),
		OpenTime:     entry.OpenTime,
		CloseTime:    entry.CloseTime,
	}
	if entry.ConsumerDiscount != 0 {
		rule.ConsumerDiscount = &entry.ConsumerDiscount
	}
	if entry.VendorDiscount != 0 {
		rule.VendorDiscount = &entry.VendorDiscount
	}
	if entry.DeliveryAfter != 0 {
		rule.DeliveryAfter = &entry.DeliveryAfter
	}
	if entry.MinQuantity != 0 {
		rule.MinQuantity = &entry.MinQuantity
	}
	if entry.MaxQuantity != 0 {
		rule.MaxQuantity = &entry.MaxQuantity
	}
	if entry.MinCustomer != 0 {
		rule.MinCustomer = &entry.MinCustomer
	}
	if entry.MaxCustomer != 0 {
		rule.MaxCustomer = &entry.MaxCustomer
	}
	if entry.MinQuantityPerCustomer != 0 {
		rule.MinQuantityPerCustomer = &entry.MinQuantityPerCustomer
	}
	if entry.MaxQuantityPerCustomer != 0 {
		rule.MaxQuantityPerCustomer = &entry.MaxQuantityPerCustomer
	}
	draft.PriceRules = []models.PriceRule{rule}

	return draft
}

// ResolveEditDraft merges draft sources in precedence order: the first source
// with a populated field wins. The caller passes the autosaved draft first and
// the stored-payload reconstruction second, so unsubmitted edits shadow the
// persisted record. Nil sources are skipped.
func ResolveEditDraft(sources ...*models.ListingDraft) models.ListingDraft {
	var out models.ListingDraft
	for _, src := range sources {
		if src == nil {
			continue
		}

		if out.Kind == "" {
			out.Kind = src.Kind
		}
		if out.ProductName == "" {
			out.ProductName = src.ProductName
		}
		if out.Condition == "" {
			out.Condition = src.Condition
		}
		if out.BrandID == nil {
			out.BrandID = src.BrandID
		}
		if out.CategoryID == nil {
			out.CategoryID = src.CategoryID
		}
		if len(out.Tags) == 0 {
			out.Tags = src.Tags
		}
		if len(out.ShortDescriptions) == 0 {
			out.ShortDescriptions = src.ShortDescriptions
		}
		if len(out.Specifications) == 0 {
			out.Specifications = src.Specifications
		}

		if out.CountryID == nil {
			out.CountryID = src.CountryID
		}
		if out.StateID == nil {
			out.StateID = src.StateID
		}
		if out.CityID == nil {
			out.CityID = src.CityID
		}
		if out.Town == nil {
			out.Town = src.Town
		}
		if out.LatLng == nil {
			out.LatLng = src.LatLng
		}
		if len(out.SellLocations) == 0 {
			out.SellLocations = src.SellLocations
		}

		if out.Stock == nil {
			out.Stock = src.Stock
		}
		if out.ProductPrice == nil {
			out.ProductPrice = src.ProductPrice
		}
		if out.OfferPrice == nil {
			out.OfferPrice = src.OfferPrice
		}

		// Boolean switches follow the highest-precedence source that carries
		// any pricing data at all, so a stale autosave cannot flip them in
		// isolation.
		if !out.SetUpPrice && src.SetUpPrice {
			out.SetUpPrice = src.SetUpPrice
			out.AskForPrice = src.AskForPrice
			out.AskForStock = src.AskForStock
		}
		if !out.CustomProduct {
			out.CustomProduct = src.CustomProduct
		}

		if len(out.PriceRules) == 0 {
			out.PriceRules = src.PriceRules
		}
		if len(out.VariantAxes) == 0 {
			out.VariantAxes = src.VariantAxes
		}
		if len(out.Images) == 0 {
			out.Images = src.Images
		}
	}
	return out
}

func axesFromVariants(variants []models.VariantRef) []models.VariantAxis {
	var axes []models.VariantAxis
	for _, v := range variants {
		idx := -1
		for i := range axes {
			if axes[i].Type == v.Type {
				idx = i
				break
			}
		}
		if idx == -1 {
			axes = append(axes, models.VariantAxis{Type: v.Type})
			idx = len(axes) - 1
		}
		axes[idx].Values = append(axes[idx].Values, models.VariantValue{Value: v.Value})
	}
	return axes
}

func attachVariantImage(axes []models.VariantAxis, tag models.VariantRef, ref string) {
	for i := range axes {
		if axes[i].Type != tag.Type {
			continue
		}
		for j := range axes[i].Values {
			if axes[i].Values[j].Value == tag.Value {
				axes[i].Values[j].Image = &models.AssetRef{Reference: ref}
				return
			}
		}
	}
}
