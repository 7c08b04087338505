package businessflow

import (
	"testing"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductDraft() models.ListingDraft {
	return models.ListingDraft{
		Kind:              models.ListingKindProduct,
		SetUpPrice:        true,
		ProductName:       "Cordless Drill 18V",
		BrandID:           utils.ToPtr(uint(7)),
		CategoryID:        utils.ToPtr(uint(42)),
		Condition:         "NEW",
		Tags:              []string{"tools"},
		ShortDescriptions: []string{"Two-speed gearbox"},
		Specifications:    []models.SpecificationEntry{{Key: "Voltage", Value: "18V"}},
		CountryID:         utils.ToPtr(uint(1)),
		StateID:           utils.ToPtr(uint(10)),
		CityID:            utils.ToPtr(uint(100)),
		SellLocations:     []string{"1-10-100"},
		Stock:             utils.ToPtr(25),
		ProductPrice:      utils.ToPtr(150.0),
		OfferPrice:        utils.ToPtr(120.0),
		PriceRules: []models.PriceRule{
			{
				ConsumerType:           "RETAIL",
				SellType:               models.SellTypeNormal,
				MinQuantityPerCustomer: utils.ToPtr(1),
				MaxQuantityPerCustomer: utils.ToPtr(10),
			},
		},
	}
}

func validQuoteRequestDraft() models.ListingDraft {
	d := validProductDraft()
	d.Kind = models.ListingKindQuoteRequest
	d.SetUpPrice = false
	d.CountryID = nil
	d.StateID = nil
	d.CityID = nil
	d.SellLocations = nil
	d.Stock = nil
	return d
}

func TestBuildRules(t *testing.T) {
	t.Run("ProductWithPricing", func(t *testing.T) {
		rs := BuildRules(models.ListingKindProduct, true, models.SellTypeNormal)
		assert.True(t, rs.RequireLocation)
		assert.True(t, rs.RequireSellLocations)
		assert.True(t, rs.RequireStock)
		assert.True(t, rs.RequirePrice)
		assert.True(t, rs.ValidatePricing)
	})

	t.Run("ProductWithoutPricing", func(t *testing.T) {
		rs := BuildRules(models.ListingKindProduct, false, models.SellTypeNormal)
		assert.True(t, rs.RequireLocation)
		assert.True(t, rs.RequireSellLocations)
		assert.False(t, rs.RequireStock)
		assert.False(t, rs.RequirePrice)
		assert.False(t, rs.ValidatePricing)
	})

	t.Run("QuoteRequestAlwaysValidatesPricing", func(t *testing.T) {
		rs := BuildRules(models.ListingKindQuoteRequest, false, models.SellTypeNormal)
		assert.False(t, rs.RequireLocation)
		assert.False(t, rs.RequireSellLocations)
		assert.False(t, rs.RequireStock)
		assert.False(t, rs.RequirePrice)
		assert.True(t, rs.ValidatePricing)
	})

	t.Run("SellTypePropagatesToPriceRuleSchema", func(t *testing.T) {
		rs := BuildRules(models.ListingKindProduct, true, models.SellTypeGroupBuy)
		assert.True(t, rs.PriceRule.RequireQuantityBounds)
	})

	t.Run("SameInputsSameRules", func(t *testing.T) {
		a := BuildRules(models.ListingKindProduct, true, models.SellTypeGroupBuy)
		b := BuildRules(models.ListingKindProduct, true, models.SellTypeGroupBuy)
		assert.Equal(t, a, b)
	})
}

func TestRuleSetNormalize(t *testing.T) {
	t.Run("PricingNotSetUpZeroesEverything", func(t *testing.T) {
		draft := validProductDraft()
		draft.SetUpPrice = false

		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		rs.Normalize(&draft)

		require.NotNil(t, draft.ProductPrice)
		assert.Zero(t, *draft.ProductPrice)
		require.NotNil(t, draft.OfferPrice)
		assert.Zero(t, *draft.OfferPrice)
		require.Len(t, draft.PriceRules, 1)
		assert.Equal(t, models.PriceRule{}, draft.PriceRules[0])
	})

	t.Run("PricingSetUpLeavesDraftUntouched", func(t *testing.T) {
		draft := validProductDraft()
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		rs.Normalize(&draft)

		assert.Equal(t, 150.0, *draft.ProductPrice)
		assert.Equal(t, "RETAIL", draft.PriceRules[0].ConsumerType)
	})
}

func TestRuleSetValidate(t *testing.T) {
	t.Run("ValidProductDraft", func(t *testing.T) {
		draft := validProductDraft()
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		assert.Empty(t, rs.Apply(&draft))
	})

	t.Run("ValidQuoteRequestDraft", func(t *testing.T) {
		draft := validQuoteRequestDraft()
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		assert.Empty(t, rs.Apply(&draft))
	})

	t.Run("BaseShapeViolations", func(t *testing.T) {
		draft := validProductDraft()
		draft.ProductName = "   "
		draft.BrandID = nil
		draft.CategoryID = nil
		draft.Condition = ""
		draft.Tags = []string{"", "  "}
		draft.ShortDescriptions = nil
		draft.Specifications = nil

		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)

		assert.Contains(t, errs, "productName")
		assert.Contains(t, errs, "brandId")
		assert.Contains(t, errs, "categoryId")
		assert.Contains(t, errs, "condition")
		assert.Contains(t, errs, "tags")
		assert.Contains(t, errs, "shortDescriptions")
		assert.Contains(t, errs, "specifications")
	})

	t.Run("InvalidKind", func(t *testing.T) {
		draft := validProductDraft()
		draft.Kind = "X"
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.Equal(t, ErrListingKindInvalid.Error(), errs["listingKind"])
	})

	t.Run("ProductRequiresLocationTriple", func(t *testing.T) {
		draft := validProductDraft()
		draft.CountryID = nil
		draft.StateID = nil
		draft.CityID = nil
		draft.SellLocations = nil

		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)

		assert.Contains(t, errs, "productCountryId")
		assert.Contains(t, errs, "productStateId")
		assert.Contains(t, errs, "productCityId")
		assert.Contains(t, errs, "sellLocations")
	})

	t.Run("QuoteRequestSkipsLocation", func(t *testing.T) {
		draft := validQuoteRequestDraft()
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.NotContains(t, errs, "productCountryId")
		assert.NotContains(t, errs, "sellLocations")
	})

	t.Run("AskForStockWaivesStock", func(t *testing.T) {
		draft := validProductDraft()
		draft.Stock = nil
		draft.AskForStock = true
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.NotContains(t, errs, "stock")
	})

	t.Run("MissingStockWithoutAskForStock", func(t *testing.T) {
		draft := validProductDraft()
		draft.Stock = nil
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.Contains(t, errs, "stock")
	})

	t.Run("AskForPriceWaivesPrice", func(t *testing.T) {
		draft := validProductDraft()
		draft.ProductPrice = nil
		draft.AskForPrice = true
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.NotContains(t, errs, "productPrice")
	})

	t.Run("TooManyImages", func(t *testing.T) {
		draft := validProductDraft()
		for i := 0; i <= utils.MaxListingImages; i++ {
			draft.Images = append(draft.Images, models.AssetRef{Reference: "ref"})
		}
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.Equal(t, ErrTooManyImages.Error(), errs["productImagesList"])
	})

	t.Run("TooManyVariantAxes", func(t *testing.T) {
		draft := validProductDraft()
		for i := 0; i <= utils.MaxVariantAxes; i++ {
			draft.VariantAxes = append(draft.VariantAxes, models.VariantAxis{
				Type:   "Axis",
				Values: []models.VariantValue{{Value: "v"}},
			})
		}
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.Equal(t, ErrTooManyVariantAxes.Error(), errs["productVariant"])
	})

	t.Run("VariantAxisTypeWithoutValues", func(t *testing.T) {
		draft := validProductDraft()
		draft.VariantAxes = []models.VariantAxis{
			{Type: "Color", Values: []models.VariantValue{{Value: "  "}}},
		}
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.Contains(t, errs, "productVariant[0].values[0]")
	})

	t.Run("VariantAxisValuesWithoutType", func(t *testing.T) {
		draft := validProductDraft()
		draft.VariantAxes = []models.VariantAxis{
			{Type: "", Values: []models.VariantValue{{Value: "Red"}}},
		}
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.Contains(t, errs, "productVariant[0].type")
	})

	t.Run("EmptyVariantAxisIsFine", func(t *testing.T) {
		draft := validProductDraft()
		draft.VariantAxes = []models.VariantAxis{{}}
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.NotContains(t, errs, "productVariant[0].type")
		assert.NotContains(t, errs, "productVariant[0].values[0]")
	})

	t.Run("PriceRuleErrorsArePrefixed", func(t *testing.T) {
		draft := validProductDraft()
		draft.PriceRules[0].ConsumerType = ""
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.Contains(t, errs, "productPriceList[0].consumerType")
	})

	t.Run("PricingSkippedWhenNotSetUp", func(t *testing.T) {
		draft := validProductDraft()
		draft.SetUpPrice = false
		draft.PriceRules[0].ConsumerType = ""
		rs := BuildRules(draft.Kind, draft.SetUpPrice, draft.SellType())
		errs := rs.Apply(&draft)
		assert.NotContains(t, errs, "productPriceList[0].consumerType")
	})
}
