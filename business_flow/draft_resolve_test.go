package businessflow

import (
	"testing"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedPayload() models.SubmissionPayload {
	return models.SubmissionPayload{
		SKU:               "P-000001",
		ListingKind:       models.ListingKindProduct,
		ProductName:       "Cordless Drill 18V",
		BrandID:           7,
		CategoryID:        42,
		Condition:         "NEW",
		Tags:              []string{"tools"},
		ShortDescriptions: []string{"Two-speed gearbox"},
		Specifications:    []models.SpecificationEntry{{Key: "Voltage", Value: "18V"}},
		ProductPriceList: []models.PriceEntry{
			{
				ConsumerType:           "RETAIL",
				SellType:               "NORMAL_SELL",
				ConsumerDiscount:       10,
				Stock:                  25,
				ProductPrice:           150,
				OfferPrice:             120,
				MinQuantityPerCustomer: 1,
				MaxQuantityPerCustomer: 10,
				AskForPrice:            "false",
				AskForStock:            "false",
				MenuID:                 "10",
				Status:                 "ACTIVE",
				ProductCountryID:       utils.ToPtr(uint(1)),
				ProductStateID:         utils.ToPtr(uint(10)),
				ProductCityID:          utils.ToPtr(uint(100)),
				SellLocations:          []string{"1-10-100"},
			},
		},
		ProductVariant: []models.VariantRef{
			{Type: "Color", Value: "Red"},
			{Type: "Color", Value: "Blue"},
		},
		ProductImagesList: []models.ImageEntry{
			{Image: "assets/front.jpg", ImageName: "front.jpg"},
			{Video: "assets/demo.mp4", VideoName: "demo.mp4"},
			{
				Image:     "assets/red.jpg",
				ImageName: "red.jpg",
				Variant:   &models.VariantRef{Type: "Color", Value: "Red"},
			},
		},
	}
}

func TestDraftFromPayload(t *testing.T) {
	t.Run("BaseFields", func(t *testing.T) {
		draft := DraftFromPayload(storedPayload())

		assert.Equal(t, models.ListingKindProduct, draft.Kind)
		assert.Equal(t, "Cordless Drill 18V", draft.ProductName)
		require.NotNil(t, draft.BrandID)
		assert.Equal(t, uint(7), *draft.BrandID)
		require.NotNil(t, draft.CategoryID)
		assert.Equal(t, uint(42), *draft.CategoryID)
		assert.Equal(t, []string{"tools"}, draft.Tags)
	})

	t.Run("ZeroIDsStayNil", func(t *testing.T) {
		p := storedPayload()
		p.BrandID = 0
		draft := DraftFromPayload(p)
		assert.Nil(t, draft.BrandID)
	})

	t.Run("PricingRecovered", func(t *testing.T) {
		draft := DraftFromPayload(storedPayload())

		assert.True(t, draft.SetUpPrice)
		assert.False(t, draft.AskForPrice)
		assert.False(t, draft.AskForStock)
		require.NotNil(t, draft.Stock)
		assert.Equal(t, 25, *draft.Stock)
		require.NotNil(t, draft.ProductPrice)
		assert.Equal(t, 150.0, *draft.ProductPrice)

		require.Len(t, draft.PriceRules, 1)
		rule := draft.PriceRules[0]
		assert.Equal(t, "RETAIL", rule.ConsumerType)
		assert.Equal(t, models.SellTypeNormal, rule.SellType)
		require.NotNil(t, rule.ConsumerDiscount)
		assert.Equal(t, 10.0, *rule.ConsumerDiscount)
		assert.Nil(t, rule.VendorDiscount)
	})

	t.Run("DroppedPricingStaysDropped", func(t *testing.T) {
		p := storedPayload()
		p.ProductPriceList[0].ConsumerType = ""
		draft := DraftFromPayload(p)
		assert.False(t, draft.SetUpPrice)
	})

	t.Run("AskForSwitchesSuppressValues", func(t *testing.T) {
		p := storedPayload()
		p.ProductPriceList[0].AskForPrice = "true"
		p.ProductPriceList[0].AskForStock = "true"
		draft := DraftFromPayload(p)
		assert.True(t, draft.AskForPrice)
		assert.True(t, draft.AskForStock)
		assert.Nil(t, draft.Stock)
		assert.Nil(t, draft.ProductPrice)
		assert.Nil(t, draft.OfferPrice)
	})

	t.Run("LocationRecovered", func(t *testing.T) {
		draft := DraftFromPayload(storedPayload())
		require.NotNil(t, draft.CountryID)
		assert.Equal(t, uint(1), *draft.CountryID)
		assert.Equal(t, []string{"1-10-100"}, draft.SellLocations)
	})

	t.Run("VariantAxesRebuilt", func(t *testing.T) {
		draft := DraftFromPayload(storedPayload())
		require.Len(t, draft.VariantAxes, 1)
		axis := draft.VariantAxes[0]
		assert.Equal(t, "Color", axis.Type)
		require.Len(t, axis.Values, 2)
		assert.Equal(t, "Red", axis.Values[0].Value)
		assert.Equal(t, "Blue", axis.Values[1].Value)
	})

	t.Run("VariantImagesFoldedBack", func(t *testing.T) {
		draft := DraftFromPayload(storedPayload())

		// The variant-tagged entry becomes the Red value's image, not a
		// listing image.
		require.Len(t, draft.Images, 2)
		assert.Equal(t, "assets/front.jpg", draft.Images[0].Reference)
		assert.Equal(t, "assets/demo.mp4", draft.Images[1].Reference)

		red := draft.VariantAxes[0].Values[0]
		require.NotNil(t, red.Image)
		assert.Equal(t, "assets/red.jpg", red.Image.Reference)
		assert.Nil(t, draft.VariantAxes[0].Values[1].Image)
	})

	t.Run("EmptyPriceListShortCircuits", func(t *testing.T) {
		p := storedPayload()
		p.ProductPriceList = nil
		draft := DraftFromPayload(p)
		assert.False(t, draft.SetUpPrice)
		assert.Empty(t, draft.PriceRules)
		assert.Nil(t, draft.Stock)
	})
}

func TestResolveEditDraft(t *testing.T) {
	t.Run("NilSourcesSkipped", func(t *testing.T) {
		stored := DraftFromPayload(storedPayload())
		merged := ResolveEditDraft(nil, &stored)
		assert.Equal(t, stored.ProductName, merged.ProductName)
	})

	t.Run("AutosaveShadowsStored", func(t *testing.T) {
		autosave := &models.ListingDraft{
			Kind:        models.ListingKindProduct,
			ProductName: "Renamed Drill",
		}
		stored := DraftFromPayload(storedPayload())

		merged := ResolveEditDraft(autosave, &stored)

		assert.Equal(t, "Renamed Drill", merged.ProductName)
		// Fields the autosave does not carry fall through to the stored record.
		assert.Equal(t, "NEW", merged.Condition)
		require.NotNil(t, merged.CategoryID)
		assert.Equal(t, uint(42), *merged.CategoryID)
		assert.Equal(t, []string{"tools"}, merged.Tags)
	})

	t.Run("PricingSwitchesTravelTogether", func(t *testing.T) {
		// The autosave carries no pricing, so the stored record's switch set
		// wins as a unit.
		autosave := &models.ListingDraft{ProductName: "Renamed Drill"}
		stored := DraftFromPayload(storedPayload())
		stored.AskForStock = true

		merged := ResolveEditDraft(autosave, &stored)

		assert.True(t, merged.SetUpPrice)
		assert.True(t, merged.AskForStock)
		assert.False(t, merged.AskForPrice)
	})

	t.Run("AutosavePricingWinsAsUnit", func(t *testing.T) {
		autosave := &models.ListingDraft{
			SetUpPrice:  true,
			AskForPrice: true,
		}
		stored := DraftFromPayload(storedPayload())
		stored.AskForStock = true

		merged := ResolveEditDraft(autosave, &stored)

		assert.True(t, merged.SetUpPrice)
		assert.True(t, merged.AskForPrice)
		assert.False(t, merged.AskForStock)
	})

	t.Run("CollectionsNotMerged", func(t *testing.T) {
		autosave := &models.ListingDraft{Tags: []string{"power-tools"}}
		stored := DraftFromPayload(storedPayload())

		merged := ResolveEditDraft(autosave, &stored)

		assert.Equal(t, []string{"power-tools"}, merged.Tags)
	})

	t.Run("NoSources", func(t *testing.T) {
		merged := ResolveEditDraft()
		assert.Equal(t, models.ListingDraft{}, merged)
	})
}
