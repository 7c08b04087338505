package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingKind(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.True(t, ListingKindProduct.Valid())
		assert.True(t, ListingKindQuoteRequest.Valid())
		assert.False(t, ListingKind("X").Valid())
		assert.False(t, ListingKind("").Valid())
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "P", ListingKindProduct.String())
		assert.Equal(t, "R", ListingKindQuoteRequest.String())
	})
}

func TestSellType(t *testing.T) {
	assert.True(t, SellTypeNormal.Valid())
	assert.True(t, SellTypeGroupBuy.Valid())
	assert.False(t, SellType("AUCTION").Valid())
}

func TestListingStatus(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for _, s := range []ListingStatus{
			ListingStatusDraft, ListingStatusSubmitted, ListingStatusActive,
			ListingStatusRejected, ListingStatusArchived,
		} {
			assert.True(t, s.Valid(), s)
		}
		assert.False(t, ListingStatus("pending").Valid())
	})

	t.Run("Scan", func(t *testing.T) {
		var s ListingStatus
		require.NoError(t, s.Scan("submitted"))
		assert.Equal(t, ListingStatusSubmitted, s)

		require.NoError(t, s.Scan([]byte("active")))
		assert.Equal(t, ListingStatusActive, s)

		require.NoError(t, s.Scan(nil))
		assert.Equal(t, ListingStatus(""), s)

		assert.Error(t, s.Scan(42))
	})

	t.Run("Value", func(t *testing.T) {
		v, err := ListingStatusDraft.Value()
		require.NoError(t, err)
		assert.Equal(t, "draft", v)

		_, err = ListingStatus("bogus").Value()
		assert.Error(t, err)
	})
}

func TestListingIsEditable(t *testing.T) {
	editable := []ListingStatus{ListingStatusDraft, ListingStatusSubmitted, ListingStatusRejected}
	for _, s := range editable {
		l := Listing{Status: s}
		assert.True(t, l.IsEditable(), s)
	}

	frozen := []ListingStatus{ListingStatusActive, ListingStatusArchived}
	for _, s := range frozen {
		l := Listing{Status: s}
		assert.False(t, l.IsEditable(), s)
	}
}

func TestSubmissionPayloadScanValue(t *testing.T) {
	payload := SubmissionPayload{
		SKU:         "P-000001",
		ListingKind: ListingKindProduct,
		ProductName: "Cordless Drill 18V",
		ProductPriceList: []PriceEntry{
			{ConsumerType: "RETAIL", SellType: "NORMAL_SELL", Status: "ACTIVE"},
		},
		ProductImagesList: []ImageEntry{
			{Image: "assets/front.jpg", ImageName: "front.jpg"},
		},
	}

	v, err := payload.Value()
	require.NoError(t, err)

	raw, ok := v.([]byte)
	require.True(t, ok)
	assert.True(t, json.Valid(raw))

	var scanned SubmissionPayload
	require.NoError(t, scanned.Scan(raw))
	assert.Equal(t, payload, scanned)

	require.NoError(t, scanned.Scan(string(raw)))
	assert.Equal(t, payload, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, SubmissionPayload{}, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestListingDraftHelpers(t *testing.T) {
	t.Run("PriceRuleAllocatesSingleton", func(t *testing.T) {
		var d ListingDraft
		rule := d.PriceRule()
		require.NotNil(t, rule)
		require.Len(t, d.PriceRules, 1)

		rule.ConsumerType = "RETAIL"
		assert.Equal(t, "RETAIL", d.PriceRules[0].ConsumerType)

		// A second call returns the same singleton.
		assert.Equal(t, rule, d.PriceRule())
	})

	t.Run("SellTypeDefaultsToNormal", func(t *testing.T) {
		var d ListingDraft
		assert.Equal(t, SellTypeNormal, d.SellType())

		d.PriceRules = []PriceRule{{SellType: SellTypeGroupBuy}}
		assert.Equal(t, SellTypeGroupBuy, d.SellType())
	})

	t.Run("AssetRefIsPending", func(t *testing.T) {
		assert.False(t, AssetRef{Reference: "a.jpg"}.IsPending())
		assert.True(t, AssetRef{File: &PendingFile{Filename: "a.jpg"}}.IsPending())
	})

	t.Run("PriceRuleReset", func(t *testing.T) {
		r := PriceRule{ConsumerType: "RETAIL", SellType: SellTypeGroupBuy}
		r.Reset()
		assert.Equal(t, PriceRule{}, r)
	})
}
