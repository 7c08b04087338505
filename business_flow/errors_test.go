package businessflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrors(t *testing.T) {
	t.Run("FirstMessagePerPathWins", func(t *testing.T) {
		errs := FieldErrors{}
		errs.Add("productName", "first")
		errs.Add("productName", "second")
		assert.Equal(t, "first", errs["productName"])
	})

	t.Run("MergeWithPrefix", func(t *testing.T) {
		errs := FieldErrors{}
		inner := FieldErrors{"minQuantity": "required"}
		errs.Merge("productPriceList[0]", inner)
		assert.Equal(t, "required", errs["productPriceList[0].minQuantity"])
	})

	t.Run("MergeWithoutPrefix", func(t *testing.T) {
		errs := FieldErrors{}
		errs.Merge("", FieldErrors{"tags": "required"})
		assert.Equal(t, "required", errs["tags"])
	})

	t.Run("OrNil", func(t *testing.T) {
		assert.NoError(t, FieldErrors{}.OrNil())
		assert.Error(t, FieldErrors{"tags": "required"}.OrNil())
	})

	t.Run("ErrorIsSortedByPath", func(t *testing.T) {
		errs := FieldErrors{
			"b": "second",
			"a": "first",
		}
		assert.Equal(t, "a: first; b: second", errs.Error())
	})
}

func TestBusinessError(t *testing.T) {
	t.Run("MessageOnly", func(t *testing.T) {
		err := NewBusinessError("CODE", "something broke", nil)
		assert.Equal(t, "something broke", err.Error())
	})

	t.Run("WrapsCause", func(t *testing.T) {
		cause := errors.New("db down")
		err := NewBusinessError("CODE", "something broke", cause)
		assert.Equal(t, "something broke: db down", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("SentinelPredicates", func(t *testing.T) {
		err := NewBusinessError("LISTING_NOT_FOUND", ErrListingNotFound.Error(), ErrListingNotFound)
		assert.True(t, IsListingNotFound(err))
		assert.False(t, IsListingAccessDenied(err))
	})

	t.Run("FieldErrorsTravelThroughBusinessError", func(t *testing.T) {
		inner := FieldErrors{"productName": "required"}
		err := NewBusinessError("LISTING_VALIDATION_FAILED", "Listing validation failed", inner)

		fieldErrs, ok := IsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fieldErrs, "productName")
	})
}
