package businessflow

import (
	"testing"
	"time"

	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNormalRule() *models.PriceRule {
	return &models.PriceRule{
		ConsumerType:           "RETAIL",
		SellType:               models.SellTypeNormal,
		MinQuantityPerCustomer: utils.ToPtr(1),
		MaxQuantityPerCustomer: utils.ToPtr(10),
	}
}

func validGroupBuyRule() *models.PriceRule {
	return &models.PriceRule{
		ConsumerType:           "RETAIL",
		SellType:               models.SellTypeGroupBuy,
		MinQuantity:            utils.ToPtr(10),
		MaxQuantity:            utils.ToPtr(100),
		MinQuantityPerCustomer: utils.ToPtr(1),
		MaxQuantityPerCustomer: utils.ToPtr(5),
	}
}

func TestPriceRuleSchemaFor(t *testing.T) {
	t.Run("NormalSell", func(t *testing.T) {
		schema := PriceRuleSchemaFor(models.SellTypeNormal)
		assert.True(t, schema.RequirePerCustomerBounds)
		assert.False(t, schema.RequireQuantityBounds)
		assert.False(t, schema.CheckCustomerBounds)
	})

	t.Run("GroupBuy", func(t *testing.T) {
		schema := PriceRuleSchemaFor(models.SellTypeGroupBuy)
		assert.True(t, schema.RequirePerCustomerBounds)
		assert.True(t, schema.RequireQuantityBounds)
		assert.True(t, schema.CheckCustomerBounds)
	})
}

func TestValidatePriceRule(t *testing.T) {
	t.Run("ValidNormalRule", func(t *testing.T) {
		errs := ValidatePriceRule(validNormalRule(), PriceRuleSchemaFor(models.SellTypeNormal))
		assert.Empty(t, errs)
	})

	t.Run("ValidGroupBuyRule", func(t *testing.T) {
		errs := ValidatePriceRule(validGroupBuyRule(), PriceRuleSchemaFor(models.SellTypeGroupBuy))
		assert.Empty(t, errs)
	})

	t.Run("NilRule", func(t *testing.T) {
		errs := ValidatePriceRule(nil, PriceRuleSchemaFor(models.SellTypeNormal))
		require.Len(t, errs, 1)
		assert.Equal(t, ErrSellTypeInvalid.Error(), errs["sellType"])
	})

	t.Run("MissingConsumerType", func(t *testing.T) {
		rule := validNormalRule()
		rule.ConsumerType = "  "
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeNormal))
		assert.Equal(t, ErrConsumerTypeRequired.Error(), errs["consumerType"])
	})

	t.Run("InvalidSellType", func(t *testing.T) {
		rule := validNormalRule()
		rule.SellType = "AUCTION"
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeNormal))
		assert.Equal(t, ErrSellTypeInvalid.Error(), errs["sellType"])
	})

	t.Run("PerCustomerBoundsAlwaysRequired", func(t *testing.T) {
		rule := validNormalRule()
		rule.MinQuantityPerCustomer = nil
		rule.MaxQuantityPerCustomer = nil
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeNormal))
		assert.Equal(t, ErrBoundRequired.Error(), errs["minQuantityPerCustomer"])
		assert.Equal(t, ErrBoundRequired.Error(), errs["maxQuantityPerCustomer"])
	})

	t.Run("PerCustomerBoundsOutOfOrder", func(t *testing.T) {
		rule := validNormalRule()
		rule.MinQuantityPerCustomer = utils.ToPtr(10)
		rule.MaxQuantityPerCustomer = utils.ToPtr(10)
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeNormal))
		assert.Equal(t, ErrBoundsOutOfOrder.Error(), errs["minQuantityPerCustomer"])
	})

	t.Run("QuantityBoundsNotRequiredForNormalSell", func(t *testing.T) {
		rule := validNormalRule()
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeNormal))
		assert.NotContains(t, errs, "minQuantity")
		assert.NotContains(t, errs, "maxQuantity")
	})

	t.Run("QuantityBoundsRequiredForGroupBuy", func(t *testing.T) {
		rule := validGroupBuyRule()
		rule.MinQuantity = nil
		rule.MaxQuantity = nil
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeGroupBuy))
		assert.Equal(t, ErrBoundRequired.Error(), errs["minQuantity"])
		assert.Equal(t, ErrBoundRequired.Error(), errs["maxQuantity"])
	})

	t.Run("CustomerBoundsOptionalAsWhole", func(t *testing.T) {
		rule := validGroupBuyRule()
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeGroupBuy))
		assert.NotContains(t, errs, "minCustomer")
		assert.NotContains(t, errs, "maxCustomer")
	})

	t.Run("CustomerBoundsHalfSet", func(t *testing.T) {
		rule := validGroupBuyRule()
		rule.MinCustomer = utils.ToPtr(5)
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeGroupBuy))
		assert.Equal(t, ErrBoundRequired.Error(), errs["maxCustomer"])
		assert.NotContains(t, errs, "minCustomer")
	})

	t.Run("CustomerBoundsIgnoredForNormalSell", func(t *testing.T) {
		rule := validNormalRule()
		rule.MinCustomer = utils.ToPtr(5)
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeNormal))
		assert.NotContains(t, errs, "maxCustomer")
	})

	t.Run("DiscountBounds", func(t *testing.T) {
		rule := validNormalRule()
		rule.ConsumerDiscount = utils.ToPtr(100.5)
		rule.VendorDiscount = utils.ToPtr(-1.0)
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeNormal))
		assert.Equal(t, ErrDiscountOutOfRange.Error(), errs["consumerDiscount"])
		assert.Equal(t, ErrDiscountOutOfRange.Error(), errs["vendorDiscount"])
	})

	t.Run("DiscountBoundaryValues", func(t *testing.T) {
		rule := validNormalRule()
		rule.ConsumerDiscount = utils.ToPtr(0.0)
		rule.VendorDiscount = utils.ToPtr(100.0)
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeNormal))
		assert.Empty(t, errs)
	})

	t.Run("DeliveryAfterTooLow", func(t *testing.T) {
		rule := validNormalRule()
		rule.DeliveryAfter = utils.ToPtr(0)
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeNormal))
		assert.Equal(t, ErrDeliveryAfterTooLow.Error(), errs["deliveryAfter"])
	})

	t.Run("GroupBuyWindowOrdering", func(t *testing.T) {
		open := time.Now().UTC()
		rule := validGroupBuyRule()
		rule.OpenTime = &open
		rule.CloseTime = utils.ToPtr(open.Add(-time.Hour))
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeGroupBuy))
		assert.Equal(t, ErrGroupBuyWindowInvalid.Error(), errs["closeTime"])
	})

	t.Run("GroupBuyWindowEqualTimesInvalid", func(t *testing.T) {
		open := time.Now().UTC()
		rule := validGroupBuyRule()
		rule.OpenTime = &open
		rule.CloseTime = &open
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeGroupBuy))
		assert.Equal(t, ErrGroupBuyWindowInvalid.Error(), errs["closeTime"])
	})

	t.Run("GroupBuyWindowNotRequired", func(t *testing.T) {
		rule := validGroupBuyRule()
		rule.OpenTime = nil
		rule.CloseTime = nil
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeGroupBuy))
		assert.NotContains(t, errs, "openTime")
		assert.NotContains(t, errs, "closeTime")
	})

	t.Run("AllViolationsReportedInOnePass", func(t *testing.T) {
		rule := &models.PriceRule{SellType: "BOGUS"}
		errs := ValidatePriceRule(rule, PriceRuleSchemaFor(models.SellTypeGroupBuy))
		assert.Contains(t, errs, "consumerType")
		assert.Contains(t, errs, "sellType")
		assert.Contains(t, errs, "minQuantity")
		assert.Contains(t, errs, "minQuantityPerCustomer")
	})
}
