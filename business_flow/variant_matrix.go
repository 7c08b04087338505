package businessflow

import (
	"github.com/amirphl/Kitsune-no-Ichiba/models"
	"github.com/amirphl/Kitsune-no-Ichiba/utils"
)

// VariantImage associates one pending or persisted asset with the variant cell
// it illustrates.
type VariantImage struct {
	Type  string
	Value string
	Asset models.AssetRef
}

// Key returns the composite lookup key for this variant cell.
func (v VariantImage) Key() string {
	return v.Type + "-" + v.Value
}

// BuildVariantMatrix expands sparse variant axes into the flat productVariant
// list plus the variant-image associations that still need upload resolution.
// Blank values are dropped; axis order and value order are preserved. Axes
// with an empty type produce nothing, so the builder stays composable with
// partially filled drafts.
func BuildVariantMatrix(axes []models.VariantAxis) ([]models.VariantRef, []VariantImage) {
	variants := []models.VariantRef{}
	images := []VariantImage{}

	for _, axis := range axes {
		if utils.IsBlank(axis.Type) {
			continue
		}
		for _, candidate := range axis.Values {
			if utils.IsBlank(candidate.Value) {
				continue
			}
			variants = append(variants, models.VariantRef{
				Type:  axis.Type,
				Value: candidate.Value,
			})
			if candidate.Image != nil {
				images = append(images, VariantImage{
					Type:  axis.Type,
					Value: candidate.Value,
					Asset: *candidate.Image,
				})
			}
		}
	}

	return variants, images
}
