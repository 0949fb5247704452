package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/images"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/products"
)

// New returns a configured validator with the custom rules registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// image URLs must point at our Cloudinary account's upload path
	_ = v.RegisterValidation("cloudinary", func(fl validatorv10.FieldLevel) bool {
		return images.IsValidURL(fl.Field().String())
	})

	v.RegisterStructValidation(productCategoryValidation, CreateProductRequest{}, UpdateProductRequest{})
	v.RegisterStructValidation(settingsStructValidation, SettingsRequest{})

	return v
}

// productCategoryValidation checks the category against the catalog enum for
// both the create and the partial-update shapes.
func productCategoryValidation(sl validatorv10.StructLevel) {
	switch req := sl.Current().Interface().(type) {
	case CreateProductRequest:
		if !products.ValidCategory(req.Category) {
			sl.ReportError(req.Category, "category", "Category", "category", "")
		}
	case UpdateProductRequest:
		if req.Category != nil && !products.ValidCategory(*req.Category) {
			sl.ReportError(req.Category, "category", "Category", "category", "")
		}
	}
}

// settingsStructValidation enforces the store identity fields the settings
// record cannot exist without.
func settingsStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(SettingsRequest)
	if req.StoreName == "" {
		sl.ReportError(req.StoreName, "storeName", "StoreName", "required", "")
	}
	if req.StoreEmail == "" {
		sl.ReportError(req.StoreEmail, "storeEmail", "StoreEmail", "required", "")
	}
	if req.StoreContact == "" {
		sl.ReportError(req.StoreContact, "storeContact", "StoreContact", "required", "")
	}
}
