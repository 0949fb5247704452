package settings

import "time"

// SingletonID is the fixed partition key: the settings table holds at most
// one record, enforced by keying it under a well-known id instead of
// absence-checking at write time.
const SingletonID = "store"

// Address is the store's physical address.
type Address struct {
	Street  string `dynamodbav:"street" json:"street"`
	City    string `dynamodbav:"city" json:"city"`
	State   string `dynamodbav:"state" json:"state"`
	ZipCode string `dynamodbav:"zip_code" json:"zipCode"`
	Country string `dynamodbav:"country" json:"country"`
}

type TaxSettings struct {
	Enabled bool    `dynamodbav:"enabled" json:"enabled"`
	Rate    float64 `dynamodbav:"rate" json:"rate"`
}

type StripeGateway struct {
	Enabled        bool   `dynamodbav:"enabled" json:"enabled"`
	PublishableKey string `dynamodbav:"publishable_key,omitempty" json:"publishableKey,omitempty"`
	SecretKey      string `dynamodbav:"secret_key,omitempty" json:"-"`
}

type PaymentGateway struct {
	Stripe StripeGateway `dynamodbav:"stripe" json:"stripe"`
}

type ShippingSettings struct {
	FlatRate              float64  `dynamodbav:"flat_rate" json:"flatRate"`
	FreeShippingThreshold float64  `dynamodbav:"free_shipping_threshold" json:"freeShippingThreshold"`
	EnabledRegions        []string `dynamodbav:"enabled_regions,omitempty" json:"enabledRegions,omitempty"`
}

type SocialMediaLinks struct {
	Facebook  string `dynamodbav:"facebook,omitempty" json:"facebook,omitempty"`
	Twitter   string `dynamodbav:"twitter,omitempty" json:"twitter,omitempty"`
	Instagram string `dynamodbav:"instagram,omitempty" json:"instagram,omitempty"`
	LinkedIn  string `dynamodbav:"linkedin,omitempty" json:"linkedin,omitempty"`
}

type SecuritySettings struct {
	EnableTwoFactorAuth bool `dynamodbav:"enable_two_factor_auth" json:"enableTwoFactorAuth"`
	SessionTimeout      int  `dynamodbav:"session_timeout" json:"sessionTimeout"` // minutes
}

type MaintenanceMode struct {
	Enabled bool   `dynamodbav:"enabled" json:"enabled"`
	Message string `dynamodbav:"message,omitempty" json:"message,omitempty"`
}

type SEOSettings struct {
	MetaTitle       string `dynamodbav:"meta_title,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string `dynamodbav:"meta_description,omitempty" json:"metaDescription,omitempty"`
}

// Settings is the singleton store configuration record.
type Settings struct {
	SettingsID string `dynamodbav:"settings_id" json:"-"` // PK, always SingletonID

	StoreName    string  `dynamodbav:"store_name" json:"storeName"`
	StoreEmail   string  `dynamodbav:"store_email" json:"storeEmail"`
	StoreContact string  `dynamodbav:"store_contact" json:"storeContact"`
	StoreAddress Address `dynamodbav:"store_address" json:"storeAddress"`

	NumberOfImagesPerProduct int    `dynamodbav:"images_per_product" json:"numberOfImagesPerProduct"`
	DefaultLanguage          string `dynamodbav:"default_language" json:"defaultLanguage"`
	DefaultDateFormat        string `dynamodbav:"default_date_format" json:"defaultDateFormat"`
	DefaultTimezone          string `dynamodbav:"default_timezone" json:"defaultTimezone"`

	DefaultCurrency string      `dynamodbav:"default_currency" json:"defaultCurrency"`
	TaxSettings     TaxSettings `dynamodbav:"tax_settings" json:"taxSettings"`

	PaymentGateway   PaymentGateway   `dynamodbav:"payment_gateway" json:"paymentGateway"`
	ShippingSettings ShippingSettings `dynamodbav:"shipping_settings" json:"shippingSettings"`

	EnableNewsletter     bool `dynamodbav:"enable_newsletter" json:"enableNewsletter"`
	AllowAutoTranslation bool `dynamodbav:"allow_auto_translation" json:"allowAutoTranslation"`

	SocialMediaLinks SocialMediaLinks `dynamodbav:"social_media_links" json:"socialMediaLinks"`
	SecuritySettings SecuritySettings `dynamodbav:"security_settings" json:"securitySettings"`
	MaintenanceMode  MaintenanceMode  `dynamodbav:"maintenance_mode" json:"maintenanceMode"`
	SEOSettings      SEOSettings      `dynamodbav:"seo_settings" json:"seoSettings"`

	CreatedAt time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}
