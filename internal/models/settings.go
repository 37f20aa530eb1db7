package models

// SiteSettings is the typed view over the app_settings key-value rows,
// merged with defaults on read.
type SiteSettings struct {
	BrandName        string `json:"brandName"`
	ContactPhone     string `json:"contactPhone"`
	ContactEmail     string `json:"contactEmail"`
	ContactInstagram string `json:"contactInstagram"`
	ContactLinkedin  string `json:"contactLinkedin"`
}

// app_settings keys.
const (
	SettingBrandName        = "brand_name"
	SettingContactPhone     = "contact_phone"
	SettingContactEmail     = "contact_email"
	SettingContactInstagram = "contact_instagram"
	SettingContactLinkedin  = "contact_linkedin"
)
