package settings

import "time"

// Settings is the single-row store profile.
type Settings struct {
	StoreName string    `json:"store_name"`
	Currency  string    `json:"currency"`
	TaxRate   float64   `json:"tax_rate"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Defaults returned before the profile is first saved.
func Defaults() Settings {
	return Settings{StoreName: "Meridian POS", Currency: "AZN", TaxRate: 0}
}

// UpdateForm carries the editable fields.
type UpdateForm struct {
	StoreName string  `json:"store_name" validate:"required"`
	Currency  string  `json:"currency" validate:"required,len=3"`
	TaxRate   float64 `json:"tax_rate" validate:"gte=0,lte=100"`
}
