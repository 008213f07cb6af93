package request

// SettingsRequest is the payload for updating the base currency.
type SettingsRequest struct {
	BaseCurrency string `json:"baseCurrency"`
}
