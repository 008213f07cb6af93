package model

// DefaultBaseCurrency is used when no settings row exists yet.
const DefaultBaseCurrency = "EUR"

// Settings is the process-wide singleton holding the reporting currency all
// stored prices and values are normalized to.
type Settings struct {
	BaseCurrency string `json:"baseCurrency"`
}
