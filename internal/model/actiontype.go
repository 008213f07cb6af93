package model

// Action codes for the seeded ActionType rows. The codes are stable and
// referenced by movements; they are never renumbered.
const (
	ActionBuy    = 1
	ActionSell   = 2
	ActionPayout = 3
)

// ActionType is a lookup record classifying a movement as a buy, sell or payout.
type ActionType struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}
