package models

// Outcome classifies what happened to one offer during a claim pass.
type Outcome string

const (
	OutcomeClaimed        Outcome = "claimed"
	OutcomeAlreadyClaimed Outcome = "already-claimed"
	OutcomeNotMatched     Outcome = "not-matched"
	OutcomeUnavailable    Outcome = "unavailable"
	OutcomeFailed         Outcome = "failed"
)

// Result pairs an offer with the outcome of its claim attempt.
type Result struct {
	Offer   Offer   `json:"offer"`
	Outcome Outcome `json:"outcome"`
	Code    string  `json:"code,omitempty"`
	Error   string  `json:"error,omitempty"`
}
