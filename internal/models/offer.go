package models

// ClaimState is the site-reported state of an offer at scan time.
type ClaimState string

const (
	ClaimStateClaimable   ClaimState = "claimable"
	ClaimStateClaimed     ClaimState = "claimed"
	ClaimStateUnavailable ClaimState = "unavailable"
)

// Offer is one promotional item parsed from the storefront page. Offers are
// re-derived on every scan and never persisted; the site stays the source of
// truth for claimed state.
type Offer struct {
	Title      string     `json:"title"`
	Publisher  string     `json:"publisher"`
	URL        string     `json:"url,omitempty"`
	State      ClaimState `json:"state"`
	GrantsCode bool       `json:"grants_code,omitempty"`
}
