package entity

import "time"

// DownloadToken is the stored half of a capability token. Only the sha256
// digest ever touches storage; the raw token lives in the download link the
// submitter receives and nowhere else.
type DownloadToken struct {
	TokenHash       string     `json:"token_hash"`
	LeadID          string     `json:"lead_id"`
	ResourceID      string     `json:"resource_id"`
	IssuedAt        time.Time  `json:"issued_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
	RedemptionCount int        `json:"redemption_count"`
	LastRedeemedAt  *time.Time `json:"last_redeemed_at,omitempty"`
}

// Expired is the only time check a token carries; resource availability is
// checked separately at redemption.
func (t *DownloadToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
