package domain

import "time"

// Partner is a revenue-share participant in operations. SharePercent is the
// slice of gross profit passed to the partner; the house keeps the rest.
type Partner struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SharePercent float64   `json:"share_percent"`
	Active       bool      `json:"active"`
	PixKey       string    `json:"pix_key,omitempty"`
	Contact      string    `json:"contact,omitempty"`
	JoinedAt     time.Time `json:"joined_at"`
}

// Payout returns the partner's cut of the given gross profit. Losses are
// shared at the same rate.
func (p Partner) Payout(grossProfit float64) float64 {
	return grossProfit * p.SharePercent / 100
}
