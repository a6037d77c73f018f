package models

import "time"

// Contribution — донат болельщика. XPGenerated = floor(amount * 10).
type Contribution struct {
	ID          int       `json:"id" db:"id"`
	FanID       int       `json:"fan_id" db:"fan_id"`
	Amount      float64   `json:"amount" db:"amount"`
	XPGenerated int       `json:"xp_generated" db:"xp_generated"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type DonationType string

const (
	DonationCorporate DonationType = "corporate"
	DonationFan       DonationType = "fan"
)

// Donation — зарегистрированное спонсорство (корпоративное или от фаната).
type Donation struct {
	ID          int       `json:"id" db:"id"`
	SponsorName string    `json:"sponsor_name" db:"sponsor_name"`
	FanID       *int      `json:"fan_id,omitempty" db:"fan_id"`
	Amount      float64   `json:"amount" db:"amount"`
	Activity    string    `json:"activity" db:"activity"`
	XPOffered   float64   `json:"xp_offered" db:"xp_offered"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
