package models

import "time"

// Organization — организация-устроитель чемпионатов.
type Organization struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	AdminUserID int       `json:"admin_user_id" db:"admin_user_id"`
	XPBase      float64   `json:"xp_base" db:"xp_base"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Games       []string  `json:"games" db:"games"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
