package models

type Mission struct {
	ID          int     `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	XPReward    float64 `json:"xp_reward" db:"xp_reward"`
}
