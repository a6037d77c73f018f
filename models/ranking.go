package models

// RankingEntry — строка публичного рейтинга (игроки и фанаты считаются
// отдельными списками).
type RankingEntry struct {
	Position        int     `json:"position"`
	PlayerID        int     `json:"player_id"`
	Name            string  `json:"name"`
	XPTotal         float64 `json:"xp_total"`
	ProfileImageURL string  `json:"profile_image_url"`
}

// RankingConfig — минимальные пороги XP для попадания в рейтинг.
type RankingConfig struct {
	MinXPPlayers float64 `json:"min_xp_players" db:"min_xp_players"`
	MinXPFans    float64 `json:"min_xp_fans" db:"min_xp_fans"`
}
