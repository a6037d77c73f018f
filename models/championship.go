package models

import "time"

// ChampionshipStatus соответствует ENUM championship_status в БД.
// Переход единственный: open -> finalized, выполняется только финализатором.
type ChampionshipStatus string

const (
	ChampionshipOpen      ChampionshipStatus = "open"
	ChampionshipFinalized ChampionshipStatus = "finalized"
)

// Championship представляет чемпионат с фиксированным пулом XP.
type Championship struct {
	ID            int                `json:"id" db:"id"`
	OrganizerID   int                `json:"organizer_id" db:"organizer_id"`
	OrganizerName string             `json:"organizer_name" db:"organizer_name"`
	Name          string             `json:"name" db:"name"`
	Description   string             `json:"description" db:"description"`
	Game          *string            `json:"game,omitempty" db:"game"`
	EventDate     time.Time          `json:"event_date" db:"event_date"`
	XPPool        float64            `json:"xp_pool" db:"xp_pool"`
	Status        ChampionshipStatus `json:"status" db:"status"`
	CreatedBy     int                `json:"created_by" db:"created_by"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`

	// Заполняется только после финализации.
	Results []PlacementResult `json:"results,omitempty" db:"-"`
}

// PlacementResult — постоянная запись результата одного участника.
// PlayerID == nil означает ручную запись (незарегистрированный игрок):
// такая запись попадает в историю, но XPAwarded у нее всегда 0.
type PlacementResult struct {
	ID             int     `json:"id" db:"id"`
	ChampionshipID int     `json:"championship_id" db:"championship_id"`
	PlayerID       *int    `json:"player_id,omitempty" db:"player_id"`
	DisplayName    string  `json:"display_name" db:"display_name"`
	Rank           int     `json:"rank" db:"rank"`
	XPAwarded      float64 `json:"xp_awarded" db:"xp_awarded"`
}
