package models

import "time"

// Raffle — реестр розыгрыша. Активный розыгрыш имеет slug "current".
type Raffle struct {
	ID        int       `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Tickets []RaffleTicket `json:"tickets" db:"-"`
}

// RaffleTicket — билет с последовательным номером. Номера выдаются строго
// по порядку коммитов, без дыр, начиная с 1.
type RaffleTicket struct {
	ID         int    `json:"id" db:"id"`
	RaffleID   int    `json:"raffle_id" db:"raffle_id"`
	Number     int    `json:"number" db:"number"`
	HolderID   int    `json:"holder_id" db:"holder_id"`
	HolderName string `json:"holder_name" db:"holder_name"`
}
