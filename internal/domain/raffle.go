package domain

import "time"

type RaffleStatus string

const (
	RaffleStatusActive    RaffleStatus = "active"
	RaffleStatusClosed    RaffleStatus = "closed"
	RaffleStatusFinalized RaffleStatus = "finalized"
)

// Raffle is a sellable event with a fixed ticket inventory and a single
// eventual winning number. TicketCount is immutable after creation.
type Raffle struct {
	ID           uint         `json:"id"`
	Name         string       `json:"name"`
	Price        float64      `json:"price"`
	TicketCount  int          `json:"ticket_count"`
	Description  string       `json:"description"`
	Date         time.Time    `json:"date"`
	Time         string       `json:"time"`
	Status       RaffleStatus `json:"status"`
	WinnerNumber *int         `json:"winner_number,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
