package domain

import "time"

type TicketStatus string

const (
	TicketStatusFree TicketStatus = "free"
	TicketStatusSold TicketStatus = "sold"
)

// Ticket is one numbered slot within a raffle. A ticket moves from free to
// sold exactly once; there is no write path back to free.
type Ticket struct {
	ID          uint         `json:"id"`
	RaffleID    uint         `json:"raffle_id"`
	Number      int          `json:"number"`
	Status      TicketStatus `json:"status"`
	BuyerName   string       `json:"buyer_name,omitempty"`
	BuyerEmail  string       `json:"buyer_email,omitempty"`
	BuyerPhone  string       `json:"buyer_phone,omitempty"`
	PurchasedAt *time.Time   `json:"purchased_at,omitempty"`
}

// Buyer carries the contact details submitted with a reservation.
type Buyer struct {
	Name  string
	Email string
	Phone string
}

// Redacted strips buyer contact details for the public ticket grid.
func (t Ticket) Redacted() Ticket {
	t.BuyerName = ""
	t.BuyerEmail = ""
	t.BuyerPhone = ""

	return t
}
