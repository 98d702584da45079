package response

import (
	"time"

	"github.com/edcastillob/rifas/internal/domain"
)

// ReservationResponse is the buyer-facing summary of a successful
// reservation.
type ReservationResponse struct {
	Number      int        `json:"number"`
	BuyerName   string     `json:"buyer_name"`
	BuyerEmail  string     `json:"buyer_email"`
	BuyerPhone  string     `json:"buyer_phone"`
	PurchasedAt *time.Time `json:"purchased_at"`
}

func NewReservationResponse(ticket domain.Ticket) ReservationResponse {
	return ReservationResponse{
		Number:      ticket.Number,
		BuyerName:   ticket.BuyerName,
		BuyerEmail:  ticket.BuyerEmail,
		BuyerPhone:  ticket.BuyerPhone,
		PurchasedAt: ticket.PurchasedAt,
	}
}
