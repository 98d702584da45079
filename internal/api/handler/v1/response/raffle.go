package response

import "github.com/edcastillob/rifas/internal/domain"

// RaffleDetail is a raffle plus its current sales counters.
type RaffleDetail struct {
	domain.Raffle
	SoldCount      int `json:"sold_count"`
	AvailableCount int `json:"available_count"`
}

func NewRaffleDetail(raffle domain.Raffle, tickets []domain.Ticket) RaffleDetail {
	sold := 0
	for _, t := range tickets {
		if t.Status == domain.TicketStatusSold {
			sold++
		}
	}

	return RaffleDetail{
		Raffle:         raffle,
		SoldCount:      sold,
		AvailableCount: len(tickets) - sold,
	}
}
