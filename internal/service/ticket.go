package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/repository"
)

var (
	ErrTicketNotFound  = repository.ErrTicketNotFound
	ErrTicketTaken     = repository.ErrTicketTaken
	ErrRaffleNotActive = errors.New("raffle is not active")
)

type TicketRepository interface {
	FindByRaffleID(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	FindSoldByRaffleID(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	Reserve(ctx context.Context, raffleID uint, number int, buyer domain.Buyer) (domain.Ticket, error)
}

type TicketRaffleRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Raffle, error)
}

type TicketService struct {
	repo       TicketRepository
	raffleRepo TicketRaffleRepository
}

func NewTicketService(repo TicketRepository, raffleRepo TicketRaffleRepository) *TicketService {
	return &TicketService{
		repo:       repo,
		raffleRepo: raffleRepo,
	}
}

func (s *TicketService) ListTickets(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	if _, err := s.getRaffle(ctx, raffleID); err != nil {
		return nil, err
	}

	tickets, err := s.repo.FindByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByRaffleID -> %w", err)
	}

	return tickets, nil
}

// Reserve attempts to flip one ticket from free to sold for the given buyer.
// The storage layer's conditional update is the only concurrency control:
// when another buyer got there first the caller receives ErrTicketTaken,
// never a false success.
func (s *TicketService) Reserve(ctx context.Context, raffleID uint, number int, buyer domain.Buyer) (domain.Ticket, error) {
	raffle, err := s.getRaffle(ctx, raffleID)
	if err != nil {
		return domain.Ticket{}, err
	}

	if raffle.Status != domain.RaffleStatusActive {
		return domain.Ticket{}, ErrRaffleNotActive
	}

	ticket, err := s.repo.Reserve(ctx, raffleID, number, buyer)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTicketTaken):
			return domain.Ticket{}, ErrTicketTaken
		case errors.Is(err, repository.ErrTicketNotFound):
			return domain.Ticket{}, ErrTicketNotFound
		default:
			return domain.Ticket{}, fmt.Errorf("s.repo.Reserve -> %w", err)
		}
	}

	return ticket, nil
}

// ExportBuyers writes the sold tickets of a raffle as CSV: a header row then
// one row per sold ticket ordered by number.
func (s *TicketService) ExportBuyers(ctx context.Context, raffleID uint, w io.Writer) error {
	if _, err := s.getRaffle(ctx, raffleID); err != nil {
		return err
	}

	sold, err := s.repo.FindSoldByRaffleID(ctx, raffleID)
	if err != nil {
		return fmt.Errorf("s.repo.FindSoldByRaffleID -> %w", err)
	}

	cw := csv.NewWriter(w)
	if err = cw.Write([]string{"Number", "Name", "Email", "Phone", "Purchase Date"}); err != nil {
		return fmt.Errorf("cw.Write -> %w", err)
	}

	for _, t := range sold {
		purchased := ""
		if t.PurchasedAt != nil {
			purchased = t.PurchasedAt.Format(time.RFC3339)
		}

		row := []string{strconv.Itoa(t.Number), t.BuyerName, t.BuyerEmail, t.BuyerPhone, purchased}
		if err = cw.Write(row); err != nil {
			return fmt.Errorf("cw.Write -> %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func (s *TicketService) getRaffle(ctx context.Context, raffleID uint) (domain.Raffle, error) {
	raffle, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		if errors.Is(err, repository.ErrRaffleNotFound) {
			return domain.Raffle{}, ErrRaffleNotFound
		}

		return domain.Raffle{}, fmt.Errorf("s.raffleRepo.FindByID -> %w", err)
	}

	return raffle, nil
}
