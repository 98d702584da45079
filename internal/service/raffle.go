package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/repository"
)

var (
	ErrRaffleNotFound          = repository.ErrRaffleNotFound
	ErrRaffleNotClosed         = repository.ErrRaffleNotClosed
	ErrNoTicketsSold           = errors.New("raffle has no sold tickets")
	ErrTicketCountImmutable    = errors.New("ticket count cannot be changed after creation")
	ErrInvalidStatusTransition = errors.New("invalid raffle status transition")
)

type RaffleRepository interface {
	CreateWithTickets(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	FindByID(ctx context.Context, id uint) (domain.Raffle, error)
	FindByStatus(ctx context.Context, status domain.RaffleStatus) ([]domain.Raffle, error)
	FindAll(ctx context.Context) ([]domain.Raffle, error)
	Update(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	SetWinner(ctx context.Context, id uint, number int) (domain.Raffle, error)
	Delete(ctx context.Context, id uint) error
}

type RaffleTicketRepository interface {
	FindSoldByRaffleID(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
}

type RaffleService struct {
	repo       RaffleRepository
	ticketRepo RaffleTicketRepository

	// Uniform draw over n sold tickets. Swapped out in tests.
	randIntn func(n int) int
}

func NewRaffleService(repo RaffleRepository, ticketRepo RaffleTicketRepository) *RaffleService {
	return &RaffleService{
		repo:       repo,
		ticketRepo: ticketRepo,
		randIntn:   rand.Intn,
	}
}

func (s *RaffleService) ListActive(ctx context.Context) ([]domain.Raffle, error) {
	raffles, err := s.repo.FindByStatus(ctx, domain.RaffleStatusActive)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByStatus -> %w", err)
	}

	return raffles, nil
}

func (s *RaffleService) ListAll(ctx context.Context) ([]domain.Raffle, error) {
	raffles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return raffles, nil
}

func (s *RaffleService) GetRaffle(ctx context.Context, id uint) (domain.Raffle, error) {
	raffle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRaffleNotFound) {
			return domain.Raffle{}, ErrRaffleNotFound
		}

		return domain.Raffle{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return raffle, nil
}

// CreateRaffle creates the raffle and its full ticket inventory (numbers
// 1..TicketCount, all free) atomically.
func (s *RaffleService) CreateRaffle(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	raffle.Status = domain.RaffleStatusActive
	raffle.WinnerNumber = nil

	created, err := s.repo.CreateWithTickets(ctx, raffle)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.CreateWithTickets -> %w", err)
	}

	return created, nil
}

// UpdateRaffle writes the mutable fields. The ticket count is immutable after
// creation, and status may only move forward (active -> closed -> finalized).
func (s *RaffleService) UpdateRaffle(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	existing, err := s.GetRaffle(ctx, raffle.ID)
	if err != nil {
		return domain.Raffle{}, err
	}

	if raffle.TicketCount != 0 && raffle.TicketCount != existing.TicketCount {
		return domain.Raffle{}, ErrTicketCountImmutable
	}

	if !statusTransitionAllowed(existing.Status, raffle.Status) {
		return domain.Raffle{}, ErrInvalidStatusTransition
	}

	raffle.TicketCount = existing.TicketCount

	updated, err := s.repo.Update(ctx, raffle)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *RaffleService) DeleteRaffle(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRaffleNotFound) {
			return ErrRaffleNotFound
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// DrawWinner picks one sold ticket uniformly at random and finalizes the
// raffle. The write is conditional on the raffle still being closed, so two
// simultaneous draws produce exactly one winner; the loser gets
// ErrRaffleNotClosed instead of silently re-drawing.
func (s *RaffleService) DrawWinner(ctx context.Context, raffleID uint) (domain.Raffle, error) {
	if _, err := s.GetRaffle(ctx, raffleID); err != nil {
		return domain.Raffle{}, err
	}

	sold, err := s.ticketRepo.FindSoldByRaffleID(ctx, raffleID)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.ticketRepo.FindSoldByRaffleID -> %w", err)
	}

	if len(sold) == 0 {
		return domain.Raffle{}, ErrNoTicketsSold
	}

	winner := sold[s.randIntn(len(sold))].Number

	finalized, err := s.repo.SetWinner(ctx, raffleID, winner)
	if err != nil {
		if errors.Is(err, repository.ErrRaffleNotClosed) {
			return domain.Raffle{}, ErrRaffleNotClosed
		}

		return domain.Raffle{}, fmt.Errorf("s.repo.SetWinner -> %w", err)
	}

	return finalized, nil
}

func statusTransitionAllowed(from, to domain.RaffleStatus) bool {
	if from == to {
		return true
	}

	switch from {
	case domain.RaffleStatusActive:
		return to == domain.RaffleStatusClosed
	case domain.RaffleStatusClosed:
		return to == domain.RaffleStatusFinalized
	default:
		return false
	}
}
