package repository

import (
	"context"
	"fmt"

	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/repository/dao"
)

var (
	ErrRaffleNotFound  = dao.ErrRaffleNotFound
	ErrRaffleNotClosed = dao.ErrRaffleNotClosed
)

type RaffleDAO interface {
	InsertWithTickets(ctx context.Context, raffle dao.Raffle) (dao.Raffle, error)
	FindByID(ctx context.Context, id uint) (dao.Raffle, error)
	FindByStatus(ctx context.Context, status string) ([]dao.Raffle, error)
	FindAll(ctx context.Context) ([]dao.Raffle, error)
	Update(ctx context.Context, raffle dao.Raffle) (dao.Raffle, error)
	SetWinner(ctx context.Context, id uint, number int) (dao.Raffle, error)
	Delete(ctx context.Context, id uint) error
}

type RaffleRepository struct {
	dao RaffleDAO
}

func NewRaffleRepository(dao RaffleDAO) *RaffleRepository {
	return &RaffleRepository{
		dao: dao,
	}
}

func (r *RaffleRepository) CreateWithTickets(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	created, err := r.dao.InsertWithTickets(ctx, r.domainToDao(raffle))
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.InsertWithTickets -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RaffleRepository) FindByID(ctx context.Context, id uint) (domain.Raffle, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RaffleRepository) FindByStatus(ctx context.Context, status domain.RaffleStatus) ([]domain.Raffle, error) {
	found, err := r.dao.FindByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatus -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *RaffleRepository) FindAll(ctx context.Context) ([]domain.Raffle, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *RaffleRepository) Update(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(raffle))
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *RaffleRepository) SetWinner(ctx context.Context, id uint, number int) (domain.Raffle, error) {
	updated, err := r.dao.SetWinner(ctx, id, number)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.SetWinner -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *RaffleRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *RaffleRepository) domainToDao(raffle domain.Raffle) dao.Raffle {
	return dao.Raffle{
		ID:           raffle.ID,
		Name:         raffle.Name,
		Price:        raffle.Price,
		TicketCount:  raffle.TicketCount,
		Description:  raffle.Description,
		Date:         raffle.Date,
		Time:         raffle.Time,
		Status:       string(raffle.Status),
		WinnerNumber: raffle.WinnerNumber,
	}
}

func (r *RaffleRepository) daoToDomain(raffle dao.Raffle) domain.Raffle {
	return domain.Raffle{
		ID:           raffle.ID,
		Name:         raffle.Name,
		Price:        raffle.Price,
		TicketCount:  raffle.TicketCount,
		Description:  raffle.Description,
		Date:         raffle.Date,
		Time:         raffle.Time,
		Status:       domain.RaffleStatus(raffle.Status),
		WinnerNumber: raffle.WinnerNumber,
		CreatedAt:    raffle.CreatedAt,
		UpdatedAt:    raffle.UpdatedAt,
	}
}

func (r *RaffleRepository) daoToDomainSlice(daoRaffles []dao.Raffle) []domain.Raffle {
	raffles := make([]domain.Raffle, 0, len(daoRaffles))
	for _, raffle := range daoRaffles {
		raffles = append(raffles, r.daoToDomain(raffle))
	}

	return raffles
}
