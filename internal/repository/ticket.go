package repository

import (
	"context"
	"fmt"

	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/repository/dao"
)

var (
	ErrTicketNotFound = dao.ErrTicketNotFound
	ErrTicketTaken    = dao.ErrTicketTaken
)

type TicketDAO interface {
	FindByRaffleID(ctx context.Context, raffleID uint) ([]dao.Ticket, error)
	FindSoldByRaffleID(ctx context.Context, raffleID uint) ([]dao.Ticket, error)
	FindByNumber(ctx context.Context, raffleID uint, number int) (dao.Ticket, error)
	Reserve(ctx context.Context, raffleID uint, number int, buyerName, buyerEmail, buyerPhone string) (dao.Ticket, error)
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(dao TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

func (r *TicketRepository) FindByRaffleID(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	found, err := r.dao.FindByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRaffleID -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *TicketRepository) FindSoldByRaffleID(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	found, err := r.dao.FindSoldByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSoldByRaffleID -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *TicketRepository) Reserve(ctx context.Context, raffleID uint, number int, buyer domain.Buyer) (domain.Ticket, error) {
	reserved, err := r.dao.Reserve(ctx, raffleID, number, buyer.Name, buyer.Email, buyer.Phone)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.Reserve -> %w", err)
	}

	return r.daoToDomain(reserved), nil
}

func (r *TicketRepository) daoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:          t.ID,
		RaffleID:    t.RaffleID,
		Number:      t.Number,
		Status:      domain.TicketStatus(t.Status),
		BuyerName:   t.BuyerName,
		BuyerEmail:  t.BuyerEmail,
		BuyerPhone:  t.BuyerPhone,
		PurchasedAt: t.PurchasedAt,
	}
}

func (r *TicketRepository) daoToDomainSlice(daoTickets []dao.Ticket) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(daoTickets))
	for _, t := range daoTickets {
		tickets = append(tickets, r.daoToDomain(t))
	}

	return tickets
}
