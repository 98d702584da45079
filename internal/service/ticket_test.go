package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcastillob/rifas/internal/domain"
)

type mockTicketRepository struct {
	findByRaffleID     func(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	findSoldByRaffleID func(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	reserve            func(ctx context.Context, raffleID uint, number int, buyer domain.Buyer) (domain.Ticket, error)
}

func (m *mockTicketRepository) FindByRaffleID(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	return m.findByRaffleID(ctx, raffleID)
}

func (m *mockTicketRepository) FindSoldByRaffleID(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	return m.findSoldByRaffleID(ctx, raffleID)
}

func (m *mockTicketRepository) Reserve(ctx context.Context, raffleID uint, number int, buyer domain.Buyer) (domain.Ticket, error) {
	return m.reserve(ctx, raffleID, number, buyer)
}

type mockTicketRaffleRepository struct {
	findByID func(ctx context.Context, id uint) (domain.Raffle, error)
}

func (m *mockTicketRaffleRepository) FindByID(ctx context.Context, id uint) (domain.Raffle, error) {
	return m.findByID(ctx, id)
}

func activeRaffleRepo() *mockTicketRaffleRepository {
	return &mockTicketRaffleRepository{
		findByID: func(ctx context.Context, id uint) (domain.Raffle, error) {
			return domain.Raffle{ID: id, Status: domain.RaffleStatusActive}, nil
		},
	}
}

func TestTicketService_Reserve(t *testing.T) {
	buyer := domain.Buyer{Name: "Ana", Email: "ana@example.com", Phone: "1234567890"}

	repo := &mockTicketRepository{
		reserve: func(ctx context.Context, raffleID uint, number int, b domain.Buyer) (domain.Ticket, error) {
			assert.Equal(t, buyer, b)
			now := time.Now()

			return domain.Ticket{
				RaffleID:    raffleID,
				Number:      number,
				Status:      domain.TicketStatusSold,
				BuyerName:   b.Name,
				BuyerEmail:  b.Email,
				BuyerPhone:  b.Phone,
				PurchasedAt: &now,
			}, nil
		},
	}

	svc := NewTicketService(repo, activeRaffleRepo())

	ticket, err := svc.Reserve(context.Background(), 1, 7, buyer)

	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusSold, ticket.Status)
	assert.Equal(t, "Ana", ticket.BuyerName)
	assert.NotNil(t, ticket.PurchasedAt)
}

func TestTicketService_Reserve_Taken(t *testing.T) {
	repo := &mockTicketRepository{
		reserve: func(ctx context.Context, raffleID uint, number int, buyer domain.Buyer) (domain.Ticket, error) {
			return domain.Ticket{}, ErrTicketTaken
		},
	}

	svc := NewTicketService(repo, activeRaffleRepo())

	_, err := svc.Reserve(context.Background(), 1, 7, domain.Buyer{Name: "Ana", Email: "ana@example.com", Phone: "1234567890"})

	assert.ErrorIs(t, err, ErrTicketTaken, "the loser of the race gets an explicit rejection")
}

func TestTicketService_Reserve_RaffleNotActive(t *testing.T) {
	raffleRepo := &mockTicketRaffleRepository{
		findByID: func(ctx context.Context, id uint) (domain.Raffle, error) {
			return domain.Raffle{ID: id, Status: domain.RaffleStatusClosed}, nil
		},
	}

	svc := NewTicketService(&mockTicketRepository{}, raffleRepo)

	_, err := svc.Reserve(context.Background(), 1, 7, domain.Buyer{Name: "Ana", Email: "ana@example.com", Phone: "1234567890"})

	assert.ErrorIs(t, err, ErrRaffleNotActive)
}

func TestTicketService_Reserve_RaffleNotFound(t *testing.T) {
	raffleRepo := &mockTicketRaffleRepository{
		findByID: func(ctx context.Context, id uint) (domain.Raffle, error) {
			return domain.Raffle{}, ErrRaffleNotFound
		},
	}

	svc := NewTicketService(&mockTicketRepository{}, raffleRepo)

	_, err := svc.Reserve(context.Background(), 99, 7, domain.Buyer{Name: "Ana", Email: "ana@example.com", Phone: "1234567890"})

	assert.ErrorIs(t, err, ErrRaffleNotFound)
}

func TestTicketService_ExportBuyers(t *testing.T) {
	purchased := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	repo := &mockTicketRepository{
		findSoldByRaffleID: func(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
			return []domain.Ticket{
				{
					RaffleID:    raffleID,
					Number:      1,
					Status:      domain.TicketStatusSold,
					BuyerName:   "Ana",
					BuyerEmail:  "ana@example.com",
					BuyerPhone:  "1234567890",
					PurchasedAt: &purchased,
				},
			}, nil
		},
	}

	svc := NewTicketService(repo, activeRaffleRepo())

	var buf bytes.Buffer
	err := svc.ExportBuyers(context.Background(), 1, &buf)

	require.NoError(t, err)
	want := "Number,Name,Email,Phone,Purchase Date\n" +
		"1,Ana,ana@example.com,1234567890,2026-03-14T15:09:26Z\n"
	assert.Equal(t, want, buf.String())
}

func TestTicketService_ExportBuyers_NoSales(t *testing.T) {
	repo := &mockTicketRepository{
		findSoldByRaffleID: func(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
			return nil, nil
		},
	}

	svc := NewTicketService(repo, activeRaffleRepo())

	var buf bytes.Buffer
	err := svc.ExportBuyers(context.Background(), 1, &buf)

	require.NoError(t, err)
	assert.Equal(t, "Number,Name,Email,Phone,Purchase Date\n", buf.String(), "header only")
}
