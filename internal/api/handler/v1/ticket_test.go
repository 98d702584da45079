package v1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/service"
)

type mockTicketService struct {
	listTickets  func(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	reserve      func(ctx context.Context, raffleID uint, number int, buyer domain.Buyer) (domain.Ticket, error)
	exportBuyers func(ctx context.Context, raffleID uint, w io.Writer) error
}

func (m *mockTicketService) ListTickets(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	return m.listTickets(ctx, raffleID)
}

func (m *mockTicketService) Reserve(ctx context.Context, raffleID uint, number int, buyer domain.Buyer) (domain.Ticket, error) {
	return m.reserve(ctx, raffleID, number, buyer)
}

func (m *mockTicketService) ExportBuyers(ctx context.Context, raffleID uint, w io.Writer) error {
	return m.exportBuyers(ctx, raffleID, w)
}

func newTicketRouter(svc TicketService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	feed := NewTicketFeed()
	go feed.Run()

	handler := NewTicketHandler(svc, feed)

	router := gin.New()
	router.GET("/api/v1/raffles/:raffleID/tickets", handler.HandleListTickets)
	router.POST("/api/v1/raffles/:raffleID/tickets/:number/reserve", handler.HandleReserveTicket)

	return router
}

func TestTicketHandler_HandleListTickets_RedactsBuyers(t *testing.T) {
	svc := &mockTicketService{
		listTickets: func(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
			return []domain.Ticket{
				{RaffleID: raffleID, Number: 1, Status: domain.TicketStatusSold, BuyerName: "Ana", BuyerEmail: "ana@example.com", BuyerPhone: "1234567890"},
				{RaffleID: raffleID, Number: 2, Status: domain.TicketStatusFree},
			}, nil
		},
	}

	router := newTicketRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/raffles/1/tickets", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var tickets []domain.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tickets))
	require.Len(t, tickets, 2)
	assert.Equal(t, domain.TicketStatusSold, tickets[0].Status)
	assert.Empty(t, tickets[0].BuyerName, "buyer details stay private")
	assert.Empty(t, tickets[0].BuyerEmail)
	assert.Empty(t, tickets[0].BuyerPhone)
}

func TestTicketHandler_HandleReserveTicket(t *testing.T) {
	body := `{"name":"Ana","email":"ana@example.com","phone":"(123) 456-7890"}`

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantCode   int
	}{
		{name: "reserved", body: body, wantCode: http.StatusOK},
		{name: "already taken", body: body, serviceErr: service.ErrTicketTaken, wantCode: http.StatusConflict},
		{name: "raffle closed", body: body, serviceErr: service.ErrRaffleNotActive, wantCode: http.StatusConflict},
		{name: "unknown ticket", body: body, serviceErr: service.ErrTicketNotFound, wantCode: http.StatusNotFound},
		{name: "invalid buyer", body: `{"name":"A","email":"nope","phone":"1"}`, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTicketService{
				reserve: func(ctx context.Context, raffleID uint, number int, buyer domain.Buyer) (domain.Ticket, error) {
					if tt.serviceErr != nil {
						return domain.Ticket{}, tt.serviceErr
					}

					assert.Equal(t, "1234567890", buyer.Phone, "phone arrives normalized")

					return domain.Ticket{
						RaffleID:   raffleID,
						Number:     number,
						Status:     domain.TicketStatusSold,
						BuyerName:  buyer.Name,
						BuyerEmail: buyer.Email,
						BuyerPhone: buyer.Phone,
					}, nil
				},
			}

			router := newTicketRouter(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/raffles/1/tickets/7/reserve", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestTicketHandler_HandleReserveTicket_BadNumber(t *testing.T) {
	router := newTicketRouter(&mockTicketService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/raffles/1/tickets/zero/reserve", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
