package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edcastillob/rifas/internal/api/handler/v1/response"
	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/service"
)

type RaffleService interface {
	ListActive(ctx context.Context) ([]domain.Raffle, error)
	ListAll(ctx context.Context) ([]domain.Raffle, error)
	GetRaffle(ctx context.Context, id uint) (domain.Raffle, error)
	CreateRaffle(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	UpdateRaffle(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	DeleteRaffle(ctx context.Context, id uint) error
	DrawWinner(ctx context.Context, raffleID uint) (domain.Raffle, error)
}

// RaffleHandler serves the public catalog.
type RaffleHandler struct {
	svc       RaffleService
	ticketSvc TicketService
}

func NewRaffleHandler(svc RaffleService, ticketSvc TicketService) *RaffleHandler {
	return &RaffleHandler{
		svc:       svc,
		ticketSvc: ticketSvc,
	}
}

// HandleListActiveRaffles godoc
// @Summary      List active raffles
// @Tags         raffles
// @Produce      json
// @Success      200  {array}   domain.Raffle
// @Failure      500  {object}  response.Err
// @Router       /raffles [get]
func (h *RaffleHandler) HandleListActiveRaffles(ctx *gin.Context) {
	raffles, err := h.svc.ListActive(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListActiveRaffles -> h.svc.ListActive -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, raffles)
}

// HandleGetRaffle godoc
// @Summary      Get one raffle with its sales counters
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      200  {object}  response.RaffleDetail
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID} [get]
func (h *RaffleHandler) HandleGetRaffle(ctx *gin.Context) {
	raffleID, respErr := parseRaffleID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	raffle, err := h.svc.GetRaffle(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "id", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRaffle -> h.svc.GetRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	tickets, err := h.ticketSvc.ListTickets(ctx.Request.Context(), raffleID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetRaffle -> h.ticketSvc.ListTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewRaffleDetail(raffle, tickets))
}

func parseRaffleID(ctx *gin.Context) (uint, *response.Err) {
	raffleID, err := strconv.ParseUint(ctx.Param("raffleID"), 10, 32)
	if err != nil || raffleID == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid raffle ID %q", ctx.Param("raffleID")))
	}

	return uint(raffleID), nil
}
