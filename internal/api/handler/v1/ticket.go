package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edcastillob/rifas/internal/api/handler/v1/request"
	"github.com/edcastillob/rifas/internal/api/handler/v1/response"
	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/service"
)

type TicketService interface {
	ListTickets(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	Reserve(ctx context.Context, raffleID uint, number int, buyer domain.Buyer) (domain.Ticket, error)
	ExportBuyers(ctx context.Context, raffleID uint, w io.Writer) error
}

// TicketHandler serves the public ticket grid and the reservation flow.
type TicketHandler struct {
	svc  TicketService
	feed *TicketFeed
}

func NewTicketHandler(svc TicketService, feed *TicketFeed) *TicketHandler {
	return &TicketHandler{
		svc:  svc,
		feed: feed,
	}
}

// HandleListTickets godoc
// @Summary      List all tickets of a raffle
// @Description  Buyer contact details are redacted on this public surface.
// @Tags         tickets
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      200  {array}   domain.Ticket
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/tickets [get]
func (h *TicketHandler) HandleListTickets(ctx *gin.Context) {
	raffleID, respErr := parseRaffleID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tickets, err := h.svc.ListTickets(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "id", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleListTickets -> h.svc.ListTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	redacted := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		redacted = append(redacted, t.Redacted())
	}

	ctx.JSON(http.StatusOK, redacted)
}

// HandleReserveTicket godoc
// @Summary      Reserve one ticket
// @Description  Flips the ticket from free to sold with the buyer's details.
// @Description  Losing a race against a concurrent buyer yields 409, never a
// @Description  false success.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Param        number    path      int  true  "Ticket number"
// @Param        request   body      request.ReserveTicketRequest true "buyer details"
// @Success      200  {object}  response.ReservationResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/tickets/{number}/reserve [post]
func (h *TicketHandler) HandleReserveTicket(ctx *gin.Context) {
	raffleID, respErr := parseRaffleID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil || number < 1 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ticket number %q", ctx.Param("number"))))
		return
	}

	req := request.ReserveTicketRequest{}
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	buyer := domain.Buyer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.NormalizedPhone(),
	}

	ticket, err := h.svc.Reserve(ctx.Request.Context(), raffleID, number, buyer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("raffle", "id", raffleID))
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "number", number))
		case errors.Is(err, service.ErrTicketTaken):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTicketTaken))
		case errors.Is(err, service.ErrRaffleNotActive):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRaffleNotActive))
		default:
			err = fmt.Errorf("v1.HandleReserveTicket -> h.svc.Reserve -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	// Advisory freshness for other viewers of the same grid.
	h.feed.Publish(raffleID, ticket.Redacted())

	ctx.JSON(http.StatusOK, response.NewReservationResponse(ticket))
}
