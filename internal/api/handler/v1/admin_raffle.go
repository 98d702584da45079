package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edcastillob/rifas/internal/api/handler/v1/request"
	"github.com/edcastillob/rifas/internal/api/handler/v1/response"
	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/service"
)

// AdminRaffleHandler serves the admin console surface for raffles: CRUD,
// winner draw, and the buyer export.
type AdminRaffleHandler struct {
	svc       RaffleService
	ticketSvc TicketService
}

func NewAdminRaffleHandler(svc RaffleService, ticketSvc TicketService) *AdminRaffleHandler {
	return &AdminRaffleHandler{
		svc:       svc,
		ticketSvc: ticketSvc,
	}
}

// HandleListRaffles godoc
// @Summary      List all raffles regardless of status
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.Raffle
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/raffles [get]
// @Security BearerAuth
func (h *AdminRaffleHandler) HandleListRaffles(ctx *gin.Context) {
	raffles, err := h.svc.ListAll(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListRaffles -> h.svc.ListAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, raffles)
}

// HandleCreateRaffle godoc
// @Summary      Create a raffle with its full ticket inventory
// @Description  Tickets 1..ticket_count are created free in the same
// @Description  transaction as the raffle.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateRaffleRequest true "raffle"
// @Success      201  {object}  domain.Raffle
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/raffles [post]
// @Security BearerAuth
func (h *AdminRaffleHandler) HandleCreateRaffle(ctx *gin.Context) {
	req := request.CreateRaffleRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	raffle, err := h.svc.CreateRaffle(ctx.Request.Context(), domain.Raffle{
		Name:        req.Name,
		Price:       req.Price,
		TicketCount: req.TicketCount,
		Description: req.Description,
		Date:        req.ParsedDate(),
		Time:        req.Time,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateRaffle -> h.svc.CreateRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, raffle)
}

// HandleUpdateRaffle godoc
// @Summary      Update a raffle
// @Description  The ticket count is immutable; status only moves forward.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Param        request   body      request.UpdateRaffleRequest true "raffle"
// @Success      200  {object}  domain.Raffle
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/raffles/{raffleID} [put]
// @Security BearerAuth
func (h *AdminRaffleHandler) HandleUpdateRaffle(ctx *gin.Context) {
	raffleID, respErr := parseRaffleID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.UpdateRaffleRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	raffle, err := h.svc.UpdateRaffle(ctx.Request.Context(), domain.Raffle{
		ID:          raffleID,
		Name:        req.Name,
		Price:       req.Price,
		TicketCount: req.TicketCount,
		Description: req.Description,
		Date:        req.ParsedDate(),
		Time:        req.Time,
		Status:      domain.RaffleStatus(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("raffle", "id", raffleID))
		case errors.Is(err, service.ErrTicketCountImmutable),
			errors.Is(err, service.ErrInvalidStatusTransition):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateRaffle -> h.svc.UpdateRaffle -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleDeleteRaffle godoc
// @Summary      Delete a raffle and its tickets
// @Tags         admin
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/raffles/{raffleID} [delete]
// @Security BearerAuth
func (h *AdminRaffleHandler) HandleDeleteRaffle(ctx *gin.Context) {
	raffleID, respErr := parseRaffleID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteRaffle(ctx.Request.Context(), raffleID); err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "id", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteRaffle -> h.svc.DeleteRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "raffle deleted"})
}

// HandleDrawWinner godoc
// @Summary      Draw the winner of a closed raffle
// @Description  Picks one sold ticket uniformly at random and finalizes the
// @Description  raffle in the same conditional update.
// @Tags         admin
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      200  {object}  domain.Raffle
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/raffles/{raffleID}/winner [post]
// @Security BearerAuth
func (h *AdminRaffleHandler) HandleDrawWinner(ctx *gin.Context) {
	raffleID, respErr := parseRaffleID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	raffle, err := h.svc.DrawWinner(ctx.Request.Context(), raffleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("raffle", "id", raffleID))
		case errors.Is(err, service.ErrNoTicketsSold):
			response.RenderErr(ctx, response.ErrConflict(service.ErrNoTicketsSold))
		case errors.Is(err, service.ErrRaffleNotClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRaffleNotClosed))
		default:
			err = fmt.Errorf("v1.HandleDrawWinner -> h.svc.DrawWinner -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleExportBuyers godoc
// @Summary      Export the sold tickets of a raffle as CSV
// @Tags         admin
// @Produce      text/csv
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      200  {string}  string  "CSV content"
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/raffles/{raffleID}/buyers.csv [get]
// @Security BearerAuth
func (h *AdminRaffleHandler) HandleExportBuyers(ctx *gin.Context) {
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

		err = fmt.Errorf("v1.HandleExportBuyers -> h.svc.GetRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "raffle-"+raffle.Name+"-buyers.csv"))

	if err := h.ticketSvc.ExportBuyers(ctx.Request.Context(), raffleID, ctx.Writer); err != nil {
		err = fmt.Errorf("v1.HandleExportBuyers -> h.ticketSvc.ExportBuyers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
}
