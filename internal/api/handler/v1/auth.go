package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edcastillob/rifas/internal/api/handler/v1/request"
	"github.com/edcastillob/rifas/internal/api/handler/v1/response"
	"github.com/edcastillob/rifas/internal/config"
	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/pkg/jwthelper"
	"github.com/edcastillob/rifas/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.User, error)
	ChangePassword(ctx context.Context, userID uint, newPassword string) error
}

type IdentityService interface {
	Resolve(ctx context.Context, userID uint) (domain.Identity, error)
}

type AuthHandler struct {
	conf       *config.APIConfig
	svc        AuthService
	identities IdentityService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, identities IdentityService) *AuthHandler {
	return &AuthHandler{
		conf:       conf,
		svc:        svc,
		identities: identities,
	}
}

// HandleLogin godoc
// @Summary      Login a user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	identity, err := h.identities.Resolve(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> h.identities.Resolve -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), user.ID, ctx.Request.UserAgent())
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:    token,
		Identity: identity,
	})
}

// HandleChangePassword godoc
// @Summary      Change the caller's password
// @Description  Stores the new password and clears the must-change-password flag.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.ChangePasswordRequest true "request body"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/change-password [post]
// @Security BearerAuth
func (h *AuthHandler) HandleChangePassword(ctx *gin.Context) {
	userID, respErr := userIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.ChangePasswordRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.ChangePassword(ctx.Request.Context(), userID, req.Password); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", userID))
			return
		}

		err = fmt.Errorf("v1.HandleChangePassword -> h.svc.ChangePassword -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
