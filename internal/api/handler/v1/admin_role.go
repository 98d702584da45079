package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edcastillob/rifas/internal/api/handler/v1/request"
	"github.com/edcastillob/rifas/internal/api/handler/v1/response"
	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/service"
)

type AdminManagementService interface {
	ListAdmins(ctx context.Context) ([]domain.UserRole, error)
	CreateAdmin(ctx context.Context, email, password string) (domain.UserRole, error)
	SetRole(ctx context.Context, userID uint, role domain.Role) (domain.UserRole, error)
	RevokeRole(ctx context.Context, userID uint) error
}

// AdminRoleHandler serves the super admin surface: listing, granting,
// changing and revoking admin roles.
type AdminRoleHandler struct {
	svc AdminManagementService
}

func NewAdminRoleHandler(svc AdminManagementService) *AdminRoleHandler {
	return &AdminRoleHandler{
		svc: svc,
	}
}

// HandleListAdmins godoc
// @Summary      List all admin role assignments
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.UserRole
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users [get]
// @Security BearerAuth
func (h *AdminRoleHandler) HandleListAdmins(ctx *gin.Context) {
	admins, err := h.svc.ListAdmins(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListAdmins -> h.svc.ListAdmins -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, admins)
}

// HandleCreateAdmin godoc
// @Summary      Create an admin account
// @Description  The new admin must change the provisional password on
// @Description  first login.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateAdminRequest true "admin"
// @Success      201  {object}  domain.UserRole
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users [post]
// @Security BearerAuth
func (h *AdminRoleHandler) HandleCreateAdmin(ctx *gin.Context) {
	req := request.CreateAdminRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	admin, err := h.svc.CreateAdmin(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUserEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleCreateAdmin -> h.svc.CreateAdmin -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, admin)
}

// HandleSetRole godoc
// @Summary      Set the role of a user
// @Description  Protected assignments cannot be changed.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userID   path      int  true  "User ID"
// @Param        request  body      request.SetRoleRequest true "role"
// @Success      200  {object}  domain.UserRole
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users/{userID}/role [put]
// @Security BearerAuth
func (h *AdminRoleHandler) HandleSetRole(ctx *gin.Context) {
	userID, respErr := parseUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.SetRoleRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := h.svc.SetRole(ctx.Request.Context(), userID, domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, service.ErrRoleProtected) {
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrRoleProtected))
			return
		}

		err = fmt.Errorf("v1.HandleSetRole -> h.svc.SetRole -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, role)
}

// HandleRevokeRole godoc
// @Summary      Revoke a user's role
// @Description  Protected assignments cannot be revoked.
// @Tags         admin
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users/{userID}/role [delete]
// @Security BearerAuth
func (h *AdminRoleHandler) HandleRevokeRole(ctx *gin.Context) {
	userID, respErr := parseUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.RevokeRole(ctx.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("role", "user_id", userID))
		case errors.Is(err, service.ErrRoleProtected):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrRoleProtected))
		default:
			err = fmt.Errorf("v1.HandleRevokeRole -> h.svc.RevokeRole -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "role revoked"})
}

func parseUserID(ctx *gin.Context) (uint, *response.Err) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid user id: %w", err))
	}

	return uint(userID), nil
}
