package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edcastillob/rifas/internal/api/handler/v1/response"
	"github.com/edcastillob/rifas/internal/api/middleware"
	"github.com/edcastillob/rifas/internal/domain"
)

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func userIDFromContext(ctx *gin.Context) (uint, *response.Err) {
	userID := ctx.GetUint(middleware.CtxKeyUserID)
	if userID == 0 {
		return 0, response.ErrUnauthorized(errors.New("not authenticated"))
	}

	return userID, nil
}

func identityFromContext(ctx *gin.Context) (domain.Identity, *response.Err) {
	value, ok := ctx.Get(middleware.CtxKeyIdentity)
	if !ok {
		return domain.Identity{}, response.ErrUnauthorized(errors.New("not authenticated"))
	}

	identity, ok := value.(domain.Identity)
	if !ok {
		return domain.Identity{}, response.ErrInternalServerError(errors.New("malformed identity in context"))
	}

	return identity, nil
}
