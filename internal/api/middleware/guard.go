package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/edcastillob/rifas/internal/api/handler/v1/response"
	"github.com/edcastillob/rifas/internal/domain"
)

// CtxKeyIdentity is the gin context key holding the resolved identity.
const CtxKeyIdentity = "identity"

type IdentityResolver interface {
	Resolve(ctx context.Context, userID uint) (domain.Identity, error)
}

// AuthGuard gates routes on the caller's role projection. The identity is
// re-resolved from the role table on every request; there is no cached
// session state.
type AuthGuard struct {
	identities IdentityResolver
}

func NewAuthGuard(identities IdentityResolver) *AuthGuard {
	return &AuthGuard{
		identities: identities,
	}
}

// RequireAdmin admits admins and super admins. An admin who still has to
// change their password is rejected until they do.
func (g *AuthGuard) RequireAdmin() gin.HandlerFunc {
	return g.require(func(identity domain.Identity) *response.Err {
		if !identity.IsAdmin() {
			return response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", identity.User.ID))
		}

		if identity.MustChangePassword {
			return response.ErrPasswordChangeRequired()
		}

		return nil
	})
}

func (g *AuthGuard) RequireSuperAdmin() gin.HandlerFunc {
	return g.require(func(identity domain.Identity) *response.Err {
		if !identity.IsSuperAdmin() {
			return response.ErrPermissionDenied(fmt.Errorf("user %v is not a super admin", identity.User.ID))
		}

		if identity.MustChangePassword {
			return response.ErrPasswordChangeRequired()
		}

		return nil
	})
}

func (g *AuthGuard) require(check func(domain.Identity) *response.Err) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetUint(CtxKeyUserID)
		if userID == 0 {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("not authenticated")))
			ctx.Abort()
			return
		}

		identity, err := g.identities.Resolve(ctx.Request.Context(), userID)
		if err != nil {
			response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("g.identities.Resolve -> %w", err)))
			ctx.Abort()
			return
		}

		if respErr := check(identity); respErr != nil {
			response.RenderErr(ctx, respErr)
			ctx.Abort()
			return
		}

		ctx.Set(CtxKeyIdentity, identity)
		ctx.Next()
	}
}
