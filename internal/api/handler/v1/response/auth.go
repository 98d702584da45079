package response

import "github.com/edcastillob/rifas/internal/domain"

type LoginResponse struct {
	Token    string          `json:"token"`
	Identity domain.Identity `json:"identity"`
}
