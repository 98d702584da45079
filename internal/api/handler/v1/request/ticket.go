package request

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var phoneExp = regexp.MustCompile(`^[0-9]{10}$`)

type ReserveTicketRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NormalizedPhone strips every non-digit character from the submitted phone.
func (req *ReserveTicketRequest) NormalizedPhone() string {
	var b strings.Builder
	for _, r := range req.Phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func (req *ReserveTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Phone, validation.Required, validation.By(func(interface{}) error {
			return validation.Validate(req.NormalizedPhone(), validation.Match(phoneExp).Error("the phone must have exactly 10 digits"))
		})),
	)
}
