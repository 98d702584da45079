package request

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

const dateLayout = "2006-01-02"

var (
	timeRule = validation.Date("15:04")

	errPastDate = errors.New("the raffle date must not be in the past")
)

type CreateRaffleRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	TicketCount int     `json:"ticket_count"`
	Description string  `json:"description"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Time        string  `json:"time"` // HH:MM
}

func (req *CreateRaffleRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&req.TicketCount, validation.Required, validation.Min(1), validation.Max(10000)),
		validation.Field(&req.Description, validation.Required, validation.Length(0, 2000)),
		validation.Field(&req.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.Time, validation.Required, timeRule),
	)
	if err != nil {
		return err
	}

	return validateFutureDate(req.Date)
}

// ParsedDate is only valid after Validate has passed.
func (req *CreateRaffleRequest) ParsedDate() time.Time {
	date, _ := time.Parse(dateLayout, req.Date)

	return date
}

type UpdateRaffleRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	TicketCount int     `json:"ticket_count"` // must match the stored count when present
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Status      string  `json:"status"`
}

func (req *UpdateRaffleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&req.TicketCount, validation.Min(0)),
		validation.Field(&req.Description, validation.Required, validation.Length(0, 2000)),
		validation.Field(&req.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.Time, validation.Required, timeRule),
		validation.Field(&req.Status, validation.Required, validation.In("active", "closed", "finalized")),
	)
}

func (req *UpdateRaffleRequest) ParsedDate() time.Time {
	date, _ := time.Parse(dateLayout, req.Date)

	return date
}

func validateFutureDate(value string) error {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return fmt.Errorf("invalid date %q", value)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return errPastDate
	}

	return nil
}
