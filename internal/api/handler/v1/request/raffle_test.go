package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validCreate() CreateRaffleRequest {
	return CreateRaffleRequest{
		Name:        "end of year",
		Price:       5.50,
		TicketCount: 100,
		Description: "grand prize draw",
		Date:        time.Now().AddDate(0, 1, 0).Format(dateLayout),
		Time:        "18:00",
	}
}

func TestCreateRaffleRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := validCreate()

		assert.NoError(t, req.Validate())
	})

	t.Run("today is not past", func(t *testing.T) {
		req := validCreate()
		req.Date = time.Now().Format(dateLayout)

		assert.NoError(t, req.Validate())
	})

	t.Run("past date", func(t *testing.T) {
		req := validCreate()
		req.Date = "2020-01-01"

		assert.ErrorIs(t, req.Validate(), errPastDate)
	})

	t.Run("malformed date", func(t *testing.T) {
		req := validCreate()
		req.Date = "24/12/2026"

		assert.Error(t, req.Validate())
	})

	t.Run("malformed time", func(t *testing.T) {
		req := validCreate()
		req.Time = "6pm"

		assert.Error(t, req.Validate())
	})

	t.Run("zero tickets", func(t *testing.T) {
		req := validCreate()
		req.TicketCount = 0

		assert.Error(t, req.Validate())
	})

	t.Run("free raffle", func(t *testing.T) {
		req := validCreate()
		req.Price = 0

		assert.Error(t, req.Validate())
	})
}

func TestCreateRaffleRequest_ParsedDate(t *testing.T) {
	req := validCreate()
	req.Date = "2026-12-24"

	assert.Equal(t, time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC), req.ParsedDate())
}

func TestUpdateRaffleRequest_Validate(t *testing.T) {
	valid := UpdateRaffleRequest{
		Name:        "end of year",
		Price:       5.50,
		Description: "grand prize draw",
		Date:        "2026-12-24",
		Time:        "18:00",
		Status:      "closed",
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("unknown status", func(t *testing.T) {
		req := valid
		req.Status = "archived"

		assert.Error(t, req.Validate())
	})
}
