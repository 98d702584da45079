package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReserveTicketRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ReserveTicketRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  ReserveTicketRequest{Name: "Ana", Email: "ana@example.com", Phone: "1234567890"},
		},
		{
			name: "formatted phone normalizes to 10 digits",
			req:  ReserveTicketRequest{Name: "Ana", Email: "ana@example.com", Phone: "(123) 456-7890"},
		},
		{
			name:    "missing name",
			req:     ReserveTicketRequest{Email: "ana@example.com", Phone: "1234567890"},
			wantErr: true,
		},
		{
			name:    "single character name",
			req:     ReserveTicketRequest{Name: "A", Email: "ana@example.com", Phone: "1234567890"},
			wantErr: true,
		},
		{
			name:    "email without domain",
			req:     ReserveTicketRequest{Name: "Ana", Email: "ana@", Phone: "1234567890"},
			wantErr: true,
		},
		{
			name:    "short phone",
			req:     ReserveTicketRequest{Name: "Ana", Email: "ana@example.com", Phone: "12345"},
			wantErr: true,
		},
		{
			name:    "long phone",
			req:     ReserveTicketRequest{Name: "Ana", Email: "ana@example.com", Phone: "12345678901"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestReserveTicketRequest_NormalizedPhone(t *testing.T) {
	req := ReserveTicketRequest{Phone: "+1 (23) 45-67.890"}

	assert.Equal(t, "1234567890", req.NormalizedPhone())
}
