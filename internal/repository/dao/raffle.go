package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRaffleNotFound  = errors.New("raffle not found")
	ErrRaffleNotClosed = errors.New("raffle is not closed")
)

type Raffle struct {
	ID uint `gorm:"primaryKey"`

	Name        string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	TicketCount int     `gorm:"not null"`
	Description string
	Date        time.Time `gorm:"not null"`
	Time        string    `gorm:"not null"`

	Status       string `gorm:"not null;default:active"` // "active", "closed", or "finalized"
	WinnerNumber *int

	Tickets []Ticket `gorm:"foreignKey:RaffleID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RaffleDAO struct {
	db *gorm.DB
}

func NewRaffleDAO(db *gorm.DB) *RaffleDAO {
	return &RaffleDAO{
		db: db,
	}
}

// InsertWithTickets creates the raffle and its full ticket inventory
// (numbers 1..TicketCount, all free) in a single transaction.
func (d *RaffleDAO) InsertWithTickets(ctx context.Context, raffle Raffle) (Raffle, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Omit("Tickets").Create(&raffle); result.Error != nil {
			return result.Error
		}

		tickets := make([]Ticket, raffle.TicketCount)
		for i := range tickets {
			tickets[i] = Ticket{
				RaffleID: raffle.ID,
				Number:   i + 1,
				Status:   "free",
			}
		}

		return tx.CreateInBatches(tickets, 500).Error
	})
	if err != nil {
		return Raffle{}, err
	}

	return raffle, nil
}

func (d *RaffleDAO) FindByID(ctx context.Context, id uint) (Raffle, error) {
	var raffle Raffle

	result := d.db.WithContext(ctx).First(&raffle, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Raffle{}, ErrRaffleNotFound
		}

		return Raffle{}, result.Error
	}

	return raffle, nil
}

func (d *RaffleDAO) FindByStatus(ctx context.Context, status string) ([]Raffle, error) {
	var raffles []Raffle

	result := d.db.WithContext(ctx).
		Where("status = ?", status).
		Order("date ASC").
		Find(&raffles)
	if result.Error != nil {
		return nil, result.Error
	}

	return raffles, nil
}

func (d *RaffleDAO) FindAll(ctx context.Context) ([]Raffle, error) {
	var raffles []Raffle

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&raffles)
	if result.Error != nil {
		return nil, result.Error
	}

	return raffles, nil
}

// Update writes the mutable raffle fields. TicketCount is deliberately not
// part of the column list.
func (d *RaffleDAO) Update(ctx context.Context, raffle Raffle) (Raffle, error) {
	result := d.db.WithContext(ctx).Model(&Raffle{}).
		Where("id = ?", raffle.ID).
		Select("name", "price", "description", "date", "time", "status").
		Updates(map[string]interface{}{
			"name":        raffle.Name,
			"price":       raffle.Price,
			"description": raffle.Description,
			"date":        raffle.Date,
			"time":        raffle.Time,
			"status":      raffle.Status,
		})
	if result.Error != nil {
		return Raffle{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Raffle{}, ErrRaffleNotFound
	}

	return d.FindByID(ctx, raffle.ID)
}

// SetWinner writes the winning number and flips the raffle to finalized in
// one conditional update guarded by status = closed. Zero affected rows means
// the raffle is missing, still active, or already finalized.
func (d *RaffleDAO) SetWinner(ctx context.Context, id uint, number int) (Raffle, error) {
	result := d.db.WithContext(ctx).Model(&Raffle{}).
		Where("id = ? AND status = ?", id, "closed").
		Updates(map[string]interface{}{
			"winner_number": number,
			"status":        "finalized",
		})
	if result.Error != nil {
		return Raffle{}, result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return Raffle{}, err
		}

		return Raffle{}, ErrRaffleNotClosed
	}

	return d.FindByID(ctx, id)
}

// Delete removes the raffle and, through its ticket transaction, the full
// inventory. The FK cascade covers tickets when enforced by the store; the
// explicit delete keeps the behavior independent of it.
func (d *RaffleDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("raffle_id = ?", id).Delete(&Ticket{}); result.Error != nil {
			return result.Error
		}

		result := tx.Delete(&Raffle{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRaffleNotFound
		}

		return nil
	})
}
