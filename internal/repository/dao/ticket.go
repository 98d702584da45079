package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketTaken    = errors.New("ticket already taken")
)

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	RaffleID uint `gorm:"not null;uniqueIndex:idx_tickets_raffle_number"`
	Number   int  `gorm:"not null;uniqueIndex:idx_tickets_raffle_number"`

	Status string `gorm:"not null;default:free"` // "free" or "sold"

	BuyerName   string
	BuyerEmail  string
	BuyerPhone  string
	PurchasedAt *time.Time
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

func (d *TicketDAO) FindByRaffleID(ctx context.Context, raffleID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ?", raffleID).
		Order("number ASC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) FindSoldByRaffleID(ctx context.Context, raffleID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ? AND status = ?", raffleID, "sold").
		Order("number ASC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) FindByNumber(ctx context.Context, raffleID uint, number int) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).
		First(&ticket, "raffle_id = ? AND number = ?", raffleID, number)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

// Reserve flips one ticket from free to sold with the buyer's details in a
// single conditional update. The affected-row count is the only concurrency
// control: zero rows means a concurrent buyer won the race (or the number
// does not exist, disambiguated by a follow-up read).
func (d *TicketDAO) Reserve(ctx context.Context, raffleID uint, number int, buyerName, buyerEmail, buyerPhone string) (Ticket, error) {
	now := time.Now()

	result := d.db.WithContext(ctx).Model(&Ticket{}).
		Where("raffle_id = ? AND number = ? AND status = ?", raffleID, number, "free").
		Updates(map[string]interface{}{
			"status":       "sold",
			"buyer_name":   buyerName,
			"buyer_email":  buyerEmail,
			"buyer_phone":  buyerPhone,
			"purchased_at": now,
		})
	if result.Error != nil {
		return Ticket{}, result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := d.FindByNumber(ctx, raffleID, number); err != nil {
			return Ticket{}, err
		}

		return Ticket{}, ErrTicketTaken
	}

	return d.FindByNumber(ctx, raffleID, number)
}
