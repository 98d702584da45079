package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not construct pool: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("could not connect to Docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=raffles_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start resource: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%s user=test password=test dbname=raffles_test sslmode=disable", resource.GetPort("5432/tcp"))

	pool.MaxWait = 2 * time.Minute
	if err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}

		testDB = db
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge resource: %v", err)
	}

	os.Exit(code)
}

func createTestRaffle(t *testing.T, ticketCount int) Raffle {
	t.Helper()

	raffle, err := NewRaffleDAO(testDB).InsertWithTickets(context.Background(), Raffle{
		Name:        fmt.Sprintf("raffle %d", time.Now().UnixNano()),
		Price:       5,
		TicketCount: ticketCount,
		Description: "integration fixture",
		Date:        time.Now().AddDate(0, 1, 0),
		Time:        "18:00",
		Status:      "active",
	})
	require.NoError(t, err)

	return raffle
}

func TestRaffleDAO_InsertWithTickets(t *testing.T) {
	raffle := createTestRaffle(t, 25)

	tickets, err := NewTicketDAO(testDB).FindByRaffleID(context.Background(), raffle.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 25)

	for i, ticket := range tickets {
		assert.Equal(t, i+1, ticket.Number, "tickets are numbered 1..N in order")
		assert.Equal(t, "free", ticket.Status)
	}
}

func TestTicketDAO_Reserve(t *testing.T) {
	raffle := createTestRaffle(t, 10)
	ticketDAO := NewTicketDAO(testDB)

	ticket, err := ticketDAO.Reserve(context.Background(), raffle.ID, 3, "Ana", "ana@example.com", "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "sold", ticket.Status)
	assert.Equal(t, "Ana", ticket.BuyerName)
	require.NotNil(t, ticket.PurchasedAt)

	t.Run("already taken", func(t *testing.T) {
		_, err := ticketDAO.Reserve(context.Background(), raffle.ID, 3, "Bob", "bob@example.com", "0987654321")
		assert.ErrorIs(t, err, ErrTicketTaken)

		kept, err := ticketDAO.FindByNumber(context.Background(), raffle.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, "Ana", kept.BuyerName, "the first buyer keeps the ticket")
	})

	t.Run("unknown number", func(t *testing.T) {
		_, err := ticketDAO.Reserve(context.Background(), raffle.ID, 999, "Bob", "bob@example.com", "0987654321")
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestTicketDAO_Reserve_Concurrent(t *testing.T) {
	raffle := createTestRaffle(t, 5)
	ticketDAO := NewTicketDAO(testDB)

	const contenders = 8

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ticketDAO.Reserve(context.Background(), raffle.ID, 1,
				fmt.Sprintf("Buyer %d", i), fmt.Sprintf("buyer%d@example.com", i), "1234567890")
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrTicketTaken)
		}
	}

	assert.Equal(t, 1, won, "exactly one contender wins the ticket")
}

func TestRaffleDAO_SetWinner(t *testing.T) {
	raffle := createTestRaffle(t, 10)
	raffleDAO := NewRaffleDAO(testDB)

	t.Run("active raffle refuses the draw", func(t *testing.T) {
		_, err := raffleDAO.SetWinner(context.Background(), raffle.ID, 3)
		assert.ErrorIs(t, err, ErrRaffleNotClosed)
	})

	raffle.Status = "closed"
	_, err := raffleDAO.Update(context.Background(), raffle)
	require.NoError(t, err)

	finalized, err := raffleDAO.SetWinner(context.Background(), raffle.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, "finalized", finalized.Status)
	require.NotNil(t, finalized.WinnerNumber)
	assert.Equal(t, 3, *finalized.WinnerNumber)

	t.Run("second draw refused", func(t *testing.T) {
		_, err := raffleDAO.SetWinner(context.Background(), raffle.ID, 7)
		assert.ErrorIs(t, err, ErrRaffleNotClosed)

		kept, err := raffleDAO.FindByID(context.Background(), raffle.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, *kept.WinnerNumber, "the first winner stands")
	})
}

func TestRaffleDAO_Delete(t *testing.T) {
	raffle := createTestRaffle(t, 5)
	raffleDAO := NewRaffleDAO(testDB)

	require.NoError(t, raffleDAO.Delete(context.Background(), raffle.ID))

	tickets, err := NewTicketDAO(testDB).FindByRaffleID(context.Background(), raffle.ID)
	require.NoError(t, err)
	assert.Empty(t, tickets, "tickets are removed with the raffle")

	assert.ErrorIs(t, raffleDAO.Delete(context.Background(), raffle.ID), ErrRaffleNotFound)
}

func TestRoleDAO_ProtectedRow(t *testing.T) {
	require.NoError(t, SeedSuperAdmin(testDB, "owner@example.com", "ownersecret1"))

	userDAO := NewUserDAO(testDB)
	owner, err := userDAO.FindByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)

	roleDAO := NewRoleDAO(testDB)

	t.Run("seeding is idempotent", func(t *testing.T) {
		require.NoError(t, SeedSuperAdmin(testDB, "owner@example.com", "ownersecret1"))

		again, err := userDAO.FindByEmail(context.Background(), "owner@example.com")
		require.NoError(t, err)
		assert.Equal(t, owner.ID, again.ID)
	})

	t.Run("cannot demote", func(t *testing.T) {
		_, err := roleDAO.Upsert(context.Background(), owner.ID, "admin")
		assert.ErrorIs(t, err, ErrRoleProtected)
	})

	t.Run("cannot delete", func(t *testing.T) {
		assert.ErrorIs(t, roleDAO.Delete(context.Background(), owner.ID), ErrRoleProtected)

		role, err := roleDAO.FindByUserID(context.Background(), owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "super_admin", role.Role)
		assert.True(t, role.Protected)
	})
}

func TestRoleDAO_PlainAdminLifecycle(t *testing.T) {
	roleDAO := NewRoleDAO(testDB)

	created, err := roleDAO.InsertAdmin(context.Background(),
		User{Email: "helper@example.com", Password: "irrelevant-hash"},
		UserRole{Role: "admin", MustChangePassword: true},
	)
	require.NoError(t, err)
	assert.True(t, created.MustChangePassword)

	promoted, err := roleDAO.Upsert(context.Background(), created.UserID, "super_admin")
	require.NoError(t, err)
	assert.Equal(t, "super_admin", promoted.Role)

	require.NoError(t, roleDAO.Delete(context.Background(), created.UserID))
	_, err = roleDAO.FindByUserID(context.Background(), created.UserID)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestUserDAO_UpdatePassword(t *testing.T) {
	roleDAO := NewRoleDAO(testDB)
	userDAO := NewUserDAO(testDB)

	created, err := roleDAO.InsertAdmin(context.Background(),
		User{Email: "rotating@example.com", Password: "provisional-hash"},
		UserRole{Role: "admin", MustChangePassword: true},
	)
	require.NoError(t, err)

	require.NoError(t, userDAO.UpdatePassword(context.Background(), created.UserID, "rotated-hash"))

	user, err := userDAO.FindByID(context.Background(), created.UserID)
	require.NoError(t, err)
	assert.Equal(t, "rotated-hash", user.Password)

	role, err := roleDAO.FindByUserID(context.Background(), created.UserID)
	require.NoError(t, err)
	assert.False(t, role.MustChangePassword, "flag clears with the password write")

	t.Run("unknown user", func(t *testing.T) {
		assert.ErrorIs(t, userDAO.UpdatePassword(context.Background(), 999999, "hash"), ErrUserNotFound)
	})
}

func TestUserDAO_Insert_DuplicateEmail(t *testing.T) {
	userDAO := NewUserDAO(testDB)

	_, err := userDAO.Insert(context.Background(), User{Email: "dup@example.com", Password: "hash"})
	require.NoError(t, err)

	_, err = userDAO.Insert(context.Background(), User{Email: "dup@example.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}
