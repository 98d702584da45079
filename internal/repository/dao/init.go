package dao

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserRole{},
		&Raffle{},
		&Ticket{},
	)
}

// SeedSuperAdmin provisions the distinguished super admin account on first
// boot. The role row is protected at the storage layer, so no role-management
// operation can demote or delete it. A no-op when the user already exists or
// no password is configured.
func SeedSuperAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing User
	err := db.First(&existing, "email = ?", email).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := User{Email: email, Password: string(hash)}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		role := UserRole{
			UserID:             user.ID,
			Role:               "super_admin",
			MustChangePassword: false,
			Protected:          true,
		}

		return tx.Create(&role).Error
	})
}
