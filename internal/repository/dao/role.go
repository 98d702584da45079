package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRoleNotFound  = errors.New("role not found")
	ErrRoleProtected = errors.New("role is protected")
)

type UserRole struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"uniqueIndex;not null"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Role               string `gorm:"not null"` // "admin" or "super_admin"
	MustChangePassword bool   `gorm:"not null;default:true"`
	Protected          bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
}

type RoleDAO struct {
	db *gorm.DB
}

func NewRoleDAO(db *gorm.DB) *RoleDAO {
	return &RoleDAO{
		db: db,
	}
}

// InsertAdmin creates the auth user and its role row in one transaction.
func (d *RoleDAO) InsertAdmin(ctx context.Context, user User, role UserRole) (UserRole, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(&user); result.Error != nil {
			return result.Error
		}

		role.UserID = user.ID
		if result := tx.Create(&role); result.Error != nil {
			return result.Error
		}

		return nil
	})
	if err != nil {
		return UserRole{}, err
	}

	role.User = user

	return role, nil
}

func (d *RoleDAO) FindByUserID(ctx context.Context, userID uint) (UserRole, error) {
	var role UserRole

	result := d.db.WithContext(ctx).First(&role, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return UserRole{}, ErrRoleNotFound
		}

		return UserRole{}, result.Error
	}

	return role, nil
}

func (d *RoleDAO) FindAll(ctx context.Context) ([]UserRole, error) {
	var roles []UserRole

	result := d.db.WithContext(ctx).Preload("User").Order("created_at ASC").Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

// Upsert updates the user's role row if one exists, inserts one otherwise.
// The update is guarded by protected = false at the statement level, so a
// protected row can never be demoted regardless of the caller.
func (d *RoleDAO) Upsert(ctx context.Context, userID uint, role string) (UserRole, error) {
	var out UserRole

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&UserRole{}).
			Where("user_id = ? AND protected = ?", userID, false).
			Update("role", role)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			var existing UserRole
			err := tx.First(&existing, "user_id = ?", userID).Error
			switch {
			case err == nil:
				// Row exists but the guard refused it.
				return ErrRoleProtected
			case errors.Is(err, gorm.ErrRecordNotFound):
				out = UserRole{UserID: userID, Role: role, MustChangePassword: false}
				return tx.Create(&out).Error
			default:
				return err
			}
		}

		return tx.First(&out, "user_id = ?", userID).Error
	})
	if err != nil {
		return UserRole{}, err
	}

	return out, nil
}

// Delete removes the user's role row. The statement is guarded by
// protected = false; a zero-row outcome is disambiguated into "protected"
// or "not found".
func (d *RoleDAO) Delete(ctx context.Context, userID uint) error {
	result := d.db.WithContext(ctx).
		Where("user_id = ? AND protected = ?", userID, false).
		Delete(&UserRole{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var existing UserRole
		err := d.db.WithContext(ctx).First(&existing, "user_id = ?", userID).Error
		if err == nil {
			return ErrRoleProtected
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}

		return err
	}

	return nil
}
