package repository

import (
	"context"
	"fmt"

	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/repository/dao"
)

var (
	ErrRoleNotFound  = dao.ErrRoleNotFound
	ErrRoleProtected = dao.ErrRoleProtected
)

type RoleDAO interface {
	InsertAdmin(ctx context.Context, user dao.User, role dao.UserRole) (dao.UserRole, error)
	FindByUserID(ctx context.Context, userID uint) (dao.UserRole, error)
	FindAll(ctx context.Context) ([]dao.UserRole, error)
	Upsert(ctx context.Context, userID uint, role string) (dao.UserRole, error)
	Delete(ctx context.Context, userID uint) error
}

type RoleRepository struct {
	dao RoleDAO
}

func NewRoleRepository(dao RoleDAO) *RoleRepository {
	return &RoleRepository{
		dao: dao,
	}
}

// CreateAdmin creates the auth user and its admin role row together. New
// admins always start with must_change_password = true.
func (r *RoleRepository) CreateAdmin(ctx context.Context, user domain.User) (domain.UserRole, error) {
	created, err := r.dao.InsertAdmin(ctx,
		dao.User{
			Email:    user.Email,
			Password: user.Password,
		},
		dao.UserRole{
			Role:               string(domain.RoleAdmin),
			MustChangePassword: true,
		},
	)
	if err != nil {
		return domain.UserRole{}, fmt.Errorf("r.dao.InsertAdmin -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RoleRepository) FindByUserID(ctx context.Context, userID uint) (domain.UserRole, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return domain.UserRole{}, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RoleRepository) FindAll(ctx context.Context) ([]domain.UserRole, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	roles := make([]domain.UserRole, 0, len(found))
	for _, role := range found {
		roles = append(roles, r.daoToDomain(role))
	}

	return roles, nil
}

func (r *RoleRepository) Upsert(ctx context.Context, userID uint, role domain.Role) (domain.UserRole, error) {
	updated, err := r.dao.Upsert(ctx, userID, string(role))
	if err != nil {
		return domain.UserRole{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *RoleRepository) Delete(ctx context.Context, userID uint) error {
	if err := r.dao.Delete(ctx, userID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *RoleRepository) daoToDomain(role dao.UserRole) domain.UserRole {
	return domain.UserRole{
		ID:                 role.ID,
		UserID:             role.UserID,
		Email:              role.User.Email,
		Role:               domain.Role(role.Role),
		MustChangePassword: role.MustChangePassword,
		Protected:          role.Protected,
		CreatedAt:          role.CreatedAt,
	}
}
