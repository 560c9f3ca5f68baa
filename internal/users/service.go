package users

import (
	"context"
	"errors"

	"estates-backend/internal/models"
	"estates-backend/internal/store"

	"gorm.io/gorm"
)

// ErrAdminDelete rejects deletion of admin accounts through the directory.
var ErrAdminDelete = errors.New("Cannot delete admin users")

type Service struct {
	DB *gorm.DB
}

// List returns all non-admin accounts, newest first.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).
		Where("role <> ?", models.RoleAdmin).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes the account identified by both id and email. The pair must
// match a single record; a mismatch reads as not found rather than leaking
// which half was wrong.
func (s *Service) Delete(ctx context.Context, id, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, ErrAdminDelete
	}
	if user.Email != email {
		return nil, store.ErrNotFound
	}
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.User{}).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
