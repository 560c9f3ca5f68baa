package auth

import (
	"context"
	"errors"

	"estates-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidAdminToken  = errors.New("Invalid admin token")
)

// bcryptCost matches the hash strength of the existing account base.
const bcryptCost = 10

type Service struct {
	DB          *gorm.DB
	AdminSecret string
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterAdminInput struct {
	RegisterInput
	AdminToken string `json:"adminToken"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a regular operator account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.register(ctx, in, models.RoleUser)
}

// RegisterAdmin creates an admin account; callers must present the shared
// admin secret.
func (s *Service) RegisterAdmin(ctx context.Context, in RegisterAdminInput) (*models.User, error) {
	if s.AdminSecret == "" || in.AdminToken != s.AdminSecret {
		return nil, ErrInvalidAdminToken
	}
	return s.register(ctx, in.RegisterInput, models.RoleAdmin)
}

func (s *Service) register(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns the account. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", in.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
