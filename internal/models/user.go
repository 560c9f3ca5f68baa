package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an operator account. The password hash never serializes.
type User struct {
	ID        string    `gorm:"column:id;primaryKey" json:"_id"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Role      string    `gorm:"column:role;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets a UUID if not set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
