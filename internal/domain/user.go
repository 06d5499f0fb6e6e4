package domain

import (
	"time"

	"gorm.io/gorm"
)

// User is the single persistent entity of the system. The soft-delete flag
// is realized as gorm.DeletedAt: NULL means the record is live, a timestamp
// means it is logically removed but still addressable by id via Unscoped.
type User struct {
	ID           int64          `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string         `gorm:"size:100;not null" json:"-"`
	Image        string         `gorm:"size:255;default:''" json:"image"`
	IsAdmin      bool           `gorm:"not null;default:false" json:"isAdmin"`
	IsActive     bool           `gorm:"not null;default:true" json:"isActiveUser"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(u *User) error
	FindByID(id int64) (*User, error)
	FindByEmail(email string) (*User, error)
	FindByUsername(username string) (*User, error)
	List(q ListingQuery) ([]User, int64, error)
	UpdateFields(id int64, fields map[string]any) (*User, error)
	ToggleActive(id int64) (*User, error)
	SoftDelete(id int64) error
}
