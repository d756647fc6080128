package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account model. Login is by email; the role flags are
// independent booleans and any combination is legal.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	FirstName   string         `gorm:"size:150" json:"first_name"`
	LastName    string         `gorm:"size:150" json:"last_name"`
	IsStaff     bool           `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool           `gorm:"default:false" json:"is_superuser"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// DisplayName is used in email greetings: first name when set, otherwise
// the local part of the email address.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if i := strings.IndexByte(u.Email, '@'); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

// FullName returns "First Last" or the email when no name is set.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}
