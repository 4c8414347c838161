package user

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID        string  `gorm:"primaryKey;type:text"`
	Username  string  `gorm:"uniqueIndex;not null;type:text"`
	FirstName string  `gorm:"not null;type:text"`
	LastName  *string `gorm:"type:text"`
	Email     string  `gorm:"uniqueIndex;not null;type:text"`
	Password  string  `gorm:"not null;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Safe returns the user without its password hash.
func (u User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// SafeUser is the public view of a user.
type SafeUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  *string   `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is a partial set of user fields for updates. Nil means "keep".
type Profile struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// Claims represents verified session token claims.
type Claims struct {
	UserID string `json:"user_id"`
}
