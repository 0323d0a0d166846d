package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated sales user
type User struct {
	BaseModel
	FullName     string     `gorm:"type:varchar(255)" json:"fullName"`
	Phone        string     `gorm:"type:varchar(32)" json:"phone"`
	Position     string     `gorm:"type:varchar(255)" json:"position"`
	Username     string     `gorm:"type:varchar(128);uniqueIndex;not null" json:"username"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, hidden from JSON
	Role         Role       `gorm:"type:varchar(16);index;not null;default:'staff'" json:"role"`
	Branch       Branch     `gorm:"type:varchar(64);index" json:"branch"`
	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastSeenAt   *time.Time `json:"lastSeenAt,omitempty"`                  // For user presence
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Privileges returns the privilege codes granted by the user's role.
func (u *User) Privileges() []string {
	return PrivilegesFor(u.Role)
}

// HasPrivilege checks if the user's role grants a specific privilege
func (u *User) HasPrivilege(code string) bool {
	for _, p := range u.Privileges() {
		if p == code {
			return true
		}
	}
	return false
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID            string     `json:"id"`
	FullName      string     `json:"fullName"`
	Phone         string     `json:"phone"`
	Position      string     `json:"position"`
	Username      string     `json:"username"`
	Role          Role       `json:"role"`
	Branch        Branch     `json:"branch"`
	LastSeenAt    *time.Time `json:"lastSeenAt,omitempty"`
	DirectManager string     `json:"directManager,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		FullName:   u.FullName,
		Phone:      u.Phone,
		Position:   u.Position,
		Username:   u.Username,
		Role:       u.Role,
		Branch:     u.Branch,
		LastSeenAt: u.LastSeenAt,
	}
}
