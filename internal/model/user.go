package model

import "time"

type UserRole string

const (
	Admin      UserRole = "admin"
	Instructor UserRole = "instructor"
	Student    UserRole = "student"
)

// swagger:model User
type User struct {
	BaseModel
	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	Avatar       string     `gorm:"size:255" json:"avatar"`
	Banned       bool       `gorm:"default:false" json:"banned"`
	LastSeenAt   *time.Time `json:"lastSeenAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}
