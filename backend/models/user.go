package models

import "gorm.io/gorm"

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	gorm.Model
	Name         string       `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string       `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string       `gorm:"not null"`
	Role         string       `gorm:"type:varchar(16);default:'USER'"`
	Results      []TestResult `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
