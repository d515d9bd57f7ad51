package entity

import (
	"time"
	"venue-crm/core/entity"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleRep   UserRole = "rep"
)

type User struct {
	entity.BaseEntity
	Email       string     `db:"email" json:"email"`
	Password    string     `db:"password" json:"-"`
	FullName    string     `db:"full_name" json:"full_name"`
	Role        UserRole   `db:"role" json:"role"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	LastLoginAt *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}
