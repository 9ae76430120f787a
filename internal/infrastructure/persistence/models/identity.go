package models

import (
	"time"

	"github.com/lastikpazari/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	AggregateModel
	Email          string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	FullName       string              `gorm:"type:varchar(200);not null"`
	Phone          string              `gorm:"type:varchar(50)"`
	Role           identity.Role       `gorm:"type:varchar(20);not null;index"`
	StoreID        *int64              `gorm:"index"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	FailedAttempts int                 `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FullName:          m.FullName,
		Phone:             m.Phone,
		Role:              m.Role,
		StoreID:           m.StoreID,
		Status:            m.Status,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		LastLoginAt:       m.LastLoginAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		FullName:       u.FullName,
		Phone:          u.Phone,
		Role:           u.Role,
		StoreID:        u.StoreID,
		Status:         u.Status,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
		LastLoginAt:    u.LastLoginAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
