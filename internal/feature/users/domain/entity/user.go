// Package entity defines the domain entities for the users feature.
package entity

import (
	"time"

	horoscopeentity "soulbuddy_backend/internal/feature/horoscope/domain/entity"
)

// User is a person whose birth details drive horoscope generation.
// Name, date of birth and time of birth together identify a user.
type User struct {
	// ID is an opaque UUID assigned on registration.
	ID string `gorm:"primaryKey;size:36"`

	Name        string `gorm:"size:255;not null;uniqueIndex:idx_users_identity"`
	DateOfBirth string `gorm:"size:10;not null;uniqueIndex:idx_users_identity"` // YYYY-MM-DD
	TimeOfBirth string `gorm:"size:5;not null;uniqueIndex:idx_users_identity"`  // HH:mm

	Gender string `gorm:"size:32"`
	State  string `gorm:"size:128"`
	City   string `gorm:"size:128"`

	// Latitude and Longitude are set by the last horoscope generation.
	Latitude  *float64
	Longitude *float64

	// Horoscope is the latest generated horoscope stored as a nested document.
	Horoscope *horoscopeentity.Horoscope `gorm:"serializer:json"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
