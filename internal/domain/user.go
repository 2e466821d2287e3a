package domain

import "time"

// User is an account that owns lists. The password is stored only as a
// bcrypt digest; the plaintext never touches the database.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	HashedPassword string `gorm:"not null"`
	IsActive       bool   `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Lists []List `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
