package domain

import "time"

// List is owned by exactly one user; ownership never transfers.
type List struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	Name        string `gorm:"not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// The FK constraint makes the cascade a database-level guarantee,
	// not a best-effort cleanup loop.
	Items []ListItem `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
}

// ListItem belongs to exactly one list. IsCompleted is stored as 0/1.
type ListItem struct {
	ID          uint   `gorm:"primaryKey"`
	ListID      uint   `gorm:"index;not null"`
	Content     string `gorm:"not null"`
	IsCompleted int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
