package model

import (
	"time"

	"github.com/google/uuid"
)

// Family is the authorization scope: users belong to at most one family and
// see the tasks created within it.
type Family struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Creator User `gorm:"foreignKey:CreatedBy"`
}
