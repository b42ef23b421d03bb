package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email          string     `gorm:"uniqueIndex;not null"`
	HashedPassword string     `gorm:"not null"`
	Name           string     `gorm:"not null"`
	Role           string     `gorm:"type:varchar(20);not null;default:member"`
	FamilyID       *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
}

// AuthUser is the per-request authenticated user context. It is resolved by
// the auth middleware and handlers before any domain call; the domain layer
// trusts it and never touches credentials.
type AuthUser struct {
	ID       uuid.UUID
	Role     string
	FamilyID *uuid.UUID
}

// AuthContext returns the value-struct view of the user that the domain
// layer's access checks operate on.
func (u *User) AuthContext() AuthUser {
	return AuthUser{ID: u.ID, Role: u.Role, FamilyID: u.FamilyID}
}
