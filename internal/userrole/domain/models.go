// Package domain contains persistence models for role assignments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Role names. Every protected operation maps to one of these via the
// authorization policy seeds.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleAccountant = "accountant"
	RoleViewer     = "viewer"
)

// ValidRole reports whether name is one of the four enumerated roles.
func ValidRole(name string) bool {
	switch name {
	case RoleAdmin, RoleManager, RoleAccountant, RoleViewer:
		return true
	default:
		return false
	}
}

// UserRole links a user to a role inside one organization. The unique index
// guarantees at most one role per (user, organization) pair; concurrent
// assignments serialize on it and the loser gets a conflict.
type UserRole struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID         snowflake.ID      `gorm:"column:user_id;not null;index;uniqueIndex:ux_user_org,priority:1" json:"user_id"`
	OrganizationID snowflake.ID      `gorm:"column:organization_id;not null;index;uniqueIndex:ux_user_org,priority:2" json:"organization_id"`
	Role           string            `gorm:"type:text;not null" json:"role"`
	Permissions    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"permissions"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (UserRole) TableName() string { return "user_roles" }
