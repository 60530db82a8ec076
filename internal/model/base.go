package model

import "time"

// ── audit fields ──

// Timestamps audit columns shared by every local-store table
type Timestamps struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Role values stored in usuarios.rol
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinador"
	RoleAuthority   = "autoridad"
	RoleTeacher     = "docente"
	RoleStudent     = "estudiante"
)

// ValidRole reports whether r is a known role
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleAuthority, RoleTeacher, RoleStudent:
		return true
	}
	return false
}
