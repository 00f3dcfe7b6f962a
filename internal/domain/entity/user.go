package entity

import "time"

// Roles válidos para AdminUser.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// AdminUser representa un usuario de la consola de administración.
type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, seller
	Active       bool
	CreatedAt    time.Time
}
