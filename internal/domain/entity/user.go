package entity

import "time"

// Roles de usuario.
const (
	RoleOwner    = "owner"    // dueño de la tienda: CRUD de catálogo e inventario
	RoleCustomer = "customer" // cliente: galería, carrito, pedidos propios
)

// User cuenta de la tienda.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
