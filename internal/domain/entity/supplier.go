package entity

import "time"

// Supplier proveedor de materia prima.
type Supplier struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
}
