package entity

import "time"

// Material agrupa filamentos por tipo de material (PLA, PETG, ABS...).
type Material struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Filament es un filamento concreto de un material, con su color.
type Filament struct {
	ID         string
	MaterialID string
	Name       string
	ColorHex   string // 6 dígitos hex, sin '#'
	CreatedAt  time.Time
}
