package entity

import "time"

// Agent vendedor o agente asociado a una factura.
type Agent struct {
	ID        string
	Code      string
	Name      string
	PhoneNo   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
