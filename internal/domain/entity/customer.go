package entity

import "time"

// Customer cliente al que se factura.
type Customer struct {
	ID            string
	Code          string // consecutivo visible, 4 dígitos
	Name          string
	ContactPerson string
	PhoneNo       string
	Address       string
	Area          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
