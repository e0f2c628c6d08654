package entity

import "time"

// Bank banco emisor de cheques.
type Bank struct {
	ID        string
	Code      string
	Acronym   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
