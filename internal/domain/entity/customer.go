package entity

import "time"

// Customer is a billing customer.
type Customer struct {
	ID        string
	Name      string
	Address   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
