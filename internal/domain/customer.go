package domain

import "time"

// Customer is a record kept by a single owning user.
type Customer struct {
	ID             string
	Name           string
	MembershipType string
	OwnerID        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
