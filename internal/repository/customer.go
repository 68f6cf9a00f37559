package repository

import (
	"context"

	"customer-keeper/internal/domain"
)

// CustomerRepository exposes persistence operations for Customer records.
// Every read and write except Create is filtered by the owner id.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Customer, error)
	// UpdateOwned reports whether a record with the given id and owner existed.
	UpdateOwned(ctx context.Context, ownerID, id, name, membershipType string) (bool, error)
	// DeleteOwned reports whether a record with the given id and owner existed.
	DeleteOwned(ctx context.Context, ownerID, id string) (bool, error)
}
