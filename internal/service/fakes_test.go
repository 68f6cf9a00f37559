package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"customer-keeper/internal/domain"
	"customer-keeper/internal/repository"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[string]domain.User
	byName map[string]string

	getErr    error
	createErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]domain.User{}, byName: map[string]string{}}
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byName[u.Username]; ok {
		return fmt.Errorf("user: %w", repository.ErrDuplicate)
	}
	f.byID[u.ID] = *u
	f.byName[u.Username] = u.ID
	return nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	id, ok := f.byName[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := f.byID[id]
	return &u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type fakeCustomers struct {
	mu    sync.Mutex
	items []domain.Customer
	err   error
}

func (f *fakeCustomers) Create(_ context.Context, c *domain.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, *c)
	return nil
}

func (f *fakeCustomers) ListByOwner(_ context.Context, ownerID string) ([]domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Customer
	for _, c := range f.items {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCustomers) UpdateOwned(_ context.Context, ownerID, id, name, membershipType string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].OwnerID == ownerID {
			f.items[i].Name = name
			f.items[i].MembershipType = membershipType
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCustomers) DeleteOwned(_ context.Context, ownerID, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].OwnerID == ownerID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

var errStoreDown = errors.New("store down")
