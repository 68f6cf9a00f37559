// Package repotest holds behaviour shared by every repository backend so each
// one can be checked against the same ownership rules.
package repotest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"customer-keeper/internal/domain"
	"customer-keeper/internal/repository"
)

// Backend opens a fresh, empty set of repositories for one test.
type Backend func(s *suite.Suite) (repository.UserRepository, repository.CustomerRepository)

// Suite runs the repository contract against a Backend.
type Suite struct {
	suite.Suite
	Open Backend

	users     repository.UserRepository
	customers repository.CustomerRepository
	ctx       context.Context
}

func (s *Suite) SetupTest() {
	s.users, s.customers = s.Open(&s.Suite)
	s.ctx = context.Background()
}

func (s *Suite) newUser(username string) *domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "hash-" + username,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *Suite) newCustomer(ownerID, name, membershipType string) *domain.Customer {
	now := time.Now().UTC().Truncate(time.Second)
	c := &domain.Customer{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Name:           name,
		MembershipType: membershipType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Require().NoError(s.customers.Create(s.ctx, c))
	return c
}

// User tests

func (s *Suite) TestCreateAndGetUser() {
	u := s.newUser("alice")

	byName, err := s.users.GetByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(u.ID, byName.ID)
	s.Equal("hash-alice", byName.PasswordHash)
	s.True(u.CreatedAt.Equal(byName.CreatedAt))

	byID, err := s.users.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.users.GetByUsername(s.ctx, "nobody")
	s.ErrorIs(err, repository.ErrNotFound)

	_, err = s.users.GetByID(s.ctx, uuid.NewString())
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *Suite) TestCreateUserDuplicateUsername() {
	s.newUser("alice")

	dup := &domain.User{
		ID:           uuid.NewString(),
		Username:     "alice",
		PasswordHash: "other",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	err := s.users.Create(s.ctx, dup)
	s.ErrorIs(err, repository.ErrDuplicate)

	got, err := s.users.GetByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("hash-alice", got.PasswordHash)
}

// Customer tests

func (s *Suite) TestListByOwnerEmpty() {
	u := s.newUser("alice")

	got, err := s.customers.ListByOwner(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *Suite) TestCreateAndListCustomers() {
	u := s.newUser("alice")
	first := s.newCustomer(u.ID, "Bob", "Gold")
	second := s.newCustomer(u.ID, "Carol", "Silver")
	s.newCustomer(u.ID, "Bob", "Gold")

	got, err := s.customers.ListByOwner(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(got, 3)

	byID := map[string]domain.Customer{}
	for _, c := range got {
		s.Equal(u.ID, c.OwnerID)
		byID[c.ID] = c
	}
	s.Equal("Bob", byID[first.ID].Name)
	s.Equal("Gold", byID[first.ID].MembershipType)
	s.Equal("Carol", byID[second.ID].Name)
	s.Equal("Silver", byID[second.ID].MembershipType)
}

// Ownership is whatever the verified token asserts; the store does not
// require the owner to exist as a user.
func (s *Suite) TestCreateForUnregisteredOwner() {
	ghost := uuid.NewString()
	c := s.newCustomer(ghost, "Bob", "Gold")

	got, err := s.customers.ListByOwner(s.ctx, ghost)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(c.ID, got[0].ID)
}

func (s *Suite) TestListIsScopedToOwner() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")
	s.newCustomer(alice.ID, "Bob", "Gold")

	got, err := s.customers.ListByOwner(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *Suite) TestUpdateOwned() {
	u := s.newUser("alice")
	c := s.newCustomer(u.ID, "Bob", "Gold")

	matched, err := s.customers.UpdateOwned(s.ctx, u.ID, c.ID, "Robert", "Platinum")
	s.Require().NoError(err)
	s.True(matched)

	got, err := s.customers.ListByOwner(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Robert", got[0].Name)
	s.Equal("Platinum", got[0].MembershipType)
}

func (s *Suite) TestUpdateOtherOwnerIsNoop() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")
	c := s.newCustomer(alice.ID, "Bob", "Gold")

	matched, err := s.customers.UpdateOwned(s.ctx, bob.ID, c.ID, "Hacked", "None")
	s.Require().NoError(err)
	s.False(matched)

	got, err := s.customers.ListByOwner(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Bob", got[0].Name)
	s.Equal("Gold", got[0].MembershipType)
}

func (s *Suite) TestUpdateUnknownIDIsNoop() {
	u := s.newUser("alice")

	matched, err := s.customers.UpdateOwned(s.ctx, u.ID, "does-not-exist", "X", "Y")
	s.Require().NoError(err)
	s.False(matched)

	got, err := s.customers.ListByOwner(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *Suite) TestDeleteOwned() {
	u := s.newUser("alice")
	keep := s.newCustomer(u.ID, "Keep", "Gold")
	gone := s.newCustomer(u.ID, "Gone", "Gold")

	matched, err := s.customers.DeleteOwned(s.ctx, u.ID, gone.ID)
	s.Require().NoError(err)
	s.True(matched)

	got, err := s.customers.ListByOwner(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(keep.ID, got[0].ID)

	matched, err = s.customers.DeleteOwned(s.ctx, u.ID, gone.ID)
	s.Require().NoError(err)
	s.False(matched)
}

func (s *Suite) TestDeleteOtherOwnerIsNoop() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")
	c := s.newCustomer(alice.ID, "Bob", "Gold")

	matched, err := s.customers.DeleteOwned(s.ctx, bob.ID, c.ID)
	s.Require().NoError(err)
	s.False(matched)

	got, err := s.customers.ListByOwner(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Len(got, 1)
}
