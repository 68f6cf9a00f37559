package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	suite.Suite
	repo    *fakeCustomers
	hook    *test.Hook
	service CustomerService
	ctx     context.Context
}

func TestCustomerServiceSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s.hook = hook
	s.repo = &fakeCustomers{}
	s.service = NewCustomerService(s.repo, logger)
	s.ctx = context.Background()
}

func (s *CustomerServiceSuite) TestCreateAssignsOwnerAndID() {
	c, err := s.service.Create(s.ctx, "alice", " Bob ", " Gold ")
	s.Require().NoError(err)

	s.NotEmpty(c.ID)
	s.Len(c.ID, 26)
	s.Equal("alice", c.OwnerID)
	s.Equal("Bob", c.Name)
	s.Equal("Gold", c.MembershipType)
	s.False(c.CreatedAt.IsZero())
}

func (s *CustomerServiceSuite) TestCreateAllowsDuplicates() {
	a, err := s.service.Create(s.ctx, "alice", "Bob", "Gold")
	s.Require().NoError(err)
	b, err := s.service.Create(s.ctx, "alice", "Bob", "Gold")
	s.Require().NoError(err)
	s.NotEqual(a.ID, b.ID)

	list, err := s.service.ListByOwner(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *CustomerServiceSuite) TestCreateValidation() {
	_, err := s.service.Create(s.ctx, "alice", "", "Gold")
	s.ErrorIs(err, ErrNameRequired)
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.service.Create(s.ctx, "alice", "Bob", "   ")
	s.ErrorIs(err, ErrMembershipTypeRequired)

	s.Empty(s.repo.items)
}

func (s *CustomerServiceSuite) TestListByOwnerNeverNil() {
	list, err := s.service.ListByOwner(s.ctx, "nobody")
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}

func (s *CustomerServiceSuite) TestRoundTrip() {
	c, err := s.service.Create(s.ctx, "alice", "Bob", "Gold")
	s.Require().NoError(err)

	list, err := s.service.ListByOwner(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Bob", list[0].Name)
	s.Equal("Gold", list[0].MembershipType)

	s.Require().NoError(s.service.Update(s.ctx, "alice", c.ID, "Robert", "Platinum"))
	list, err = s.service.ListByOwner(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Robert", list[0].Name)
	s.Equal("Platinum", list[0].MembershipType)

	s.Require().NoError(s.service.Delete(s.ctx, "alice", c.ID))
	list, err = s.service.ListByOwner(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *CustomerServiceSuite) TestCrossOwnerIsolation() {
	c, err := s.service.Create(s.ctx, "alice", "Bob", "Gold")
	s.Require().NoError(err)

	list, err := s.service.ListByOwner(s.ctx, "bob")
	s.Require().NoError(err)
	s.Empty(list)

	s.NoError(s.service.Update(s.ctx, "bob", c.ID, "Hacked", "None"))
	s.NoError(s.service.Delete(s.ctx, "bob", c.ID))

	list, err = s.service.ListByOwner(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Bob", list[0].Name)
	s.Equal("Gold", list[0].MembershipType)
}

func (s *CustomerServiceSuite) TestNoopMutationIsLoggedAtDebug() {
	s.NoError(s.service.Delete(s.ctx, "alice", "missing"))

	entry := s.hook.LastEntry()
	s.Require().NotNil(entry)
	s.Equal(logrus.DebugLevel, entry.Level)
	s.Equal("missing", entry.Data["customer_id"])
}

func (s *CustomerServiceSuite) TestUpdateValidation() {
	c, err := s.service.Create(s.ctx, "alice", "Bob", "Gold")
	s.Require().NoError(err)

	s.ErrorIs(s.service.Update(s.ctx, "alice", c.ID, "", "Gold"), ErrNameRequired)
	s.ErrorIs(s.service.Update(s.ctx, "alice", c.ID, "Bob", ""), ErrMembershipTypeRequired)
}

func (s *CustomerServiceSuite) TestStoreErrorsPropagate() {
	s.repo.err = errStoreDown

	_, err := s.service.Create(s.ctx, "alice", "Bob", "Gold")
	s.ErrorIs(err, errStoreDown)
	_, err = s.service.ListByOwner(s.ctx, "alice")
	s.ErrorIs(err, errStoreDown)
	s.ErrorIs(s.service.Update(s.ctx, "alice", "x", "Bob", "Gold"), errStoreDown)
	s.ErrorIs(s.service.Delete(s.ctx, "alice", "x"), errStoreDown)
}
