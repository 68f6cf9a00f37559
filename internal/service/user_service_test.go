package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceSuite struct {
	suite.Suite
	users   *fakeUsers
	service UserService
	ctx     context.Context
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	logger, _ := test.NewNullLogger()
	s.users = newFakeUsers()
	s.service = NewUserService(s.users, bcrypt.MinCost, logger)
	s.ctx = context.Background()
}

func (s *UserServiceSuite) TestRegisterThenAuthenticate() {
	registered, err := s.service.Register(s.ctx, "alice", "pw1")
	s.Require().NoError(err)
	s.NotEmpty(registered.ID)
	s.Equal("alice", registered.Username)
	s.Empty(registered.PasswordHash)

	first, err := s.service.Authenticate(s.ctx, "alice", "pw1")
	s.Require().NoError(err)
	second, err := s.service.Authenticate(s.ctx, "alice", "pw1")
	s.Require().NoError(err)

	s.Equal(registered.ID, first.ID)
	s.Equal(first.ID, second.ID)
	s.Empty(first.PasswordHash)
}

func (s *UserServiceSuite) TestRegisterStoresHashNotPassword() {
	_, err := s.service.Register(s.ctx, "alice", "pw1")
	s.Require().NoError(err)

	stored, err := s.users.GetByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEqual("pw1", stored.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")))
}

func (s *UserServiceSuite) TestRegisterTrimsUsername() {
	_, err := s.service.Register(s.ctx, "  alice  ", "pw1")
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, "alice", "pw1")
	s.NoError(err)
}

func (s *UserServiceSuite) TestRegisterDuplicateUsername() {
	_, err := s.service.Register(s.ctx, "alice", "pw1")
	s.Require().NoError(err)

	for _, pw := range []string{"pw1", "different", "x"} {
		_, err = s.service.Register(s.ctx, "alice", pw)
		s.ErrorIs(err, ErrUserAlreadyExists, pw)
	}

	// the original password still works
	_, err = s.service.Authenticate(s.ctx, "alice", "pw1")
	s.NoError(err)
}

func (s *UserServiceSuite) TestRegisterDuplicateRaceSurfacesAsExists() {
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.Register(s.ctx, "alice", "pw")
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		s.ErrorIs(err, ErrUserAlreadyExists)
	}
	s.Equal(1, ok)
}

func (s *UserServiceSuite) TestRegisterValidation() {
	_, err := s.service.Register(s.ctx, "   ", "pw")
	s.ErrorIs(err, ErrUsernameRequired)
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.service.Register(s.ctx, "alice", "")
	s.ErrorIs(err, ErrPasswordRequired)

	_, err = s.service.Register(s.ctx, "alice", strings.Repeat("x", 73))
	s.ErrorIs(err, ErrPasswordTooLong)
}

func (s *UserServiceSuite) TestRegisterStoreFailure() {
	s.users.getErr = errStoreDown

	_, err := s.service.Register(s.ctx, "alice", "pw")
	s.ErrorIs(err, errStoreDown)
	s.NotErrorIs(err, ErrUserAlreadyExists)
}

func (s *UserServiceSuite) TestAuthenticateWrongPassword() {
	_, err := s.service.Register(s.ctx, "alice", "pw1")
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *UserServiceSuite) TestAuthenticateUnknownUserLooksTheSame() {
	_, err := s.service.Register(s.ctx, "alice", "pw1")
	s.Require().NoError(err)

	_, wrongPw := s.service.Authenticate(s.ctx, "alice", "nope")
	_, unknown := s.service.Authenticate(s.ctx, "mallory", "nope")

	s.ErrorIs(unknown, ErrInvalidCredentials)
	s.Equal(wrongPw.Error(), unknown.Error())
}

func (s *UserServiceSuite) TestAuthenticateEmptyInput() {
	_, err := s.service.Authenticate(s.ctx, "", "pw")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.service.Authenticate(s.ctx, "alice", "")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *UserServiceSuite) TestAuthenticateStoreFailure() {
	s.users.getErr = errStoreDown

	_, err := s.service.Authenticate(s.ctx, "alice", "pw")
	s.ErrorIs(err, errStoreDown)
	s.NotErrorIs(err, ErrInvalidCredentials)
}

func (s *UserServiceSuite) TestGetByID() {
	registered, err := s.service.Register(s.ctx, "alice", "pw1")
	s.Require().NoError(err)

	got, err := s.service.GetByID(s.ctx, registered.ID)
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Empty(got.PasswordHash)
}

func TestNewUserServiceDefaults(t *testing.T) {
	svc := NewUserService(newFakeUsers(), 0, nil).(*userService)
	if svc.cost != DefaultBcryptCost {
		t.Fatalf("cost = %d, want %d", svc.cost, DefaultBcryptCost)
	}
	if svc.logger != logrus.StandardLogger() {
		t.Fatalf("expected standard logger fallback")
	}
}
