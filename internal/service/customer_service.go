package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"customer-keeper/internal/domain"
	"customer-keeper/internal/repository"
)

// CustomerService manages customer records on behalf of their owner.
// Update and Delete succeed silently when no record matches both id and owner,
// so a caller cannot learn whether another user's record exists.
type CustomerService interface {
	Create(ctx context.Context, ownerID, name, membershipType string) (*domain.Customer, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Customer, error)
	Update(ctx context.Context, ownerID, id, name, membershipType string) error
	Delete(ctx context.Context, ownerID, id string) error
}

type customerService struct {
	customers repository.CustomerRepository
	logger    logrus.FieldLogger
}

func NewCustomerService(customers repository.CustomerRepository, logger logrus.FieldLogger) CustomerService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &customerService{
		customers: customers,
		logger:    logger,
	}
}

func (s *customerService) Create(ctx context.Context, ownerID, name, membershipType string) (*domain.Customer, error) {
	name, membershipType, err := normalizeCustomer(name, membershipType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate customer id: %w", err)
	}

	customer := &domain.Customer{
		ID:             id.String(),
		Name:           name,
		MembershipType: membershipType,
		OwnerID:        ownerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	customers, err := s.customers.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return customers, nil
}

func (s *customerService) Update(ctx context.Context, ownerID, id, name, membershipType string) error {
	name, membershipType, err := normalizeCustomer(name, membershipType)
	if err != nil {
		return err
	}

	matched, err := s.customers.UpdateOwned(ctx, ownerID, strings.TrimSpace(id), name, membershipType)
	if err != nil {
		return err
	}
	if !matched {
		s.logger.WithFields(logrus.Fields{"user_id": ownerID, "customer_id": id}).Debug("update matched no owned customer")
	}
	return nil
}

func (s *customerService) Delete(ctx context.Context, ownerID, id string) error {
	matched, err := s.customers.DeleteOwned(ctx, ownerID, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !matched {
		s.logger.WithFields(logrus.Fields{"user_id": ownerID, "customer_id": id}).Debug("delete matched no owned customer")
	}
	return nil
}

func normalizeCustomer(name, membershipType string) (string, string, error) {
	name = strings.TrimSpace(name)
	membershipType = strings.TrimSpace(membershipType)
	if name == "" {
		return "", "", ErrNameRequired
	}
	if membershipType == "" {
		return "", "", ErrMembershipTypeRequired
	}
	return name, membershipType, nil
}
