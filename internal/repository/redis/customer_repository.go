package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"customer-keeper/internal/domain"
	"customer-keeper/internal/repository"
)

// maxTxRetries bounds optimistic-lock retries when a watched key changes under us.
const maxTxRetries = 5

type customerDoc struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"ownerId"`
	Name           string    `json:"name"`
	MembershipType string    `json:"membershipType"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (d customerDoc) toDomain() domain.Customer {
	return domain.Customer{
		ID:             d.ID,
		OwnerID:        d.OwnerID,
		Name:           d.Name,
		MembershipType: d.MembershipType,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type CustomerRepository struct {
	client *redis.Client
	keys   keys
}

func NewCustomerRepository(client *redis.Client, keyPrefix string) repository.CustomerRepository {
	return &CustomerRepository{client: client, keys: newKeys(keyPrefix)}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	data, err := json.Marshal(customerDoc{
		ID:             customer.ID,
		OwnerID:        customer.OwnerID,
		Name:           customer.Name,
		MembershipType: customer.MembershipType,
		CreatedAt:      customer.CreatedAt,
		UpdatedAt:      customer.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.keys.customer(customer.ID), data, 0)
	pipe.RPush(ctx, r.keys.ownerCustomers(customer.OwnerID), customer.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	ids, err := r.client.LRange(ctx, r.keys.ownerCustomers(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list customer ids: %w", err)
	}
	customers := make([]domain.Customer, 0, len(ids))
	if len(ids) == 0 {
		return customers, nil
	}

	docKeys := make([]string, len(ids))
	for i, id := range ids {
		docKeys[i] = r.keys.customer(id)
	}
	values, err := r.client.MGet(ctx, docKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// deleted between LRANGE and MGET
			continue
		}
		var doc customerDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode customer: %w", err)
		}
		if doc.OwnerID != ownerID {
			continue
		}
		customers = append(customers, doc.toDomain())
	}
	return customers, nil
}

func (r *CustomerRepository) UpdateOwned(ctx context.Context, ownerID, id, name, membershipType string) (bool, error) {
	key := r.keys.customer(id)
	var matched bool

	err := r.watch(ctx, key, func(tx *redis.Tx) error {
		doc, ok, err := r.loadOwned(ctx, tx, key, ownerID)
		if err != nil || !ok {
			matched = false
			return err
		}

		doc.Name = name
		doc.MembershipType = membershipType
		doc.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal customer: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		matched = err == nil
		return err
	})
	if err != nil {
		return false, fmt.Errorf("update customer: %w", err)
	}
	return matched, nil
}

func (r *CustomerRepository) DeleteOwned(ctx context.Context, ownerID, id string) (bool, error) {
	key := r.keys.customer(id)
	var matched bool

	err := r.watch(ctx, key, func(tx *redis.Tx) error {
		_, ok, err := r.loadOwned(ctx, tx, key, ownerID)
		if err != nil || !ok {
			matched = false
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.LRem(ctx, r.keys.ownerCustomers(ownerID), 0, id)
			return nil
		})
		matched = err == nil
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete customer: %w", err)
	}
	return matched, nil
}

// loadOwned reads the document at key and reports whether it belongs to ownerID.
func (r *CustomerRepository) loadOwned(ctx context.Context, tx *redis.Tx, key, ownerID string) (customerDoc, bool, error) {
	var doc customerDoc
	data, err := tx.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return doc, false, nil
		}
		return doc, false, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, false, fmt.Errorf("decode customer: %w", err)
	}
	return doc, doc.OwnerID == ownerID, nil
}

func (r *CustomerRepository) watch(ctx context.Context, key string, fn func(*redis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return redis.TxFailedErr
}
