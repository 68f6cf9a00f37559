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

type userDoc struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserRepository struct {
	client *redis.Client
	keys   keys
}

func NewUserRepository(client *redis.Client, keyPrefix string) repository.UserRepository {
	return &UserRepository{client: client, keys: newKeys(keyPrefix)}
}

// Create claims the username with SETNX before writing the document, so two
// concurrent registrations cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(userDoc{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	claimed, err := r.client.SetNX(ctx, r.keys.usernameIndex(user.Username), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("claim username: %w", err)
	}
	if !claimed {
		return fmt.Errorf("user %q: %w", user.Username, repository.ErrDuplicate)
	}

	if err := r.client.Set(ctx, r.keys.user(user.ID), data, 0).Err(); err != nil {
		r.client.Del(context.WithoutCancel(ctx), r.keys.usernameIndex(user.Username))
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	id, err := r.client.Get(ctx, r.keys.usernameIndex(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	data, err := r.client.Get(ctx, r.keys.user(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	var doc userDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &domain.User{
		ID:           doc.ID,
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}
