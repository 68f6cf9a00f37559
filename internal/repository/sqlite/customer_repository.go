package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"customer-keeper/internal/domain"
	"customer-keeper/internal/repository"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO customers (id, owner_id, name, membership_type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.OwnerID,
		customer.Name,
		customer.MembershipType,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_id, name, membership_type, created_at, updated_at
FROM customers
WHERE owner_id = ?
ORDER BY rowid ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.MembershipType, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

func (r *CustomerRepository) UpdateOwned(ctx context.Context, ownerID, id, name, membershipType string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE customers
SET name = ?, membership_type = ?, updated_at = ?
WHERE id = ? AND owner_id = ?`,
		name,
		membershipType,
		time.Now().UTC(),
		id,
		ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("update customer: %w", err)
	}
	return affected(res)
}

func (r *CustomerRepository) DeleteOwned(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete customer: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
