package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agri-advisor/internal/db"
	"agri-advisor/internal/domain/entity"
)

// SQLiteOrderRepo implements repository.OrderRepo using a SQLite database.
type SQLiteOrderRepo struct {
	db db.DBTX
}

func NewSQLiteOrderRepo(conn db.DBTX) *SQLiteOrderRepo {
	return &SQLiteOrderRepo{db: conn}
}

const orderColumns = `id, user_id, item, quantity, unit_price_cents, total_cents, status, created_at, updated_at`

func (r *SQLiteOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.Item, o.Quantity, o.UnitPriceCents, o.TotalCents, string(o.Status),
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func (r *SQLiteOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order: %w", entity.ErrResourceNotFound)
	}
	return o, err
}

// ListByUser returns the user's orders newest first.
func (r *SQLiteOrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := []*entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}
	return orders, nil
}

func (r *SQLiteOrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(updatedAt), id,
	)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return requireAffected(res, "order")
}

func (r *SQLiteOrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}
	return requireAffected(res, "order")
}

func scanOrder(s rowScanner) (*entity.Order, error) {
	var (
		o                    entity.Order
		status               string
		createdAt, updatedAt string
	)
	err := s.Scan(&o.ID, &o.UserID, &o.Item, &o.Quantity, &o.UnitPriceCents, &o.TotalCents,
		&status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning order: %w", err)
	}
	o.Status = entity.OrderStatus(status)
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
