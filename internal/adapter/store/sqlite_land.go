package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agri-advisor/internal/db"
	"agri-advisor/internal/domain/entity"
)

// SQLiteLandRepo implements repository.LandRepo using a SQLite database.
type SQLiteLandRepo struct {
	db db.DBTX
}

func NewSQLiteLandRepo(conn db.DBTX) *SQLiteLandRepo {
	return &SQLiteLandRepo{db: conn}
}

const landColumns = `id, user_id, name, location, area_acres, soil_ph, moisture, temperature, crop, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteLandRepo) Create(ctx context.Context, l *entity.Land) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lands (`+landColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.Name, l.Location, l.AreaAcres, l.SoilPH, l.Moisture,
		nullableFloat(l.Temperature), l.Crop, formatTime(l.CreatedAt), formatTime(l.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting land: %w", err)
	}
	return nil
}

func (r *SQLiteLandRepo) GetByID(ctx context.Context, id string) (*entity.Land, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+landColumns+` FROM lands WHERE id = ?`, id)
	l, err := scanLand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("land: %w", entity.ErrResourceNotFound)
	}
	return l, err
}

func (r *SQLiteLandRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Land, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+landColumns+` FROM lands WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing lands: %w", err)
	}
	defer rows.Close()

	lands := []*entity.Land{}
	for rows.Next() {
		l, err := scanLand(rows)
		if err != nil {
			return nil, err
		}
		lands = append(lands, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lands: %w", err)
	}
	return lands, nil
}

func (r *SQLiteLandRepo) Update(ctx context.Context, l *entity.Land) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lands SET name = ?, location = ?, area_acres = ?, soil_ph = ?, moisture = ?,
			temperature = ?, crop = ?, updated_at = ? WHERE id = ?`,
		l.Name, l.Location, l.AreaAcres, l.SoilPH, l.Moisture,
		nullableFloat(l.Temperature), l.Crop, formatTime(l.UpdatedAt), l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating land: %w", err)
	}
	return requireAffected(res, "land")
}

func (r *SQLiteLandRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lands WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting land: %w", err)
	}
	return requireAffected(res, "land")
}

// scanLand returns sql.ErrNoRows unwrapped so callers can map it.
func scanLand(s rowScanner) (*entity.Land, error) {
	var (
		l                    entity.Land
		temperature          sql.NullFloat64
		createdAt, updatedAt string
	)
	err := s.Scan(&l.ID, &l.UserID, &l.Name, &l.Location, &l.AreaAcres, &l.SoilPH, &l.Moisture,
		&temperature, &l.Crop, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning land: %w", err)
	}
	l.Temperature = floatPtr(temperature)
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
