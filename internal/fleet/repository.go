package fleet

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested vehicle does not exist.
var ErrNotFound = errors.New("vehicle not found")

// ListFilters narrows the vehicle listing.
type ListFilters struct {
	Status *VehicleStatus
	Search string
}

// Repository provides vehicle persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Vehicle, error)
	Get(ctx context.Context, id int64) (Vehicle, error)
	Create(ctx context.Context, vehicle Vehicle) (Vehicle, error)
	Update(ctx context.Context, id int64, vehicle Vehicle) error
	SetStatus(ctx context.Context, id int64, status VehicleStatus) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Vehicle, error) {
	query := `SELECT id, name, license_plate, capacity_kg, status, created_at, updated_at FROM vehicles WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Status != nil {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, *filters.Status)
	}
	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR license_plate ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	query += ` ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.LicensePlate, &v.CapacityKg, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Vehicle, error) {
	query := `SELECT id, name, license_plate, capacity_kg, status, created_at, updated_at FROM vehicles WHERE id = $1`
	var v Vehicle
	err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.Name, &v.LicensePlate, &v.CapacityKg, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, ErrNotFound
		}
		return Vehicle{}, err
	}
	return v, nil
}

func (r *repository) Create(ctx context.Context, vehicle Vehicle) (Vehicle, error) {
	query := `
		INSERT INTO vehicles (name, license_plate, capacity_kg, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, vehicle.Name, vehicle.LicensePlate, vehicle.CapacityKg, vehicle.Status).
		Scan(&vehicle.ID, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	return vehicle, err
}

func (r *repository) Update(ctx context.Context, id int64, vehicle Vehicle) error {
	query := `
		UPDATE vehicles
		SET name = $1, license_plate = $2, capacity_kg = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	tag, err := r.pool.Exec(ctx, query, vehicle.Name, vehicle.LicensePlate, vehicle.CapacityKg, vehicle.Status, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status VehicleStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
