package workforce

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested employee does not exist.
var ErrNotFound = errors.New("employee not found")

// ListFilters narrows the employee listing.
type ListFilters struct {
	Role       string
	OnlyActive bool
	Search     string
}

// Repository provides employee persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Employee, error)
	Get(ctx context.Context, id int64) (Employee, error)
	Create(ctx context.Context, employee Employee) (Employee, error)
	Update(ctx context.Context, id int64, employee Employee) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Employee, error) {
	query := `SELECT id, name, role, phone, active, created_at, updated_at FROM employees WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Role != "" {
		argCount++
		query += ` AND role = $` + strconv.Itoa(argCount)
		args = append(args, filters.Role)
	}
	if filters.OnlyActive {
		query += ` AND active`
	}
	if filters.Search != "" {
		// name_normalized stores the lowercase, accent-stripped form kept
		// in sync by the repository on every write.
		argCount++
		query += ` AND name_normalized LIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+NormalizeName(filters.Search)+"%")
	}
	query += ` ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Role, &e.Phone, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Employee, error) {
	query := `SELECT id, name, role, phone, active, created_at, updated_at FROM employees WHERE id = $1`
	var e Employee
	err := r.pool.QueryRow(ctx, query, id).Scan(&e.ID, &e.Name, &e.Role, &e.Phone, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	return e, nil
}

func (r *repository) Create(ctx context.Context, employee Employee) (Employee, error) {
	query := `
		INSERT INTO employees (name, name_normalized, role, phone, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, employee.Name, NormalizeName(employee.Name), employee.Role, employee.Phone, employee.Active).
		Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
	return employee, err
}

func (r *repository) Update(ctx context.Context, id int64, employee Employee) error {
	query := `
		UPDATE employees
		SET name = $1, name_normalized = $2, role = $3, phone = $4, active = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := r.pool.Exec(ctx, query, employee.Name, NormalizeName(employee.Name), employee.Role, employee.Phone, employee.Active, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
