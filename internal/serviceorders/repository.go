package serviceorders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petra-erp/petra-erp/internal/logistics"
	"github.com/petra-erp/petra-erp/internal/platform/db"
	"github.com/petra-erp/petra-erp/internal/workforce"
)

// ListFilters narrows the service order listing to one kanban view.
type ListFilters struct {
	ProductionStatus *ProductionStatus
	LogisticsStatus  *logistics.LogisticsStatus
	Priority         *Priority
	Search           string
}

// Repository provides service order persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]ServiceOrder, error)
	Get(ctx context.Context, id int64) (ServiceOrder, error)
	// Create inserts the order and its line items atomically.
	Create(ctx context.Context, order ServiceOrder) (ServiceOrder, error)
	// SaveFinalization persists the fields the state machine mutates.
	SaveFinalization(ctx context.Context, order ServiceOrder) error
	UpdateProductionStatus(ctx context.Context, id int64, status ProductionStatus) error
	UpdateChecklist(ctx context.Context, id int64, checklist []ChecklistItem) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, client_name, delivery_address, total_value, delivery_due_date, priority,
	production_status, COALESCE(finalization_type, ''), logistics_status,
	delivery_confirmed, installation_confirmed, allocated_slab_id, attachment_url,
	checklist, vehicle_id, delivery_start, delivery_end, delivery_team_ids,
	created_at, updated_at`

func scanOrder(row pgx.Row) (ServiceOrder, error) {
	var o ServiceOrder
	var checklist []byte
	err := row.Scan(
		&o.ID, &o.ClientName, &o.DeliveryAddress, &o.TotalValue, &o.DeliveryDueDate, &o.Priority,
		&o.ProductionStatus, &o.FinalizationType, &o.LogisticsStatus,
		&o.DeliveryConfirmed, &o.InstallationConfirmed, &o.AllocatedSlabID, &o.AttachmentURL,
		&checklist, &o.VehicleID, &o.DeliveryStart, &o.DeliveryEnd, &o.DeliveryTeamIDs,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return ServiceOrder{}, err
	}
	if len(checklist) > 0 {
		if err := json.Unmarshal(checklist, &o.Checklist); err != nil {
			return ServiceOrder{}, fmt.Errorf("decode checklist: %w", err)
		}
	}
	return o, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]ServiceOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.ProductionStatus != nil {
		argCount++
		query += ` AND production_status = $` + strconv.Itoa(argCount)
		args = append(args, *filters.ProductionStatus)
	}
	if filters.LogisticsStatus != nil {
		argCount++
		query += ` AND logistics_status = $` + strconv.Itoa(argCount)
		args = append(args, *filters.LogisticsStatus)
	}
	if filters.Priority != nil {
		argCount++
		query += ` AND priority = $` + strconv.Itoa(argCount)
		args = append(args, *filters.Priority)
	}
	if filters.Search != "" {
		argCount++
		query += ` AND client_name_normalized LIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+workforce.NormalizeName(filters.Search)+"%")
	}
	query += ` ORDER BY
		CASE priority WHEN 'urgente' THEN 0 WHEN 'alta' THEN 1 ELSE 2 END,
		delivery_due_date NULLS LAST, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []ServiceOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (ServiceOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE id = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceOrder{}, ErrNotFound
		}
		return ServiceOrder{}, err
	}

	items, err := r.itemsForOrder(ctx, id)
	if err != nil {
		return ServiceOrder{}, err
	}
	o.Items = items
	return o, nil
}

func (r *repository) itemsForOrder(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, service_order_id, description, quantity, unit_price
		 FROM service_order_items WHERE service_order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.ServiceOrderID, &it.Description, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) Create(ctx context.Context, order ServiceOrder) (ServiceOrder, error) {
	checklist, err := json.Marshal(order.Checklist)
	if err != nil {
		return ServiceOrder{}, fmt.Errorf("encode checklist: %w", err)
	}

	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO service_orders
				(client_name, client_name_normalized, delivery_address, total_value,
				 delivery_due_date, priority, production_status, logistics_status,
				 allocated_slab_id, attachment_url, checklist)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at
		`,
			order.ClientName, workforce.NormalizeName(order.ClientName), order.DeliveryAddress,
			order.TotalValue, order.DeliveryDueDate, order.Priority, order.ProductionStatus,
			order.LogisticsStatus, order.AllocatedSlabID, order.AttachmentURL, checklist,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert service order: %w", err)
		}

		for i := range order.Items {
			it := &order.Items[i]
			it.ServiceOrderID = order.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO service_order_items (service_order_id, description, quantity, unit_price)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, it.ServiceOrderID, it.Description, it.Quantity, it.UnitPrice).Scan(&it.ID)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ServiceOrder{}, err
	}
	return order, nil
}

func (r *repository) SaveFinalization(ctx context.Context, order ServiceOrder) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE service_orders
		SET finalization_type = NULLIF($1, ''), production_status = $2,
		    delivery_confirmed = $3, installation_confirmed = $4, updated_at = $5
		WHERE id = $6
	`, string(order.FinalizationType), order.ProductionStatus,
		order.DeliveryConfirmed, order.InstallationConfirmed, time.Now(), order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateProductionStatus(ctx context.Context, id int64, status ProductionStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE service_orders SET production_status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateChecklist(ctx context.Context, id int64, checklist []ChecklistItem) error {
	encoded, err := json.Marshal(checklist)
	if err != nil {
		return fmt.Errorf("encode checklist: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE service_orders SET checklist = $1, updated_at = $2 WHERE id = $3`,
		encoded, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
