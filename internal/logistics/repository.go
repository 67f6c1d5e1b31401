package logistics

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petra-erp/petra-erp/internal/platform/db"
)

// Repository provides persistence for delivery routes and the logistics
// fields of service orders, which this package owns.
type Repository interface {
	GetRoute(ctx context.Context, id int64) (DeliveryRoute, error)
	RoutesForOrder(ctx context.Context, serviceOrderID int64) ([]DeliveryRoute, error)
	// CommittedRoutes returns every route whose status still blocks its
	// resources (pending, scheduled, in_progress).
	CommittedRoutes(ctx context.Context) ([]DeliveryRoute, error)
	// ActiveRouteForOrder returns the newest committed route of the order,
	// or nil when the order has no live booking.
	ActiveRouteForOrder(ctx context.Context, serviceOrderID int64) (*DeliveryRoute, error)
	OrderExists(ctx context.Context, serviceOrderID int64) (bool, error)
	// SaveSchedule writes the route (insert when ID is zero, update
	// otherwise) and the denormalized schedule cache plus derived status on
	// the owning order, atomically.
	SaveSchedule(ctx context.Context, route DeliveryRoute, derived LogisticsStatus) (DeliveryRoute, error)
	// UpdateRouteStatus advances the route and, when derived is non-nil,
	// persists the recomputed logistics status onto the owning order,
	// atomically.
	UpdateRouteStatus(ctx context.Context, routeID int64, status RouteStatus, serviceOrderID int64, derived *LogisticsStatus) (DeliveryRoute, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
//
// The delivery_routes table carries a GiST exclusion constraint over
// (vehicle_id, tstzrange(scheduled_start, scheduled_end)) restricted to
// committed statuses, so the overlap invariant holds even when two writers
// race past the in-memory availability check.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const routeColumns = `id, service_order_id, vehicle_id, team_ids, scheduled_start, scheduled_end, status, created_at, updated_at`

func scanRoute(row pgx.Row) (DeliveryRoute, error) {
	var r DeliveryRoute
	err := row.Scan(&r.ID, &r.ServiceOrderID, &r.VehicleID, &r.TeamIDs,
		&r.ScheduledStart, &r.ScheduledEnd, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r *repository) GetRoute(ctx context.Context, id int64) (DeliveryRoute, error) {
	route, err := scanRoute(r.pool.QueryRow(ctx,
		`SELECT `+routeColumns+` FROM delivery_routes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DeliveryRoute{}, ErrRouteNotFound
		}
		return DeliveryRoute{}, err
	}
	return route, nil
}

func (r *repository) RoutesForOrder(ctx context.Context, serviceOrderID int64) ([]DeliveryRoute, error) {
	return r.queryRoutes(ctx,
		`SELECT `+routeColumns+` FROM delivery_routes WHERE service_order_id = $1 ORDER BY created_at, id`,
		serviceOrderID)
}

func (r *repository) CommittedRoutes(ctx context.Context) ([]DeliveryRoute, error) {
	return r.queryRoutes(ctx,
		`SELECT `+routeColumns+` FROM delivery_routes WHERE status IN ('pending','scheduled','in_progress') ORDER BY scheduled_start, id`)
}

func (r *repository) queryRoutes(ctx context.Context, query string, args ...interface{}) ([]DeliveryRoute, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []DeliveryRoute
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func (r *repository) ActiveRouteForOrder(ctx context.Context, serviceOrderID int64) (*DeliveryRoute, error) {
	route, err := scanRoute(r.pool.QueryRow(ctx,
		`SELECT `+routeColumns+` FROM delivery_routes
		 WHERE service_order_id = $1 AND status IN ('pending','scheduled','in_progress')
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`, serviceOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

func (r *repository) OrderExists(ctx context.Context, serviceOrderID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM service_orders WHERE id = $1)`, serviceOrderID).Scan(&exists)
	return exists, err
}

func (r *repository) SaveSchedule(ctx context.Context, route DeliveryRoute, derived LogisticsStatus) (DeliveryRoute, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if route.ID == 0 {
			err := tx.QueryRow(ctx, `
				INSERT INTO delivery_routes (service_order_id, vehicle_id, team_ids, scheduled_start, scheduled_end, status)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id, created_at, updated_at
			`, route.ServiceOrderID, route.VehicleID, route.TeamIDs, route.ScheduledStart, route.ScheduledEnd, route.Status).
				Scan(&route.ID, &route.CreatedAt, &route.UpdatedAt)
			if err != nil {
				return mapConflict(err)
			}
		} else {
			route.UpdatedAt = time.Now()
			tag, err := tx.Exec(ctx, `
				UPDATE delivery_routes
				SET vehicle_id = $1, team_ids = $2, scheduled_start = $3, scheduled_end = $4, status = $5, updated_at = $6
				WHERE id = $7
			`, route.VehicleID, route.TeamIDs, route.ScheduledStart, route.ScheduledEnd, route.Status, route.UpdatedAt, route.ID)
			if err != nil {
				return mapConflict(err)
			}
			if tag.RowsAffected() == 0 {
				return ErrRouteNotFound
			}
		}

		// Denormalized cache of the active route; the route record stays
		// authoritative.
		tag, err := tx.Exec(ctx, `
			UPDATE service_orders
			SET vehicle_id = $1, delivery_start = $2, delivery_end = $3, delivery_team_ids = $4,
			    logistics_status = $5, updated_at = $6
			WHERE id = $7
		`, route.VehicleID, route.ScheduledStart, route.ScheduledEnd, route.TeamIDs, derived, time.Now(), route.ServiceOrderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		return DeliveryRoute{}, err
	}
	return route, nil
}

func (r *repository) UpdateRouteStatus(ctx context.Context, routeID int64, status RouteStatus, serviceOrderID int64, derived *LogisticsStatus) (DeliveryRoute, error) {
	var route DeliveryRoute
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		route, err = scanRoute(tx.QueryRow(ctx, `
			UPDATE delivery_routes
			SET status = $1, updated_at = $2
			WHERE id = $3
			RETURNING `+routeColumns, status, time.Now(), routeID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrRouteNotFound
			}
			return err
		}

		if derived == nil {
			return nil
		}
		tag, err := tx.Exec(ctx,
			`UPDATE service_orders SET logistics_status = $1, updated_at = $2 WHERE id = $3`,
			*derived, time.Now(), serviceOrderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		return DeliveryRoute{}, err
	}
	return route, nil
}

// mapConflict translates the exclusion constraint violation raised when two
// committed routes would hold the same vehicle over overlapping windows.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505") {
		return ErrVehicleUnavailable
	}
	return err
}
