package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// TaskOverdueDeliveryScan flags service orders past their delivery due
	// date that have not been delivered yet.
	TaskOverdueDeliveryScan = "logistics:overdue_scan"
)

// OverdueDeliveryScanPayload carries scheduling metadata.
type OverdueDeliveryScanPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewOverdueDeliveryScanTask constructs the cron task.
func NewOverdueDeliveryScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(OverdueDeliveryScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueDeliveryScan, body, asynq.Queue(QueueDefault)), nil
}

type overdueOrder struct {
	ID         int64
	ClientName string
	DueDate    time.Time
}

// NewOverdueDeliveryScanHandler returns the handler for the overdue scan.
// It lists orders whose delivery due date has passed without the route
// arriving (pickup orders are the client's problem, not ours) and enqueues
// one notification email per order.
func NewOverdueDeliveryScanHandler(pool *pgxpool.Pool, client *Client, notifyAddr string, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload OverdueDeliveryScanPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		rows, err := pool.Query(ctx, `
			SELECT id, client_name, delivery_due_date
			FROM service_orders
			WHERE delivery_due_date IS NOT NULL
			  AND delivery_due_date < now()
			  AND logistics_status <> 'completed'
			  AND (finalization_type IS NULL OR finalization_type <> 'pickup')
			ORDER BY delivery_due_date
		`)
		if err != nil {
			return fmt.Errorf("list overdue orders: %w", err)
		}
		defer rows.Close()

		var overdue []overdueOrder
		for rows.Next() {
			var o overdueOrder
			if err := rows.Scan(&o.ID, &o.ClientName, &o.DueDate); err != nil {
				return fmt.Errorf("scan overdue order: %w", err)
			}
			overdue = append(overdue, o)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, o := range overdue {
			_, err := client.EnqueueSendEmail(ctx, SendEmailPayload{
				To:      notifyAddr,
				Subject: fmt.Sprintf("Entrega atrasada: OS #%d", o.ID),
				Body: fmt.Sprintf("A OS #%d (%s) venceu em %s e ainda não foi entregue.",
					o.ID, o.ClientName, o.DueDate.Format("02/01/2006")),
			})
			if err != nil {
				logger.Warn("enqueue overdue notification",
					slog.Int64("service_order_id", o.ID), slog.Any("error", err))
			}
		}

		logger.Info("overdue delivery scan done",
			slog.Int("overdue", len(overdue)),
			slog.Time("scheduled_for", payload.ScheduledFor))
		return nil
	}
}
