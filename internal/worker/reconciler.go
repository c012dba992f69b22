package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/config"
)

type ShipmentReconciler interface {
	ReconcileShipments(ctx context.Context, minAge time.Duration) error
}

// Reconciler periodically retries shipment creation for orders left without
// a shipment reference by a failed fan-out.
type Reconciler struct {
	logger   *slog.Logger
	svc      ShipmentReconciler
	interval time.Duration
	minAge   time.Duration
}

func NewReconciler(logger *slog.Logger, svc ShipmentReconciler, cfg config.Reconciler) *Reconciler {
	return &Reconciler{
		logger:   logger.With(slog.String("worker", "reconciler")),
		svc:      svc,
		interval: cfg.Interval,
		minAge:   cfg.MinAge,
	}
}

func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("shipment reconciler started", slog.Duration("interval", r.interval))
	for {
		select {
		case <-ticker.C:
			if err := r.svc.ReconcileShipments(ctx, r.minAge); err != nil {
				r.logger.Error("reconcile pass failed", slog.Any("error", err))
			}
		case <-ctx.Done():
			r.logger.Info("shipment reconciler stopped")
			return
		}
	}
}
