package notification

import (
	"context"

	"shilajit-be/internal/logger"

	"go.uber.org/zap"
)

// Dispatch records intent with rec. A failure is logged and reported as false;
// it is never returned to the caller.
func Dispatch(ctx context.Context, rec Recorder, intent Intent) bool {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "notification"),
		zap.String("kind", string(intent.Kind)),
		zap.String("order_number", intent.Data.OrderNumber),
	)

	if rec == nil {
		log.Warn("no notification recorder configured, intent dropped")
		return false
	}
	if err := rec.Enqueue(ctx, intent); err != nil {
		log.Error("failed to record notification", zap.Error(err))
		return false
	}

	log.Debug("notification recorded")
	return true
}
