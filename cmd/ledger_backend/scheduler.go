package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger/internal/core/services"
)

// runBillingScheduler triggers the billing run once at start and then every
// interval until ctx is cancelled.
func runBillingScheduler(ctx context.Context, statements portssvc.StatementSvc, interval time.Duration, logger *slog.Logger) {
	logger = logger.With(slog.String("job", "billing-run"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runBilling(ctx, statements, logger)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runBilling(ctx context.Context, statements portssvc.StatementSvc, logger *slog.Logger) {
	result, err := statements.GenerateForPeriod(ctx)
	switch {
	case errors.Is(err, services.ErrBillingRunInProgress):
		logger.Info("Billing run held by another instance")
	case err != nil:
		logger.Error("Billing run failed", slog.String("error", err.Error()))
	default:
		logger.Info("Billing run complete",
			slog.Int("generated", result.GeneratedCount),
			slog.Int("skipped", result.SkippedCount),
			slog.Int("failed", result.FailedCount))
	}
}
