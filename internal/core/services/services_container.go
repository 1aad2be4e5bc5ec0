package services

import (
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger/internal/platform/config"
	"github.com/SscSPs/credit_ledger/internal/platform/metrics"
)

// NewServiceContainer wires every engine to the shared ledger store.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Metrics) *portssvc.ServiceContainer {
	options := []ServiceOption{WithMetrics(m)}

	return &portssvc.ServiceContainer{
		Authorization: NewAuthorizationService(repos.Ledger, options...),
		Settlement:    NewSettlementService(repos.Ledger, options...),
		Payment:       NewPaymentService(repos.Ledger, options...),
		Statement: NewStatementService(repos.Ledger, repos.JobLocker, StatementConfig{
			Concurrency: cfg.StatementConcurrency,
			LockTTL:     cfg.BillingLockTTL,
		}, options...),
		Account: NewAccountService(repos.Ledger, []byte(cfg.CardHashKey), options...),
	}
}
