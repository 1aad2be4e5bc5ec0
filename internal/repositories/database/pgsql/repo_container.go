package pgsql

import (
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres ledger store with the given job locker.
func NewRepositoryProvider(dbPool *pgxpool.Pool, locker portsrepo.JobLocker) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Ledger:    NewLedgerStore(dbPool),
		JobLocker: locker,
	}
}
