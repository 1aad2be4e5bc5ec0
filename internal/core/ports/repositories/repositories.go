package repositories

// LedgerStore is the single persistence handle the engines share.
type LedgerStore interface {
	AccountRepositoryFacade
	CardRepositoryFacade
	TransactionReader
	StatementReader
	TransactionManager
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Ledger    LedgerStore
	JobLocker JobLocker
}
