package storage

// ApiStore defines the set of operations the engine needs outside of the ledger.
// Ledger access is kept separate so only the payment validator can debit.
type ApiStore interface {
	TicketStore
	CardStore
	QRRegistry
}
