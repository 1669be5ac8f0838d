// Package mempool maintains the pool of pending transactions.
package mempool

import (
	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
)

// Mempool represents the queue of transactions waiting to be mined into a
// block, kept in arrival order. The pool carries no lock of its own: the
// state package serializes every operation on the pool and the ledger
// behind a single mutex, and only the mining path may call Drain.
type Mempool struct {
	pool []ledger.Transaction
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	return len(mp.pool)
}

// Append adds the transaction to the end of the pending queue. Validation
// happens before this call.
func (mp *Mempool) Append(tx ledger.Transaction) {
	mp.pool = append(mp.pool, tx)
}

// Drain returns the full pending list and empties the queue.
func (mp *Mempool) Drain() []ledger.Transaction {
	txs := mp.pool
	mp.pool = nil
	return txs
}

// Copy returns a read-only snapshot of the pending transactions without
// draining the queue.
func (mp *Mempool) Copy() []ledger.Transaction {
	txs := make([]ledger.Transaction, len(mp.pool))
	copy(txs, mp.pool)
	return txs
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.pool = nil
}
