package state

import (
	"errors"
	"fmt"
	"math"

	"github.com/quantacoin/blockchain/foundation/blockchain/accounts"
	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
)

// ErrInsufficientFunds is returned when a transaction would spend more
// than the derived balance of the from address, pending spends included.
var ErrInsufficientFunds = errors.New("insufficient funds")

// SubmitTransaction validates the transaction against the static rules
// and the derived balance of the sending address, then adds it to the
// pool of pending transactions. A rejection leaves no partial state.
func (s *State) SubmitTransaction(tx ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := tx.Validate(); err != nil {
		s.evHandler("state: submit: rejected: tx[%s]: %s", tx, err)
		return err
	}

	if tx.SpendsBalance() {

		// The amount plus fee must not wrap around. A sum that overflows
		// uint64 can never be covered by any balance.
		if tx.Amount > math.MaxUint64-tx.Fee {
			s.evHandler("state: submit: rejected: tx[%s]: amount plus fee overflows", tx)
			return fmt.Errorf("%w: amount %d plus fee %d overflows", ErrInsufficientFunds, tx.Amount, tx.Fee)
		}

		balance := accounts.Balance(tx.From, s.ledger.Snapshot(), s.mempool.Copy())
		if needed := tx.Amount + tx.Fee; needed > balance {
			s.evHandler("state: submit: rejected: tx[%s]: balance[%d] needed[%d]", tx, balance, needed)
			return fmt.Errorf("%w: account %s has %d, transaction needs %d", ErrInsufficientFunds, tx.From, balance, needed)
		}
	}

	tx.Status = ledger.TxStatusPending
	s.mempool.Append(tx)

	s.evHandler("state: submit: accepted: tx[%s]: pool[%d]", tx, s.mempool.Count())

	return nil
}
