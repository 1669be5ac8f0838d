// Package accounts derives address balances from transaction history.
// Balances are not stored anywhere, every call folds the full chain plus
// the pending transactions. Recomputing is cheap at this scale and removes
// any chance of update-ordering bugs.
package accounts

import (
	"math"

	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
)

// Balance folds every transaction in the confirmed chain and the pending
// pool that touches the address. The from side pays amount plus fee, the
// to side receives the amount. The coinbase sentinel from address never
// matches a real address so reward and issuance transactions only credit.
// Debits and credits saturate at the uint64 bounds instead of wrapping.
func Balance(address string, blocks []ledger.Block, pending []ledger.Transaction) uint64 {
	var balance uint64

	apply := func(tx ledger.Transaction) {
		if tx.From == address {
			out := tx.Amount + tx.Fee
			if tx.Amount > math.MaxUint64-tx.Fee {
				out = math.MaxUint64
			}
			if out > balance {
				balance = 0
			} else {
				balance -= out
			}
		}
		if tx.To == address {
			if tx.Amount > math.MaxUint64-balance {
				balance = math.MaxUint64
			} else {
				balance += tx.Amount
			}
		}
	}

	for _, block := range blocks {
		for _, tx := range block.Payload.Transactions {
			apply(tx)
		}
	}

	for _, tx := range pending {
		apply(tx)
	}

	return balance
}

// All returns the balance of every address that appears in the chain or
// the pending pool. The system sentinel address is excluded.
func All(blocks []ledger.Block, pending []ledger.Transaction) map[string]uint64 {
	seen := make(map[string]struct{})

	collect := func(tx ledger.Transaction) {
		if tx.From != ledger.SystemAccount {
			seen[tx.From] = struct{}{}
		}
		if tx.To != ledger.SystemAccount {
			seen[tx.To] = struct{}{}
		}
	}

	for _, block := range blocks {
		for _, tx := range block.Payload.Transactions {
			collect(tx)
		}
	}
	for _, tx := range pending {
		collect(tx)
	}

	balances := make(map[string]uint64, len(seen))
	for address := range seen {
		balances[address] = Balance(address, blocks, pending)
	}

	return balances
}
