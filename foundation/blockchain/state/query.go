package state

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/quantacoin/blockchain/foundation/blockchain/accounts"
	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
)

// Balance returns the derived balance for the specified address,
// pending spends and credits included.
func (s *State) Balance(address string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return accounts.Balance(address, s.ledger.Snapshot(), s.mempool.Copy())
}

// Balances returns the derived balance of every address seen on the
// chain or in the pool, the system account excluded.
func (s *State) Balances() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return accounts.All(s.ledger.Snapshot(), s.mempool.Copy())
}

// Chain returns a copy of the full chain of blocks, genesis first.
func (s *State) Chain() []ledger.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Snapshot()
}

// LatestBlock returns a copy of the newest block on the chain.
func (s *State) LatestBlock() ledger.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Latest()
}

// ChainLength returns the number of blocks on the chain.
func (s *State) ChainLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Count()
}

// BlockByIndex returns a copy of the block at the specified height.
func (s *State) BlockByIndex(index uint64) (ledger.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, block := range s.ledger.Snapshot() {
		if block.Index == index {
			return block, true
		}
	}
	return ledger.Block{}, false
}

// PendingTransactions returns a copy of the pool in arrival order.
func (s *State) PendingTransactions() []ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mempool.Copy()
}

// PendingCount returns the number of transactions waiting in the pool.
func (s *State) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mempool.Count()
}

// Transactions returns every confirmed transaction on the chain in
// block order.
func (s *State) Transactions() []ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []ledger.Transaction
	for _, block := range s.ledger.Snapshot() {
		txs = append(txs, block.Payload.Transactions...)
	}
	return txs
}

// Search scans the chain for blocks whose height or hash prefix matches
// the query and for transactions whose serialized form contains it. The
// match on transactions is case insensitive.
func (s *State) Search(query string) ([]ledger.Block, []ledger.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	lower := strings.ToLower(query)

	var blocks []ledger.Block
	var txs []ledger.Transaction

	for _, block := range s.ledger.Snapshot() {
		if strconv.FormatUint(block.Index, 10) == query || strings.HasPrefix(block.Hash, lower) {
			blocks = append(blocks, block)
		}

		for _, tx := range block.Payload.Transactions {
			data, err := json.Marshal(tx)
			if err != nil {
				continue
			}
			if strings.Contains(strings.ToLower(string(data)), lower) {
				txs = append(txs, tx)
			}
		}
	}

	return blocks, txs
}
