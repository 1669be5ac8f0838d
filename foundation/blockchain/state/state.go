// Package state is the core API for the blockchain node and implements
// all the business rules and processing.
package state

import (
	"sync"

	"github.com/quantacoin/blockchain/foundation/blockchain/genesis"
	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
	"github.com/quantacoin/blockchain/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events occur in the
// processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the node state.
type Config struct {
	Genesis   genesis.Genesis
	Storage   ledger.Serializer
	EvHandler EventHandler
}

// State manages the blockchain node. The ledger and the mempool together
// form one shared resource guarded by a single mutex: every public
// operation holds the lock for its full duration, including the nonce
// search performed by Mine. Each operation appears atomic to other
// callers at the cost of serializing all of them.
type State struct {
	mu sync.Mutex

	genesis   genesis.Genesis
	ledger    *ledger.Ledger
	mempool   *mempool.Mempool
	evHandler EventHandler
}

// New constructs the state for managing the node.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	l, err := ledger.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		ledger:    l,
		mempool:   mempool.New(),
		evHandler: ev,
	}

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Close()
}

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}
