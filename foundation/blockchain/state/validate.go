package state

import (
	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
)

// Validate replays the chain from genesis and reports the first check
// any block fails. A chain that has never been tampered with validates
// on every call.
func (s *State) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ledger.Validate(s.ledger.Snapshot(), s.evHandler)
}
