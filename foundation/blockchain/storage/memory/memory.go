// Package memory implements the ledger Serializer interface by keeping
// blocks in memory. Useful for testing and for nodes that don't need the
// chain to survive a restart.
package memory

import (
	"errors"

	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
)

// Memory represents the in-memory serialization implementation. This
// implements the ledger.Serializer interface.
type Memory struct {
	blocks []ledger.Block
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{}
}

// Close in this implementation has nothing to do.
func (m *Memory) Close() error {
	return nil
}

// Write appends the specified block to the in-memory chain.
func (m *Memory) Write(block ledger.Block) error {
	m.blocks = append(m.blocks, block)
	return nil
}

// GetBlock returns the contents of the specified block by index.
func (m *Memory) GetBlock(index uint64) (ledger.Block, error) {
	if index >= uint64(len(m.blocks)) {
		return ledger.Block{}, errors.New("block not found")
	}

	return m.blocks[index], nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with the genesis block.
func (m *Memory) ForEach() ledger.Iterator {
	return &iterator{memory: m}
}

// Reset clears out the in-memory chain.
func (m *Memory) Reset() error {
	m.blocks = nil
	return nil
}

// =============================================================================

// iterator implements the ledger.Iterator interface over the in-memory
// chain.
type iterator struct {
	memory  *Memory
	current uint64
	eoc     bool
}

// Next retrieves the next block in the chain.
func (it *iterator) Next() (ledger.Block, error) {
	if it.eoc {
		return ledger.Block{}, errors.New("end of chain")
	}

	block, err := it.memory.GetBlock(it.current)
	if err != nil {
		it.eoc = true
	}
	it.current++

	return block, err
}

// Done returns the end of chain value.
func (it *iterator) Done() bool {
	return it.eoc
}
