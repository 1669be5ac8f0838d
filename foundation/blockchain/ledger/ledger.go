// Package ledger owns the canonical, append-only sequence of blocks and
// the block and transaction model.
package ledger

import (
	"github.com/quantacoin/blockchain/foundation/blockchain/genesis"
)

// Serializer interface represents the behavior required to be implemented
// by any package providing support for storing and reading the chain.
type Serializer interface {
	Write(block Block) error
	GetBlock(index uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the persisted blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// Ledger owns the block sequence exclusively. It carries no lock of its
// own: the state package serializes every read and write of the ledger
// and the mempool behind a single mutex, and only the mining path may
// call Append.
type Ledger struct {
	genesis    genesis.Genesis
	blocks     []Block
	serializer Serializer
}

// New constructs a ledger. Persisted blocks are replayed and re-validated;
// a fresh chain starts with the genesis block, which is created without a
// nonce search.
func New(g genesis.Genesis, serializer Serializer, ev func(v string, args ...any)) (*Ledger, error) {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	l := Ledger{
		genesis:    g,
		serializer: serializer,
	}

	iter := serializer.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		l.blocks = append(l.blocks, block)
	}

	if len(l.blocks) == 0 {
		gb, err := newGenesisBlock(g)
		if err != nil {
			return nil, err
		}
		if err := serializer.Write(gb); err != nil {
			return nil, err
		}
		l.blocks = append(l.blocks, gb)

		ev("ledger: genesis block created: hash[%s]", gb.Hash)
		return &l, nil
	}

	if err := Validate(l.blocks, ev); err != nil {
		return nil, err
	}

	ev("ledger: loaded %d blocks from storage", len(l.blocks))
	return &l, nil
}

// Genesis returns a copy of the genesis information.
func (l *Ledger) Genesis() genesis.Genesis {
	return l.genesis
}

// Append adds the block to the end of the chain. The caller already proved
// the work, the nonce is not re-validated here.
func (l *Ledger) Append(block Block) error {
	if err := l.serializer.Write(block); err != nil {
		return err
	}
	l.blocks = append(l.blocks, block)

	return nil
}

// Latest returns the last block in the chain.
func (l *Ledger) Latest() Block {
	return l.blocks[len(l.blocks)-1]
}

// Snapshot returns an independent copy of the full chain. Callers never
// observe mutations that happen after the call.
func (l *Ledger) Snapshot() []Block {
	blocks := make([]Block, len(l.blocks))
	copy(blocks, l.blocks)

	for i := range blocks {
		txs := make([]Transaction, len(blocks[i].Payload.Transactions))
		copy(txs, blocks[i].Payload.Transactions)
		blocks[i].Payload.Transactions = txs
	}

	return blocks
}

// Count returns the current chain length.
func (l *Ledger) Count() int {
	return len(l.blocks)
}

// Close releases the underlying serializer.
func (l *Ledger) Close() error {
	return l.serializer.Close()
}
