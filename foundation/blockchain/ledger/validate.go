package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/quantacoin/blockchain/foundation/blockchain/digest"
	"github.com/quantacoin/blockchain/foundation/blockchain/merkle"
)

// Validate walks the chain from the block after genesis to the end and
// confirms hash linkage and the per block field invariants. The genesis
// block is exempt from the hash recomputation and link checks but its
// fields and sentinel previous hash are still checked. The returned error
// names the first block and check that failed.
func Validate(blocks []Block, ev func(v string, args ...any)) error {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if len(blocks) == 0 {
		return errors.New("chain is empty")
	}

	if blocks[0].PrevHash != digest.ZeroHash {
		return errors.New("block 0: previous hash is not the genesis sentinel")
	}
	if err := checkFields(blocks[0]); err != nil {
		return fmt.Errorf("block 0: %w", err)
	}

	for i := 1; i < len(blocks); i++ {
		block := blocks[i]
		ev("ledger: validate: blk[%d]: check: hash and linkage", block.Index)

		hash, err := block.ComputeHash()
		if err != nil {
			return fmt.Errorf("block %d: computing hash: %w", i, err)
		}
		if hash != block.Hash {
			return fmt.Errorf("block %d: stored hash does not match recomputed hash", i)
		}

		if block.PrevHash != blocks[i-1].Hash {
			return fmt.Errorf("block %d: previous hash does not match parent", i)
		}

		if block.Index != blocks[i-1].Index+1 {
			return fmt.Errorf("block %d: index is not the next number", i)
		}

		if err := checkFields(block); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}

	return nil
}

// checkFields applies the per block field invariants every block in the
// chain must satisfy, genesis included.
func checkFields(block Block) error {
	if len(block.Hash) != digest.HashLen {
		return errors.New("hash is not the proper length")
	}

	if block.PrevHash == "" {
		return errors.New("previous hash is missing")
	}

	if block.Signature == "" {
		return errors.New("signature is missing")
	}

	if block.Timestamp.After(time.Now().Add(ClockSkewTolerance)) {
		return errors.New("timestamp is too far in the future")
	}

	root, err := merkle.RootHex(block.Payload.Transactions)
	if err != nil {
		return err
	}
	if root != block.MerkleRoot {
		return errors.New("merkle root does not match transactions")
	}

	return nil
}
