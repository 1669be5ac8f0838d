package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quantacoin/blockchain/foundation/blockchain/digest"
	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
	"github.com/quantacoin/blockchain/foundation/blockchain/merkle"
)

// MiningResult reports the outcome of one mining round.
type MiningResult struct {
	Success  bool
	Block    ledger.Block
	Hash     string
	Nonce    uint64
	Duration time.Duration
	Message  string
}

// Mine composes a candidate block from the pending transactions plus a
// reward transaction for the miner and searches for a nonce that
// satisfies the difficulty target. On success the block is appended to
// the ledger and the pool is drained as one unit. On cancellation or
// nonce exhaustion the ledger and the pool are left untouched. The whole
// round runs inside the state's critical section, so there is never more
// than one search in flight.
func (s *State) Mine(ctx context.Context, minerAccount string) (MiningResult, error) {
	if minerAccount == "" {
		return MiningResult{}, errors.New("miner account is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	s.evHandler("state: mine: MINING: miner[%s] pool[%d]", minerAccount, s.mempool.Count())

	// The reward transaction always leads the block. Every transaction is
	// stamped with its final place in the chain before the merkle root is
	// computed, so the root commits to the confirmed form.
	txs := append([]ledger.Transaction{ledger.NewCoinbase(minerAccount, s.genesis.MiningReward)}, s.mempool.Copy()...)

	latest := s.ledger.Latest()
	index := latest.Index + 1

	for i := range txs {
		txs[i].Status = ledger.TxStatusConfirmed
		txs[i].BlockHeight = index
		txs[i].IndexInBlock = i
	}

	root, err := merkle.RootHex(txs)
	if err != nil {
		return MiningResult{}, err
	}

	block := ledger.Block{
		Index:     index,
		Timestamp: time.Now().UTC(),
		Payload: ledger.Payload{
			Message:      fmt.Sprintf("block mined by %s", minerAccount),
			Transactions: txs,
		},
		PrevHash:   latest.Hash,
		MerkleRoot: root,
	}

	if err := block.Search(ctx, s.genesis.Difficulty, s.evHandler); err != nil {
		reason := "mining cancelled"
		if errors.Is(err, ledger.ErrNonceExhausted) {
			reason = "nonce space exhausted"
		}
		s.evHandler("state: mine: MINING: failed: blk[%d]: %s", block.Index, reason)
		return MiningResult{Duration: time.Since(started), Message: reason}, nil
	}

	payload, err := block.Payload.Bytes()
	if err != nil {
		return MiningResult{}, err
	}
	signature, err := digest.Sign(payload)
	if err != nil {
		return MiningResult{}, err
	}
	block.Signature = signature

	if err := s.ledger.Append(block); err != nil {
		return MiningResult{}, err
	}
	s.mempool.Drain()

	duration := time.Since(started)
	s.evHandler("state: mine: MINING: completed: blk[%d] hash[%s] nonce[%d] dur[%v]", block.Index, block.Hash, block.Nonce, duration)

	return MiningResult{
		Success:  true,
		Block:    block,
		Hash:     block.Hash,
		Nonce:    block.Nonce,
		Duration: duration,
		Message:  fmt.Sprintf("block %d mined with %d transactions", block.Index, len(txs)),
	}, nil
}
