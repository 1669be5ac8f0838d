package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/quantacoin/blockchain/foundation/blockchain/digest"
	"github.com/quantacoin/blockchain/foundation/blockchain/genesis"
	"github.com/quantacoin/blockchain/foundation/blockchain/merkle"
)

// ErrNonceExhausted is returned from Search when every representable nonce
// has been tried without finding a solution.
var ErrNonceExhausted = errors.New("nonce space exhausted")

// =============================================================================

// Payload is the data embedded inside a block. Token metadata is only
// present on the genesis block.
type Payload struct {
	Message      string         `json:"message"`
	Transactions []Transaction  `json:"transactions"`
	Token        *genesis.Token `json:"token,omitempty"`
}

// Bytes returns the canonical serialization of the payload. Identical
// logical content always serializes identically.
func (p Payload) Bytes() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}
	return data, nil
}

// =============================================================================

// Block represents one entry in the ledger.
type Block struct {
	Index      uint64    `json:"index"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    Payload   `json:"payload"`
	PrevHash   string    `json:"previous_hash"`
	Hash       string    `json:"hash"`
	Signature  string    `json:"signature"`
	Nonce      uint64    `json:"nonce"`
	MerkleRoot string    `json:"merkle_root"`
}

// ComputeHash recalculates the hash of the block from its stored fields.
func (b Block) ComputeHash() (string, error) {
	payload, err := b.Payload.Bytes()
	if err != nil {
		return "", err
	}

	return digest.BlockHash(b.Index, b.Timestamp, payload, b.PrevHash, b.Nonce), nil
}

// Search performs the proof of work. Starting at nonce zero it hashes the
// block until the hash carries the required number of leading zeros. The
// context is polled between attempts so a caller can cancel the search.
// The block's Hash and Nonce are set on success.
func (b *Block) Search(ctx context.Context, difficulty int, ev func(v string, args ...any)) error {
	payload, err := b.Payload.Bytes()
	if err != nil {
		return err
	}

	var attempts uint64
	for nonce := uint64(0); ; nonce++ {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("ledger: search: attempts[%d]", attempts)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		hash := digest.BlockHash(b.Index, b.Timestamp, payload, b.PrevHash, nonce)
		if digest.IsSolved(difficulty, hash) {
			b.Nonce = nonce
			b.Hash = hash
			return nil
		}

		if nonce == math.MaxUint64 {
			return ErrNonceExhausted
		}
	}
}

// =============================================================================

// newGenesisBlock constructs the first block in the chain. The genesis
// block issues the token supply to the creator and is never mined, its
// nonce is fixed at zero.
func newGenesisBlock(g genesis.Genesis) (Block, error) {
	issuance := Transaction{
		ID:        uuid.NewString(),
		Type:      TxTypeTokenCreation,
		From:      SystemAccount,
		To:        g.Token.Creator,
		Amount:    g.Token.TotalSupply,
		Timestamp: g.Date,
		Data:      fmt.Sprintf("%s (%s) issuance", g.Token.Name, g.Token.Symbol),
		Status:    TxStatusConfirmed,
	}

	note := Transaction{
		ID:        uuid.NewString(),
		Type:      TxTypeMessage,
		From:      SystemAccount,
		To:        SystemAccount,
		Timestamp: g.Date,
		Data:      g.Message,
		Status:    TxStatusConfirmed,
	}

	txs := []Transaction{issuance, note}
	for i := range txs {
		txs[i].BlockHeight = 0
		txs[i].IndexInBlock = i
	}

	root, err := merkle.RootHex(txs)
	if err != nil {
		return Block{}, err
	}

	token := g.Token
	payload := Payload{
		Message:      g.Message,
		Transactions: txs,
		Token:        &token,
	}

	data, err := payload.Bytes()
	if err != nil {
		return Block{}, err
	}

	signature, err := digest.Sign(data)
	if err != nil {
		return Block{}, err
	}

	block := Block{
		Index:      0,
		Timestamp:  g.Date,
		Payload:    payload,
		PrevHash:   digest.ZeroHash,
		Signature:  signature,
		Nonce:      0,
		MerkleRoot: root,
	}

	hash, err := block.ComputeHash()
	if err != nil {
		return Block{}, err
	}
	block.Hash = hash

	return block, nil
}
