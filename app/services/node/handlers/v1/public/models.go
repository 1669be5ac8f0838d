package public

import (
	"time"

	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
	"github.com/quantacoin/blockchain/foundation/blockchain/state"
)

// newTx defines the payload clients post to submit a transaction.
type newTx struct {
	Type   string `json:"type" validate:"required"`
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Amount uint64 `json:"amount"`
	Fee    uint64 `json:"fee"`
	Data   string `json:"data"`
}

// tx is the client facing view of a transaction.
type tx struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	From         string    `json:"from"`
	FromName     string    `json:"from_name,omitempty"`
	To           string    `json:"to"`
	ToName       string    `json:"to_name,omitempty"`
	Amount       uint64    `json:"amount"`
	Fee          uint64    `json:"fee"`
	Timestamp    time.Time `json:"timestamp"`
	Data         string    `json:"data,omitempty"`
	Status       string    `json:"status"`
	BlockHeight  uint64    `json:"block_height"`
	IndexInBlock int       `json:"index_in_block"`
	Signature    string    `json:"signature,omitempty"`
}

// balance pairs an address with its derived balance.
type balance struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	Balance uint64 `json:"balance"`
}

// balances is the response for the balance listing.
type balances struct {
	LatestBlock string    `json:"latest_block"`
	Pending     int       `json:"pending"`
	Balances    []balance `json:"balances"`
}

// mineResult is the response for a mining round.
type mineResult struct {
	Success  bool          `json:"success"`
	Hash     string        `json:"hash,omitempty"`
	Nonce    uint64        `json:"nonce"`
	Duration string        `json:"duration"`
	Message  string        `json:"message"`
	Block    *ledger.Block `json:"block,omitempty"`
}

// searchResult is the response for the chain search.
type searchResult struct {
	Query        string         `json:"query"`
	Blocks       []ledger.Block `json:"blocks"`
	Transactions []tx           `json:"transactions"`
}

func toMineResult(mr state.MiningResult) mineResult {
	result := mineResult{
		Success:  mr.Success,
		Hash:     mr.Hash,
		Nonce:    mr.Nonce,
		Duration: mr.Duration.String(),
		Message:  mr.Message,
	}
	if mr.Success {
		result.Block = &mr.Block
	}
	return result
}
