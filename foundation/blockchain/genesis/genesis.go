// Package genesis maintains access to the genesis document.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Token describes the token issued inside the genesis block.
type Token struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint   `json:"decimals"`
	TotalSupply uint64 `json:"total_supply"`
	Creator     string `json:"creator"`
}

// Genesis represents the genesis document for the chain.
type Genesis struct {
	Date         time.Time `json:"date"`
	Message      string    `json:"message"`       // Free text recorded in the genesis payload.
	Difficulty   int       `json:"difficulty"`    // Number of leading 0's required to solve the work problem.
	MiningReward uint64    `json:"mining_reward"` // Reward for mining a block.
	Token        Token     `json:"token"`         // Token issued to the creator inside the genesis block.
}

// =============================================================================

// Default returns the genesis document compiled into the node. It is used
// when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		Date:         time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Message:      "quantacoin genesis block",
		Difficulty:   4,
		MiningReward: 50,
		Token: Token{
			Name:        "Quanta",
			Symbol:      "QTC",
			Decimals:    8,
			TotalSupply: 21_000_000,
			Creator:     "0x8a3fE0A4953e163479e6dBDEeC5bF31B43cc3426",
		},
	}
}

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("parsing genesis file: %w", err)
	}

	if genesis.Difficulty < 0 {
		return Genesis{}, fmt.Errorf("genesis difficulty %d must not be negative", genesis.Difficulty)
	}

	return genesis, nil
}
