package state_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/quantacoin/blockchain/foundation/blockchain/genesis"
	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
	"github.com/quantacoin/blockchain/foundation/blockchain/state"
	"github.com/quantacoin/blockchain/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const miner = "0xFef311483Cc040e1A89fb9bb469eeB8A70935EF8"
const alice = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"

// newState constructs a state over in-memory storage with a difficulty
// low enough for tests to mine instantly.
func newState(t *testing.T) *state.State {
	t.Helper()

	gen := genesis.Default()
	gen.Difficulty = 0

	st, err := state.New(state.Config{
		Genesis: gen,
		Storage: memory.New(),
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	return st
}

// =============================================================================

func Test_Mine(t *testing.T) {
	t.Log("Given the need to mine blocks from the pending pool.")
	{
		t.Logf("\tTest 0:\tWhen mining with an empty pool.")
		{
			st := newState(t)

			result, err := st.Mine(context.Background(), miner)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine: %v", failed, err)
			}
			if !result.Success {
				t.Fatalf("\t%s\tTest 0:\tShould succeed at difficulty zero: %s", failed, result.Message)
			}
			t.Logf("\t%s\tTest 0:\tShould succeed at difficulty zero.", success)

			if st.ChainLength() != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould have 2 blocks on the chain: got %d", failed, st.ChainLength())
			}
			t.Logf("\t%s\tTest 0:\tShould have 2 blocks on the chain.", success)

			reward := st.Genesis().MiningReward
			if got := st.Balance(miner); got != reward {
				t.Fatalf("\t%s\tTest 0:\tShould credit the miner the reward %d: got %d", failed, reward, got)
			}
			t.Logf("\t%s\tTest 0:\tShould credit the miner the reward.", success)

			block := result.Block
			if block.Payload.Transactions[0].Type != ledger.TxTypeCoinbase {
				t.Fatalf("\t%s\tTest 0:\tShould lead the block with the reward transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould lead the block with the reward transaction.", success)

			if block.Payload.Transactions[0].Status != ledger.TxStatusConfirmed {
				t.Fatalf("\t%s\tTest 0:\tShould stamp transactions confirmed.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould stamp transactions confirmed.", success)

			if block.Signature == "" {
				t.Fatalf("\t%s\tTest 0:\tShould sign the mined block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould sign the mined block.", success)
		}

		t.Logf("\tTest 1:\tWhen mining with pooled transactions.")
		{
			st := newState(t)

			// Fund the sender with a mining reward first.
			if _, err := st.Mine(context.Background(), alice); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine the funding block: %v", failed, err)
			}

			tx := ledger.NewTransaction(ledger.TxTypeTransfer, alice, miner, 10, 1, "", "sig")
			if err := st.SubmitTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to submit a funded transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to submit a funded transaction.", success)

			result, err := st.Mine(context.Background(), miner)
			if err != nil || !result.Success {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine the pool: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to mine the pool.", success)

			if st.PendingCount() != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould drain the pool after mining: got %d", failed, st.PendingCount())
			}
			t.Logf("\t%s\tTest 1:\tShould drain the pool after mining.", success)

			reward := st.Genesis().MiningReward
			if got := st.Balance(miner); got != reward+10 {
				t.Fatalf("\t%s\tTest 1:\tShould credit the miner reward plus transfer: got %d", failed, got)
			}
			if got := st.Balance(alice); got != reward-11 {
				t.Fatalf("\t%s\tTest 1:\tShould debit the sender amount plus fee: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould settle both balances.", success)

			if err := st.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould validate the grown chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould validate the grown chain.", success)
		}

		t.Logf("\tTest 2:\tWhen the mining context is cancelled.")
		{
			st := newState(t)

			tx := ledger.NewTransaction(ledger.TxTypeMessage, alice, alice, 0, 0, "note", "sig")
			if err := st.SubmitTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to submit a message transaction: %v", failed, err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := st.Mine(ctx, miner)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould not return an error on cancellation: %v", failed, err)
			}
			if result.Success {
				t.Fatalf("\t%s\tTest 2:\tShould report a failed round.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould report a failed round.", success)

			if st.ChainLength() != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould leave the chain untouched: got %d blocks", failed, st.ChainLength())
			}
			t.Logf("\t%s\tTest 2:\tShould leave the chain untouched.", success)

			if st.PendingCount() != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould leave the pool untouched: got %d", failed, st.PendingCount())
			}
			t.Logf("\t%s\tTest 2:\tShould leave the pool untouched.", success)
		}

		t.Logf("\tTest 3:\tWhen mining without a miner account.")
		{
			st := newState(t)

			if _, err := st.Mine(context.Background(), ""); err == nil {
				t.Fatalf("\t%s\tTest 3:\tShould reject an empty miner account.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould reject an empty miner account.", success)
		}
	}
}

func Test_SubmitTransaction(t *testing.T) {
	t.Log("Given the need to guard the pool against invalid transactions.")
	{
		t.Logf("\tTest 0:\tWhen the sender cannot cover amount plus fee.")
		{
			st := newState(t)

			tx := ledger.NewTransaction(ledger.TxTypeTransfer, alice, miner, 10, 1, "", "sig")
			err := st.SubmitTransaction(tx)
			if err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject the unfunded transaction.", failed)
			}
			if !errors.Is(err, state.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest 0:\tShould report insufficient funds: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould report insufficient funds.", success)

			if st.PendingCount() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the pool empty: got %d", failed, st.PendingCount())
			}
			t.Logf("\t%s\tTest 0:\tShould leave the pool empty.", success)
		}

		t.Logf("\tTest 1:\tWhen pending spends already commit the balance.")
		{
			st := newState(t)

			if _, err := st.Mine(context.Background(), alice); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine the funding block: %v", failed, err)
			}
			reward := st.Genesis().MiningReward

			// First spend is covered.
			tx1 := ledger.NewTransaction(ledger.TxTypeTransfer, alice, miner, reward-1, 1, "", "sig")
			if err := st.SubmitTransaction(tx1); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept the first spend: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould accept the first spend.", success)

			// Second spend would double spend the same funds.
			tx2 := ledger.NewTransaction(ledger.TxTypeTransfer, alice, miner, 1, 0, "", "sig")
			if err := st.SubmitTransaction(tx2); !errors.Is(err, state.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the second spend: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the second spend.", success)
		}

		t.Logf("\tTest 2:\tWhen the transaction fails the static rules.")
		{
			st := newState(t)

			tx := ledger.NewTransaction("teleport", alice, miner, 10, 1, "", "sig")
			if err := st.SubmitTransaction(tx); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject an unknown transaction type.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject an unknown transaction type.", success)
		}

		t.Logf("\tTest 3:\tWhen amount plus fee overflows uint64.")
		{
			st := newState(t)

			tx := ledger.NewTransaction(ledger.TxTypeTransfer, alice, miner, math.MaxUint64, 1, "", "sig")
			err := st.SubmitTransaction(tx)
			if err == nil {
				t.Fatalf("\t%s\tTest 3:\tShould reject the wrapping transaction.", failed)
			}
			if !errors.Is(err, state.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest 3:\tShould report insufficient funds: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould report insufficient funds.", success)

			if st.PendingCount() != 0 {
				t.Fatalf("\t%s\tTest 3:\tShould leave the pool empty: got %d", failed, st.PendingCount())
			}
			t.Logf("\t%s\tTest 3:\tShould leave the pool empty.", success)

			if got := st.Balance(miner); got != 0 {
				t.Fatalf("\t%s\tTest 3:\tShould not credit the recipient: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 3:\tShould not credit the recipient.", success)
		}
	}
}

func Test_Queries(t *testing.T) {
	t.Log("Given the need to query the chain.")
	{
		t.Logf("\tTest 0:\tWhen searching blocks and transactions.")
		{
			st := newState(t)

			result, err := st.Mine(context.Background(), miner)
			if err != nil || !result.Success {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine a block: %v", failed, err)
			}

			blocks, _ := st.Search("1")
			var foundHeight bool
			for _, block := range blocks {
				if block.Index == 1 {
					foundHeight = true
				}
			}
			if !foundHeight {
				t.Fatalf("\t%s\tTest 0:\tShould find block 1 by its height.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find block 1 by its height.", success)

			hashBlocks, _ := st.Search(result.Hash)
			if len(hashBlocks) != 1 || hashBlocks[0].Hash != result.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould find the mined block by its hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find the mined block by its hash.", success)

			_, txs := st.Search(miner)
			if len(txs) == 0 {
				t.Fatalf("\t%s\tTest 0:\tShould find transactions by address content.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find transactions by address content.", success)

			if blocks, _ := st.Search("zzz"); len(blocks) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould find nothing for an unknown query.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find nothing for an unknown query.", success)
		}

		t.Logf("\tTest 1:\tWhen reading blocks by index.")
		{
			st := newState(t)

			block, found := st.BlockByIndex(0)
			if !found || block.Index != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould find the genesis block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould find the genesis block.", success)

			if _, found := st.BlockByIndex(42); found {
				t.Fatalf("\t%s\tTest 1:\tShould not find a missing block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould not find a missing block.", success)

			if st.LatestBlock().Hash != block.Hash {
				t.Fatalf("\t%s\tTest 1:\tShould report genesis as the latest block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould report genesis as the latest block.", success)
		}

		t.Logf("\tTest 2:\tWhen listing confirmed transactions.")
		{
			st := newState(t)

			if _, err := st.Mine(context.Background(), miner); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to mine a block: %v", failed, err)
			}

			txs := st.Transactions()

			// Genesis holds issuance plus message, the mined block one reward.
			if len(txs) != 3 {
				t.Fatalf("\t%s\tTest 2:\tShould list 3 confirmed transactions: got %d", failed, len(txs))
			}
			t.Logf("\t%s\tTest 2:\tShould list 3 confirmed transactions.", success)
		}
	}
}
