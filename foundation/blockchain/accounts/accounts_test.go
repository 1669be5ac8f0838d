package accounts_test

import (
	"math"
	"testing"

	"github.com/quantacoin/blockchain/foundation/blockchain/accounts"
	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Balance(t *testing.T) {
	type table struct {
		name    string
		blocks  []ledger.Block
		pending []ledger.Transaction
		final   map[string]uint64
	}

	tt := []table{
		{
			name: "coinbase and transfers",
			blocks: []ledger.Block{
				blockWith(
					tx(ledger.TxTypeCoinbase, ledger.SystemAccount, "0xMiner", 50, 0),
					tx(ledger.TxTypeTransfer, "0xMiner", "0xAlice", 20, 2),
				),
			},
			final: map[string]uint64{
				"0xMiner": 28,
				"0xAlice": 20,
			},
		},
		{
			name: "pending spends count against the sender",
			blocks: []ledger.Block{
				blockWith(tx(ledger.TxTypeCoinbase, ledger.SystemAccount, "0xMiner", 50, 0)),
			},
			pending: []ledger.Transaction{
				tx(ledger.TxTypeTransfer, "0xMiner", "0xBob", 10, 1),
			},
			final: map[string]uint64{
				"0xMiner": 39,
				"0xBob":   10,
			},
		},
		{
			name: "overdraft saturates at zero",
			blocks: []ledger.Block{
				blockWith(tx(ledger.TxTypeTransfer, "0xBroke", "0xAlice", 100, 0)),
			},
			final: map[string]uint64{
				"0xBroke": 0,
				"0xAlice": 100,
			},
		},
		{
			name: "debit where amount plus fee wraps",
			blocks: []ledger.Block{
				blockWith(tx(ledger.TxTypeCoinbase, ledger.SystemAccount, "0xMiner", 50, 0)),
			},
			pending: []ledger.Transaction{
				tx(ledger.TxTypeTransfer, "0xMiner", "0xBob", math.MaxUint64, 1),
			},
			final: map[string]uint64{
				"0xMiner": 0,
			},
		},
		{
			name: "credit saturates at the uint64 ceiling",
			blocks: []ledger.Block{
				blockWith(
					tx(ledger.TxTypeCoinbase, ledger.SystemAccount, "0xWhale", math.MaxUint64, 0),
					tx(ledger.TxTypeCoinbase, ledger.SystemAccount, "0xWhale", math.MaxUint64, 0),
				),
			},
			final: map[string]uint64{
				"0xWhale": math.MaxUint64,
			},
		},
	}

	t.Log("Given the need to derive balances from transaction history.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen folding %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					for address, exp := range tst.final {
						got := accounts.Balance(address, tst.blocks, tst.pending)
						if got != exp {
							t.Errorf("\t%s\tTest %d:\tShould have balance %d for %s: got %d", failed, testID, exp, address, got)
						} else {
							t.Logf("\t%s\tTest %d:\tShould have balance %d for %s.", success, testID, exp, address)
						}
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_All(t *testing.T) {
	t.Log("Given the need to list every address with a derived balance.")
	{
		t.Logf("\tTest 0:\tWhen the chain includes system issued transactions.")
		{
			blocks := []ledger.Block{
				blockWith(
					tx(ledger.TxTypeCoinbase, ledger.SystemAccount, "0xMiner", 50, 0),
					tx(ledger.TxTypeTransfer, "0xMiner", "0xAlice", 20, 0),
				),
			}

			all := accounts.All(blocks, nil)

			if _, exists := all[ledger.SystemAccount]; exists {
				t.Fatalf("\t%s\tTest 0:\tShould not list the system account.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not list the system account.", success)

			if len(all) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould list 2 addresses: got %d", failed, len(all))
			}
			t.Logf("\t%s\tTest 0:\tShould list 2 addresses.", success)

			if all["0xMiner"] != 30 || all["0xAlice"] != 20 {
				t.Fatalf("\t%s\tTest 0:\tShould compute the expected balances: got %v", failed, all)
			}
			t.Logf("\t%s\tTest 0:\tShould compute the expected balances.", success)
		}
	}
}

// =============================================================================

func tx(typ ledger.TxType, from string, to string, amount uint64, fee uint64) ledger.Transaction {
	return ledger.NewTransaction(typ, from, to, amount, fee, "", "sig")
}

func blockWith(txs ...ledger.Transaction) ledger.Block {
	return ledger.Block{
		Payload: ledger.Payload{Transactions: txs},
	}
}
