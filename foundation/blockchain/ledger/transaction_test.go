package ledger_test

import (
	"testing"
	"time"

	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
)

func Test_TransactionValidate(t *testing.T) {
	type table struct {
		name    string
		mutate  func(tx *ledger.Transaction)
		wantErr bool
	}

	tt := []table{
		{
			name:    "valid transfer",
			mutate:  func(tx *ledger.Transaction) {},
			wantErr: false,
		},
		{
			name:    "unknown type",
			mutate:  func(tx *ledger.Transaction) { tx.Type = "teleport" },
			wantErr: true,
		},
		{
			name:    "missing from",
			mutate:  func(tx *ledger.Transaction) { tx.From = "" },
			wantErr: true,
		},
		{
			name:    "missing to",
			mutate:  func(tx *ledger.Transaction) { tx.To = "" },
			wantErr: true,
		},
		{
			name:    "zero amount transfer",
			mutate:  func(tx *ledger.Transaction) { tx.Amount = 0 },
			wantErr: true,
		},
		{
			name: "zero amount message",
			mutate: func(tx *ledger.Transaction) {
				tx.Type = ledger.TxTypeMessage
				tx.Amount = 0
			},
			wantErr: false,
		},
		{
			name: "timestamp too far in the future",
			mutate: func(tx *ledger.Transaction) {
				tx.Timestamp = time.Now().UTC().Add(ledger.ClockSkewTolerance + time.Minute)
			},
			wantErr: true,
		},
		{
			name: "timestamp within tolerance",
			mutate: func(tx *ledger.Transaction) {
				tx.Timestamp = time.Now().UTC().Add(time.Minute)
			},
			wantErr: false,
		},
	}

	t.Log("Given the need to validate transactions against the static rules.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking a %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					tx := ledger.NewTransaction(ledger.TxTypeTransfer, "0xFrom", "0xTo", 10, 1, "", "sig")
					tst.mutate(&tx)

					err := tx.Validate()
					switch {
					case tst.wantErr && err == nil:
						t.Errorf("\t%s\tTest %d:\tShould reject the transaction.", failed, testID)
					case !tst.wantErr && err != nil:
						t.Errorf("\t%s\tTest %d:\tShould accept the transaction: %v", failed, testID, err)
					default:
						t.Logf("\t%s\tTest %d:\tShould get the expected outcome.", success, testID)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_TransactionHash(t *testing.T) {
	t.Log("Given the need to hash transactions independent of their status.")
	{
		t.Logf("\tTest 0:\tWhen confirming a pending transaction.")
		{
			tx := ledger.NewTransaction(ledger.TxTypeTransfer, "0xFrom", "0xTo", 10, 1, "", "sig")
			pendingHash := tx.HashString()

			tx.Status = ledger.TxStatusConfirmed
			tx.BlockHeight = 7
			tx.IndexInBlock = 2

			if tx.HashString() != pendingHash {
				t.Fatalf("\t%s\tTest 0:\tShould keep the same hash after confirmation.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the same hash after confirmation.", success)
		}

		t.Logf("\tTest 1:\tWhen the amount changes.")
		{
			tx := ledger.NewTransaction(ledger.TxTypeTransfer, "0xFrom", "0xTo", 10, 1, "", "sig")
			before := tx.HashString()

			tx.Amount = 11
			if tx.HashString() == before {
				t.Fatalf("\t%s\tTest 1:\tShould change the hash when content changes.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould change the hash when content changes.", success)
		}
	}
}
