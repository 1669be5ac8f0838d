package ledger

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quantacoin/blockchain/business/sys/validate"
	"github.com/quantacoin/blockchain/foundation/blockchain/digest"
)

// SystemAccount is the sentinel from address used for coinbase and token
// issuance transactions. It never matches a real address so these
// transactions only ever credit.
const SystemAccount = "0x0000000000000000000000000000000000000000"

// ClockSkewTolerance bounds how far in the future a timestamp is accepted.
const ClockSkewTolerance = 10 * time.Minute

// Set of transaction types.
type TxType string

const (
	TxTypeTransfer      TxType = "transfer"
	TxTypeCoinbase      TxType = "coinbase"
	TxTypeMessage       TxType = "message"
	TxTypeContractCall  TxType = "contract-call"
	TxTypeTokenTransfer TxType = "token-transfer"
	TxTypeTokenCreation TxType = "token-creation"
)

// Set of transaction statuses.
type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusConfirmed TxStatus = "confirmed"
	TxStatusFailed    TxStatus = "failed"
	TxStatusCancelled TxStatus = "cancelled"
)

// =============================================================================

// Transaction is a unit of transfer or record between two addresses.
type Transaction struct {
	ID           string    `json:"id" validate:"required"`
	Type         TxType    `json:"type" validate:"required,oneof=transfer coinbase message contract-call token-transfer token-creation"`
	From         string    `json:"from" validate:"required"`
	To           string    `json:"to" validate:"required"`
	Amount       uint64    `json:"amount"`
	Fee          uint64    `json:"fee"`
	Timestamp    time.Time `json:"timestamp"`
	Data         string    `json:"data,omitempty"`
	Signature    string    `json:"signature,omitempty"`
	Status       TxStatus  `json:"status"`
	BlockHeight  uint64    `json:"block_height,omitempty"`
	IndexInBlock int       `json:"index_in_block,omitempty"`
}

// NewTransaction constructs a new pending transaction.
func NewTransaction(typ TxType, from string, to string, amount uint64, fee uint64, data string, signature string) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		Type:      typ,
		From:      from,
		To:        to,
		Amount:    amount,
		Fee:       fee,
		Timestamp: time.Now().UTC(),
		Data:      data,
		Signature: signature,
		Status:    TxStatusPending,
	}
}

// NewCoinbase constructs the reward transaction credited to the account
// that mines the next block.
func NewCoinbase(minerAccount string, reward uint64) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		Type:      TxTypeCoinbase,
		From:      SystemAccount,
		To:        minerAccount,
		Amount:    reward,
		Timestamp: time.Now().UTC(),
		Data:      "mining reward",
		Status:    TxStatusPending,
	}
}

// Validate checks the transaction against the static rules. Balance rules
// are applied separately by the state since they need chain history.
func (tx Transaction) Validate() error {
	if err := validate.Check(tx); err != nil {
		return err
	}

	if tx.Type != TxTypeMessage && tx.Amount == 0 {
		return fmt.Errorf("transaction type %q requires an amount greater than zero", tx.Type)
	}

	if tx.Timestamp.After(time.Now().Add(ClockSkewTolerance)) {
		return fmt.Errorf("transaction timestamp %v is too far in the future", tx.Timestamp)
	}

	return nil
}

// SpendsBalance reports whether the transaction moves value out of the
// from address and therefore needs funds to cover amount plus fee.
func (tx Transaction) SpendsBalance() bool {
	switch tx.Type {
	case TxTypeTransfer, TxTypeTokenTransfer, TxTypeContractCall:
		return true
	}
	return false
}

// HashString returns the hex encoded digest of the canonical representation
// of the transaction. Status and block placement are excluded so the hash
// does not change when the transaction is confirmed.
func (tx Transaction) HashString() string {
	s := fmt.Sprintf("%s|%s|%s|%d|%d|%s|%s",
		tx.Type, tx.From, tx.To, tx.Amount, tx.Fee,
		tx.Timestamp.UTC().Format(time.RFC3339Nano), tx.Data)

	return digest.Sum([]byte(s))
}

// Hash implements the merkle Hashable interface for providing a hash of
// the transaction.
func (tx Transaction) Hash() ([]byte, error) {
	return hex.DecodeString(tx.HashString())
}

// Equals implements the merkle Hashable interface for providing an equality
// check between two transactions.
func (tx Transaction) Equals(otherTx Transaction) bool {
	return tx.ID == otherTx.ID
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s:%s->%s:%d", tx.Type, tx.From, tx.To, tx.Amount)
}
