// Package digest provides the hashing support for blocks and transactions.
package digest

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros. It is the previous hash
// recorded in the genesis block.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// HashLen is the number of characters a block or transaction hash carries.
const HashLen = 64

// =============================================================================

// Sum returns a hex encoded sha256 hash for the specified data.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// BlockHash hashes the canonical representation of the fields that identify
// a block. The payload must already be serialized in its canonical form so
// the same logical content always produces the same hash.
func BlockHash(index uint64, timestamp time.Time, payload []byte, prevHash string, nonce uint64) string {
	s := fmt.Sprintf("%d|%s|%s|%s|%d", index, timestamp.UTC().Format(time.RFC3339Nano), payload, prevHash, nonce)
	return Sum([]byte(s))
}

// Sign produces the auxiliary signature marker stamped on a mined block.
// The marker is derived from the payload plus a random salt. It marks the
// block as produced by this node and is not a verifiable signature.
func Sign(payload []byte) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("reading salt: %w", err)
	}

	hash := sha256.Sum256(append(payload, salt...))
	return hexutil.Encode(hash[:]), nil
}

// IsSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of 0's.
func IsSolved(difficulty int, hash string) bool {
	const match = ZeroHash

	if len(hash) != HashLen {
		return false
	}
	if difficulty < 0 {
		difficulty = 0
	}
	if difficulty > len(match) {
		difficulty = len(match)
	}

	return hash[:difficulty] == match[:difficulty]
}
