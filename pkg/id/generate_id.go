package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// DateStamp renders t as the yyMMdd fragment used in daily ticket and
// item identifiers.
func DateStamp(t time.Time) string {
	return t.Format("060102")
}

// CustomerID formats a global customer sequence number: CUS-000042.
func CustomerID(seq int64) string {
	return fmt.Sprintf("CUS-%06d", seq)
}

// TicketNumber formats a per-day loan ticket: PT250831-0007.
func TicketNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("PT%s-%04d", DateStamp(t), seq)
}

// ItemID formats a per-day item identifier: ITM250831-0007.
func ItemID(t time.Time, seq int64) string {
	return fmt.Sprintf("ITM%s-%04d", DateStamp(t), seq)
}

// TransactionID formats a per-day fact identifier: TRX-250831-0007.
func TransactionID(t time.Time, seq int64) string {
	return fmt.Sprintf("TRX-%s-%04d", DateStamp(t), seq)
}

// FallbackTicket builds a ticket number with a random suffix. Only for
// degraded operation when the sequence allocator is unreachable; random
// suffixes can collide under concurrent operators, so callers must log
// every use.
func FallbackTicket(t time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(0)
	}
	return fmt.Sprintf("PT%s-%04d", DateStamp(t), n.Int64())
}
