package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomToken returns n upper-case base36 characters from crypto/rand.
func RandomToken(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(base36)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fallback: time-based entropy
			idx = big.NewInt(time.Now().UnixNano() % int64(len(base36)))
		}
		out[i] = base36[idx.Int64()]
	}
	return string(out)
}

// GenerateReference builds "<prefix>-<unix millis>-<9 random chars>".
func GenerateReference(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), RandomToken(9))
}
