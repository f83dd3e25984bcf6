package common

import (
	"fmt"
	"math/rand"
	"time"
)

// MintSessionID generates an inspection session id. Both sides mint with
// the same shape so offline-started sessions look like server-started ones.
func MintSessionID() string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("INS-%d-%s", time.Now().UnixMilli(), string(b))
}
