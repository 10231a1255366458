package quotations

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes gives 192 bits of entropy, enough that guessing a live
// token is not a realistic attack.
const tokenBytes = 24

// NewToken returns an opaque guest-access credential. The value carries
// no quotation data and is only ever compared for equality.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("quotations: generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
