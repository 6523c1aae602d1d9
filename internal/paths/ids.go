package paths

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewSessionID generates a "YYYY-MM-DD-{8 hex}" id using the current UTC
// date and a cryptographically random 32-bit tail.
func NewSessionID(now time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return fmt.Sprintf("%s-%s", now.UTC().Format("2006-01-02"), hex.EncodeToString(buf)), nil
}
