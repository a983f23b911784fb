package export

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// TokenLength is the number of hex characters in a disambiguation token
const TokenLength = 6

// TokenFunc returns a fresh disambiguation token
type TokenFunc func() string

// RandomToken returns TokenLength lowercase hex characters taken from a
// random (version 4) UUID
func RandomToken() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:TokenLength]
}

// disambiguatedName inserts the token between base and extension:
// report.txt -> report_1a2b3c.txt
func disambiguatedName(base, ext, token string) string {
	var b strings.Builder
	b.Grow(len(base) + len(ext) + len(token) + 1)
	b.WriteString(base)
	b.WriteByte('_')
	b.WriteString(token)
	b.WriteString(ext)
	return b.String()
}
