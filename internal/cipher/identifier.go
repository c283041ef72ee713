package cipher

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseIdentifier converts a textual hub identifier into its 6 raw
// bytes. Colon- and hyphen-delimited forms ("00:12:4B:32:89:BB",
// "00-12-4b-32-89-bb") and bare hex ("00124B3289BB") are accepted;
// anything that does not reduce to exactly 12 hex characters fails with
// ErrIdentifierFormat.
func ParseIdentifier(text string) ([]byte, error) {
	cleaned := strings.NewReplacer(":", "", "-", "").Replace(text)
	if len(cleaned) != IdentifierLength*2 {
		return nil, fmt.Errorf("identifier %q reduces to %d hex characters, want %d: %w",
			text, len(cleaned), IdentifierLength*2, ErrIdentifierFormat)
	}
	id, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("identifier %q: %w", text, ErrIdentifierFormat)
	}
	return id, nil
}

// FormatIdentifier renders a raw identifier in the conventional
// colon-delimited form.
func FormatIdentifier(id []byte) string {
	parts := make([]string, len(id))
	for i, b := range id {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ":")
}
