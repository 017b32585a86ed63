package badger

import (
	"fmt"

	"github.com/fossouo/creche-pilou-chatbot/core"
)

// Key prefixes for different data types
const (
	unitPrefix   = "kbunit"
	sourceLogKey = "kbsources"
)

// makeUnitKey generates a key for a knowledge unit by content fingerprint.
// Fingerprints are hex strings, so lexicographic key order gives a stable
// iteration order for the merge step.
func makeUnitKey(fingerprint core.Fingerprint) []byte {
	return []byte(fmt.Sprintf("%s:%s", unitPrefix, fingerprint))
}

// makeSourceLogKey generates the key of the processed-sources record.
func makeSourceLogKey() []byte {
	return []byte(sourceLogKey)
}
