package mention

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID generates an identifier for a mention whose source supplied
// none. IDs are prefixed with the source tag and sort by creation time.
func NewID(source Source) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return fmt.Sprintf("%s_%s", source, ulid.MustNew(ulid.Now(), entropy).String())
}
