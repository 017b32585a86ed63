package ingestion

import (
	"sync"

	"github.com/fossouo/creche-pilou-chatbot/core"
)

// claimTable serializes work per content fingerprint. Two sources with
// identical bytes map to the same fingerprint; without the claim, both
// workers would pass the exists-check before either had stored a unit and
// the content would be embedded twice.
type claimTable struct {
	mu     sync.Mutex
	claims map[core.Fingerprint]*claim
}

type claim struct {
	mu   sync.Mutex
	refs int
}

func newClaimTable() *claimTable {
	return &claimTable{claims: make(map[core.Fingerprint]*claim)}
}

// acquire blocks until the fingerprint is exclusively held and returns the
// release function. Check-then-build must happen entirely inside the hold.
func (t *claimTable) acquire(fingerprint core.Fingerprint) func() {
	t.mu.Lock()
	c, ok := t.claims[fingerprint]
	if !ok {
		c = &claim{}
		t.claims[fingerprint] = c
	}
	c.refs++
	t.mu.Unlock()

	c.mu.Lock()

	return func() {
		c.mu.Unlock()

		t.mu.Lock()
		c.refs--
		if c.refs == 0 {
			delete(t.claims, fingerprint)
		}
		t.mu.Unlock()
	}
}
