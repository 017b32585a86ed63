package search

import (
	"sync/atomic"

	"github.com/fossouo/creche-pilou-chatbot/core"
)

// Snapshot holds the knowledge base currently being served. The knowledge
// base itself is immutable; a rebuild produces a new one that replaces the
// old atomically, so concurrent readers either see the previous complete
// merge or the next one, never a half-merged state.
type Snapshot struct {
	kb atomic.Pointer[core.KnowledgeBase]
}

// NewSnapshot creates a snapshot serving the given knowledge base.
// A nil knowledge base is served as an empty one.
func NewSnapshot(kb *core.KnowledgeBase) *Snapshot {
	s := &Snapshot{}
	s.Swap(kb)
	return s
}

// Current returns the knowledge base being served. The returned value must
// be treated as read-only.
func (s *Snapshot) Current() *core.KnowledgeBase {
	return s.kb.Load()
}

// Swap atomically replaces the served knowledge base.
func (s *Snapshot) Swap(kb *core.KnowledgeBase) {
	if kb == nil {
		kb = &core.KnowledgeBase{}
	}
	s.kb.Store(kb)
}
