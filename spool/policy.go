package spool

import "sync/atomic"

// Policy is the shared discard flag. A single *Policy is handed to the
// listener and to the web API; sessions snapshot its value once at dispatch
// and never re-read it.
type Policy struct {
	discard atomic.Bool
}

func NewPolicy(discard bool) *Policy {
	p := &Policy{}
	p.discard.Store(discard)
	return p
}

func (p *Policy) Discard() bool {
	return p.discard.Load()
}

func (p *Policy) SetDiscard(v bool) {
	p.discard.Store(v)
}
