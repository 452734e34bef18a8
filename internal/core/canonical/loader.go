package canonical

import (
	"context"
	"sync"
)

// Ticket identifies one load request. Only the newest ticket is accepted.
type Ticket struct {
	Accession string
	gen       uint64
}

// Result is the outcome of a load.
type Result struct {
	Ticket Ticket
	Entry  Entry
	Err    error
}

// Loader serializes canonical requests so that the last request wins. A
// response for a superseded or cancelled ticket is discarded by the caller
// after checking Accept.
type Loader struct {
	src Source

	mu  sync.Mutex
	gen uint64
}

// NewLoader creates a loader over src.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Begin starts a new request and supersedes all earlier ones.
func (l *Loader) Begin(accession string) Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	return Ticket{Accession: accession, gen: l.gen}
}

// Cancel supersedes every request in flight without starting a new one.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
}

// Accept reports whether t is still the newest request.
func (l *Loader) Accept(t Ticket) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return t.gen != 0 && t.gen == l.gen
}

// Load fetches the sequence for t. It may be called from any goroutine.
func (l *Loader) Load(ctx context.Context, t Ticket) Result {
	e, err := l.src.Fetch(ctx, t.Accession)
	return Result{Ticket: t, Entry: e, Err: err}
}
