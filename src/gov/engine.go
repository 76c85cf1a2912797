package gov

import (
	"sync"
	"time"
)

// Engine runs every public governance operation against a Store and Ledger.
// Locking follows the serialization model the records need: an
// organization-wide RWMutex write-held by administrative mutations and
// execution (both touch shared registries), read-held by proposal creation
// and voting; plus one mutex per proposal id so concurrent votes on the same
// proposal cannot race the tally read-modify-write. Votes on different
// proposals proceed in parallel.
type Engine struct {
	store    Store
	ledger   Ledger
	notifier Notifier

	// Now supplies the engine clock; tests replace it.
	Now func() time.Time

	// MirrorBalances marks the ledger as a read-only mirror of an external
	// chain; treasury deposits then skip the depositor-side debit.
	MirrorBalances bool

	adminMu sync.RWMutex

	lockMu sync.Mutex
	locks  map[uint64]*sync.Mutex
}

// NewEngine wires an engine. notifier may be nil.
func NewEngine(store Store, ledger Ledger, notifier Notifier) *Engine {
	return &Engine{
		store:    store,
		ledger:   ledger,
		notifier: notifier,
		Now:      time.Now,
		locks:    make(map[uint64]*sync.Mutex),
	}
}

// unixNow is the engine clock in Unix seconds.
func (e *Engine) unixNow() uint64 {
	return uint64(e.Now().Unix())
}

// proposalLock returns the mutex serializing writes to one proposal.
func (e *Engine) proposalLock(id uint64) *sync.Mutex {
	e.lockMu.Lock()
	defer e.lockMu.Unlock()
	mu, ok := e.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[id] = mu
	}
	return mu
}

// organization loads the singleton or fails with ErrNotInitialized.
func (e *Engine) organization() (*Organization, error) {
	org, err := e.store.Organization()
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNotInitialized
	}
	return org, nil
}

func (e *Engine) notifyCreated(p *Proposal) {
	if e.notifier != nil {
		e.notifier.ProposalCreated(p)
	}
}

func (e *Engine) notifyExecuted(p *Proposal) {
	if e.notifier != nil {
		e.notifier.ProposalExecuted(p)
	}
}
