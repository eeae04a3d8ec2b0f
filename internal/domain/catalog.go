package domain

import (
	"errors"
	"sync"
)

// ErrRunInProgress is returned when a run is requested while another one
// still holds the catalog. Overlapping runs are rejected, not queued.
var ErrRunInProgress = errors.New("a test run is already in progress")

// Catalog is the shared collection of discovered test contracts. It is the
// only mutable state in the system: discovery replaces its contents
// wholesale, reconciliation mutates test cases in place. A run-in-progress
// flag keeps writers from interleaving, and subscribers get one
// notification per completed discovery pass or run.
type Catalog struct {
	mu        sync.Mutex
	contracts []*TestContract
	running   bool
	subs      []chan struct{}
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Replace swaps in a freshly discovered set of contracts. Previous contract
// and test case instances are discarded, not merged, so any result state
// they carried is lost until the next run re-associates by name.
func (c *Catalog) Replace(contracts []*TestContract) {
	c.mu.Lock()
	c.contracts = contracts
	c.mu.Unlock()
	c.notify()
}

// Contracts returns a snapshot of the current contract list. The contract
// and test case instances are shared, so callers racing with a run must use
// Snapshot instead.
func (c *Catalog) Contracts() []*TestContract {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*TestContract, len(c.contracts))
	copy(out, c.contracts)
	return out
}

// Snapshot returns a deep copy of the catalog for lock-free rendering.
// The copies are detached: result mutation after the snapshot does not
// show through.
func (c *Catalog) Snapshot() []*TestContract {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*TestContract, 0, len(c.contracts))
	for _, contract := range c.contracts {
		cc := &TestContract{
			Name:  contract.Name,
			Path:  contract.Path,
			Tests: make([]*TestCase, 0, len(contract.Tests)),
		}
		for _, tc := range contract.Tests {
			dup := *tc
			cc.Tests = append(cc.Tests, &dup)
		}
		out = append(out, cc)
	}
	return out
}

// Update runs fn with the mutex held, giving it write access to the
// contract list. All result mutation goes through here so snapshot readers
// never observe torn state.
func (c *Catalog) Update(fn func(contracts []*TestContract)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.contracts)
}

// FindContract returns the contract with the given name, or nil.
func (c *Catalog) FindContract(name string) *TestContract {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, contract := range c.contracts {
		if contract.Name == name {
			return contract
		}
	}
	return nil
}

// BeginRun acquires the run-in-progress flag. It fails with
// ErrRunInProgress instead of blocking when another run holds it.
func (c *Catalog) BeginRun() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrRunInProgress
	}
	c.running = true
	return nil
}

// EndRun releases the run-in-progress flag and emits the batch change
// notification for the run.
func (c *Catalog) EndRun() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	c.notify()
}

// RunInProgress reports whether a run currently holds the catalog.
func (c *Catalog) RunInProgress() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// MarkRunning transitions test cases to the running state for a new
// invocation. An empty testName marks every test; otherwise only matching
// tests are marked. Subscribers are notified so viewers show the in-flight
// markers before results land.
func (c *Catalog) MarkRunning(testName string) {
	c.mu.Lock()
	for _, contract := range c.contracts {
		for _, tc := range contract.Tests {
			if testName == "" || tc.Name == testName {
				tc.Status = StatusRunning
			}
		}
	}
	c.mu.Unlock()
	c.notify()
}

// FailRunning forces every test still in the running state to failed with
// the given reason. Returns the number of tests affected. Used when the
// runner produced no usable output so nothing is left indeterminate.
func (c *Catalog) FailRunning(reason string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, contract := range c.contracts {
		for _, tc := range contract.Tests {
			if tc.Status == StatusRunning {
				tc.Status = StatusFailed
				tc.FailureReason = reason
				n++
			}
		}
	}
	return n
}

// Stats returns the number of tests per status plus the total.
func (c *Catalog) Stats() (passed, failed, pending, running, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, contract := range c.contracts {
		for _, tc := range contract.Tests {
			total++
			switch tc.Status {
			case StatusPassed:
				passed++
			case StatusFailed:
				failed++
			case StatusRunning:
				running++
			default:
				pending++
			}
		}
	}
	return
}

// Subscribe returns a channel that receives a coalesced signal after each
// discovery pass, mark-running transition, or completed run.
func (c *Catalog) Subscribe() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{}, 1)
	c.subs = append(c.subs, ch)
	return ch
}

func (c *Catalog) notify() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
