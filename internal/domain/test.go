package domain

// Status is the lifecycle state of a test case.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
)

// TestCase represents a single test function discovered in a test contract.
// GasUsed and DurationMillis are nil until a run reports them.
type TestCase struct {
	Name           string
	Status         Status
	GasUsed        *uint64
	DurationMillis *int64
	FailureReason  string
}

// TestContract groups the test cases declared by one Solidity contract.
// Tests keep source order.
type TestContract struct {
	Name  string // contract name as declared in source
	Path  string // file the contract was parsed from, relative to the project root
	Tests []*TestCase
}

// FindTest returns the test case with the given name, or nil.
func (c *TestContract) FindTest(name string) *TestCase {
	for _, tc := range c.Tests {
		if tc.Name == name {
			return tc
		}
	}
	return nil
}
