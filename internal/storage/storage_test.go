package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Chain-Defenders/forge-defender/internal/domain"
)

func finishedCatalog() *domain.Catalog {
	gas := uint64(21000)
	millis := int64(12)
	catalog := domain.NewCatalog()
	catalog.Replace([]*domain.TestContract{
		{
			Name: "CounterTest",
			Path: "test/Counter.t.sol",
			Tests: []*domain.TestCase{
				{Name: "test_increment", Status: domain.StatusPassed, GasUsed: &gas, DurationMillis: &millis},
				{Name: "test_decrement", Status: domain.StatusFailed, FailureReason: "underflow"},
				{Name: "test_skipped", Status: domain.StatusPending},
			},
		},
	})
	return catalog
}

func TestSnapshot(t *testing.T) {
	summary := Snapshot(finishedCatalog(), 3*time.Second)

	if summary.Meta.TotalContracts != 1 || summary.Meta.TotalTests != 3 {
		t.Errorf("unexpected totals: %+v", summary.Meta)
	}
	if summary.Meta.Passed != 1 || summary.Meta.Failed != 1 || summary.Meta.Unresolved != 1 {
		t.Errorf("unexpected status counts: %+v", summary.Meta)
	}
	if summary.Meta.DurationSeconds != 3 {
		t.Errorf("expected 3s duration, got %f", summary.Meta.DurationSeconds)
	}

	tests := summary.Contracts[0].Tests
	if tests[0].GasUsed == nil || *tests[0].GasUsed != 21000 {
		t.Errorf("expected gas carried through, got %v", tests[0].GasUsed)
	}
	if tests[1].FailureReason != "underflow" {
		t.Errorf("expected failure reason carried through, got %q", tests[1].FailureReason)
	}
}

func TestJSONStorage_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "summary.json")

	if err := NewJSONStorage().Save(path, finishedCatalog(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("summary file not written: %v", err)
	}
	var summary RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("summary is not valid JSON: %v", err)
	}
	if summary.Meta.TotalTests != 3 {
		t.Errorf("expected 3 tests in summary, got %d", summary.Meta.TotalTests)
	}
}
