package reconcile

import (
	"context"
	"sync"
	"testing"

	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/domain"
	"github.com/Chain-Defenders/forge-defender/internal/forge"
	"github.com/Chain-Defenders/forge-defender/internal/ui"
)

func testCatalog() *domain.Catalog {
	catalog := domain.NewCatalog()
	catalog.Replace([]*domain.TestContract{
		{
			Name: "A",
			Path: "file.sol",
			Tests: []*domain.TestCase{
				{Name: "testX", Status: domain.StatusPending},
				{Name: "testY", Status: domain.StatusPending},
			},
		},
		{
			Name: "B",
			Path: "file.sol",
			Tests: []*domain.TestCase{
				{Name: "testZ", Status: domain.StatusPending},
			},
		},
	})
	return catalog
}

func newTestReconciler(catalog *domain.Catalog) (*Reconciler, *config.Config) {
	cfg := config.New()
	log := ui.NewLogger(cfg)
	return NewReconciler(catalog, forge.NewRunner(cfg, log), log), cfg
}

func TestReconciler_Apply(t *testing.T) {
	t.Run("marks success with rounded duration", func(t *testing.T) {
		catalog := testCatalog()
		catalog.MarkRunning("")
		r, _ := newTestReconciler(catalog)

		report := `{"file.sol:A": {"test_results": {"testX()": {"status": "Success", "duration": {"secs": 0, "nanos": 1500000}}}}}`
		if err := r.Apply([]byte(report)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		a := catalog.FindContract("A")
		testX := a.FindTest("testX")
		if testX.Status != domain.StatusPassed {
			t.Errorf("testX should be passed, got %s", testX.Status)
		}
		if testX.DurationMillis == nil || *testX.DurationMillis != 2 {
			t.Errorf("testX duration should round 1.5ms up to 2ms, got %v", testX.DurationMillis)
		}

		if testY := a.FindTest("testY"); testY.Status != domain.StatusRunning {
			t.Errorf("testY should be untouched (running), got %s", testY.Status)
		}
		if testZ := catalog.FindContract("B").FindTest("testZ"); testZ.Status != domain.StatusRunning {
			t.Errorf("testZ should be untouched (running), got %s", testZ.Status)
		}
	})

	t.Run("matches all three signature forms", func(t *testing.T) {
		signatures := []string{"testX", "testX()", "testX(uint256,address)"}
		for _, signature := range signatures {
			t.Run(signature, func(t *testing.T) {
				catalog := testCatalog()
				r, _ := newTestReconciler(catalog)

				report := `{"file.sol:A": {"test_results": {"` + signature + `": {"status": "Success"}}}}`
				if err := r.Apply([]byte(report)); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tc := catalog.FindContract("A").FindTest("testX"); tc.Status != domain.StatusPassed {
					t.Errorf("signature %q did not resolve to testX", signature)
				}
			})
		}
	})

	t.Run("failure copies the reason verbatim", func(t *testing.T) {
		catalog := testCatalog()
		r, _ := newTestReconciler(catalog)

		report := `{"file.sol:A": {"test_results": {"testX()": {"status": "Failure", "reason": "assertion failed: 1 != 2"}}}}`
		if err := r.Apply([]byte(report)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testX := catalog.FindContract("A").FindTest("testX")
		if testX.Status != domain.StatusFailed {
			t.Errorf("testX should be failed, got %s", testX.Status)
		}
		if testX.FailureReason != "assertion failed: 1 != 2" {
			t.Errorf("unexpected reason: %q", testX.FailureReason)
		}
	})

	t.Run("unknown contract and test keys are skipped", func(t *testing.T) {
		catalog := testCatalog()
		r, _ := newTestReconciler(catalog)

		report := `{
			"file.sol:Nope": {"test_results": {"testX()": {"status": "Success"}}},
			"file.sol:A": {"test_results": {"testMissing()": {"status": "Success"}, "testY()": {"status": "Success"}}}
		}`
		if err := r.Apply([]byte(report)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tc := catalog.FindContract("A").FindTest("testY"); tc.Status != domain.StatusPassed {
			t.Errorf("testY should still be reconciled, got %s", tc.Status)
		}
	})

	t.Run("malformed report is an error", func(t *testing.T) {
		catalog := testCatalog()
		r, _ := newTestReconciler(catalog)
		if err := r.Apply([]byte("not json")); err == nil {
			t.Error("expected error for malformed report")
		}
	})

	t.Run("gas readings per kind", func(t *testing.T) {
		tests := []struct {
			name string
			kind string
			gas  uint64
		}{
			{
				name: "unit gas",
				kind: `{"Unit": {"gas": 21000}}`,
				gas:  21000,
			},
			{
				name: "fuzz mean gas preferred over first case",
				kind: `{"Fuzz": {"runs": 256, "mean_gas": 30000, "first_case": {"gas": 28000}}}`,
				gas:  30000,
			},
			{
				name: "fuzz first case when no mean",
				kind: `{"Fuzz": {"runs": 256, "first_case": {"gas": 28000}}}`,
				gas:  28000,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				catalog := testCatalog()
				r, _ := newTestReconciler(catalog)

				report := `{"file.sol:A": {"test_results": {"testX()": {"status": "Success", "kind": ` + tt.kind + `}}}}`
				if err := r.Apply([]byte(report)); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testX := catalog.FindContract("A").FindTest("testX")
				if testX.GasUsed == nil || *testX.GasUsed != tt.gas {
					t.Errorf("expected gas %d, got %v", tt.gas, testX.GasUsed)
				}
			})
		}
	})

	t.Run("result application is safe against concurrent rendering", func(t *testing.T) {
		catalog := testCatalog()
		catalog.MarkRunning("")
		r, _ := newTestReconciler(catalog)

		report := []byte(`{"file.sol:A": {"test_results": {"testX()": {"status": "Success", "duration": {"secs": 0, "nanos": 1500000}, "kind": {"Unit": {"gas": 21000}}}}}}`)

		// Mirrors the viewer: one goroutine applies results while another
		// renders detached snapshots. Meaningful under the race detector.
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if err := r.Apply(report); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				for _, contract := range catalog.Snapshot() {
					for _, tc := range contract.Tests {
						_ = tc.Status
						if tc.GasUsed != nil {
							_ = *tc.GasUsed
						}
						if tc.DurationMillis != nil {
							_ = *tc.DurationMillis
						}
					}
				}
			}
		}()
		wg.Wait()

		if tc := catalog.FindContract("A").FindTest("testX"); tc.Status != domain.StatusPassed {
			t.Errorf("testX should be passed, got %s", tc.Status)
		}
	})

	t.Run("gas unset when the report has none", func(t *testing.T) {
		catalog := testCatalog()
		r, _ := newTestReconciler(catalog)

		report := `{"file.sol:A": {"test_results": {"testX()": {"status": "Success"}}}}`
		if err := r.Apply([]byte(report)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gas := catalog.FindContract("A").FindTest("testX").GasUsed; gas != nil {
			t.Errorf("expected nil gas, got %d", *gas)
		}
	})
}

func TestReconciler_Run(t *testing.T) {
	t.Run("no output fails every in-flight test", func(t *testing.T) {
		catalog := testCatalog()
		cfg := config.New()
		cfg.ForgePath = "/nonexistent/forge-binary"
		cfg.InstallDeps = false
		cfg.BuildBeforeRun = false
		cfg.ProjectPath = t.TempDir()
		log := ui.NewLogger(cfg)
		r := NewReconciler(catalog, forge.NewRunner(cfg, log), log)

		if err := r.Run(context.Background(), ""); err != nil {
			t.Fatalf("execution failure should be non-fatal, got %v", err)
		}

		passed, failed, pending, running, total := catalog.Stats()
		if running != 0 {
			t.Errorf("no test may stay running, got %d", running)
		}
		if failed != total {
			t.Errorf("expected all %d tests failed, got passed=%d failed=%d pending=%d", total, passed, failed, pending)
		}
	})

	t.Run("scoped run only marks the matching test", func(t *testing.T) {
		catalog := testCatalog()
		cfg := config.New()
		cfg.ForgePath = "/nonexistent/forge-binary"
		cfg.InstallDeps = false
		cfg.BuildBeforeRun = false
		cfg.ProjectPath = t.TempDir()
		log := ui.NewLogger(cfg)
		r := NewReconciler(catalog, forge.NewRunner(cfg, log), log)

		if err := r.Run(context.Background(), "testZ"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tc := catalog.FindContract("B").FindTest("testZ"); tc.Status != domain.StatusFailed {
			t.Errorf("testZ should be failed, got %s", tc.Status)
		}
		if tc := catalog.FindContract("A").FindTest("testX"); tc.Status != domain.StatusPending {
			t.Errorf("testX should be untouched, got %s", tc.Status)
		}
	})

	t.Run("overlapping runs are rejected", func(t *testing.T) {
		catalog := testCatalog()
		r, _ := newTestReconciler(catalog)

		if err := catalog.BeginRun(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer catalog.EndRun()

		if err := r.Run(context.Background(), ""); err != domain.ErrRunInProgress {
			t.Errorf("expected ErrRunInProgress, got %v", err)
		}
	})

	t.Run("setup failure aborts before execution", func(t *testing.T) {
		catalog := testCatalog()
		cfg := config.New()
		cfg.ForgePath = "/nonexistent/forge-binary"
		cfg.InstallDeps = false
		cfg.BuildBeforeRun = true // forge build will fail to start
		cfg.ProjectPath = t.TempDir()
		log := ui.NewLogger(cfg)
		r := NewReconciler(catalog, forge.NewRunner(cfg, log), log)

		if err := r.Run(context.Background(), ""); err == nil {
			t.Fatal("expected setup failure to surface")
		}

		// Nothing was marked running, so nothing may have moved.
		if _, failed, pending, running, total := catalog.Stats(); failed != 0 || running != 0 || pending != total {
			t.Errorf("statuses should be untouched after setup failure (failed=%d running=%d pending=%d total=%d)",
				failed, running, pending, total)
		}
	})
}

func TestContractNameFromKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"test/Counter.t.sol:CounterTest", "CounterTest"},
		{"C:/proj/test/Counter.t.sol:CounterTest", "CounterTest"},
		{"NoPathContract", "NoPathContract"},
	}
	for _, tt := range tests {
		if got := contractNameFromKey(tt.key); got != tt.expected {
			t.Errorf("contractNameFromKey(%q) = %q, want %q", tt.key, got, tt.expected)
		}
	}
}
