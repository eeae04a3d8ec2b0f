package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Chain-Defenders/forge-defender/internal/domain"
	"github.com/Chain-Defenders/forge-defender/internal/forge"
	"github.com/Chain-Defenders/forge-defender/internal/ui"
)

// Reconciler triggers forge test runs and folds the resulting report back
// into the catalog in place. Subscribers get a notification when the run's
// tests are marked running and another when the run completes.
type Reconciler struct {
	catalog *domain.Catalog
	runner  *forge.Runner
	log     *ui.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(catalog *domain.Catalog, runner *forge.Runner, log *ui.Logger) *Reconciler {
	return &Reconciler{
		catalog: catalog,
		runner:  runner,
		log:     log,
	}
}

// Run executes the suite (or a single test when matchTest is non-empty)
// and reconciles the report. Setup failures abort before execution and are
// returned to the caller. Execution failures are non-fatal: whatever
// output forge produced is still parsed, and if none is usable every
// in-flight test is marked failed instead of being left indeterminate.
// Overlapping calls are rejected with domain.ErrRunInProgress.
func (r *Reconciler) Run(ctx context.Context, matchTest string) error {
	if err := r.catalog.BeginRun(); err != nil {
		return err
	}
	defer r.catalog.EndRun()

	if err := r.runner.Setup(ctx); err != nil {
		r.log.Errorf("pre-test setup failed: %v", err)
		return err
	}

	r.catalog.MarkRunning(matchTest)

	stdout, stderr, execErr := r.runner.Test(ctx, matchTest)
	if execErr != nil {
		// Failing tests make forge exit non-zero while still printing
		// the report, so keep going on whatever output exists.
		r.log.Warnf("forge test exited with error: %v", execErr)
	}

	if strings.TrimSpace(stdout) == "" {
		n := r.catalog.FailRunning("test runner produced no output")
		r.log.Warnf("no report on stdout; marked %d in-flight test(s) failed", n)
		if msg := strings.TrimSpace(stderr); msg != "" {
			r.log.Debugf("forge stderr:\n%s", msg)
		}
		return nil
	}

	if err := r.Apply([]byte(stdout)); err != nil {
		n := r.catalog.FailRunning("test runner produced unparseable output")
		r.log.Warnf("%v; marked %d in-flight test(s) failed", err, n)
	}
	return nil
}

// Apply folds a forge JSON report into the catalog. Unresolvable contract
// or test keys are logged and skipped; only a malformed document is an
// error. Mutation happens under the catalog's mutex so snapshot readers
// (the viewer's render loop in particular) never race with it.
func (r *Reconciler) Apply(data []byte) error {
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("parse report: %w", err)
	}

	r.catalog.Update(func(contracts []*domain.TestContract) {
		for key, suite := range report {
			contract := findContract(contracts, contractNameFromKey(key))
			if contract == nil {
				r.log.Warnf("report references unknown contract %q", key)
				continue
			}
			for signature, result := range suite.TestResults {
				tc := matchTestCase(contract, signature)
				if tc == nil {
					r.log.Warnf("no test matching %q in contract %s", signature, contract.Name)
					continue
				}
				applyResult(tc, result)
			}
		}
	})
	return nil
}

func findContract(contracts []*domain.TestContract, name string) *domain.TestContract {
	for _, contract := range contracts {
		if contract.Name == name {
			return contract
		}
	}
	return nil
}

// contractNameFromKey extracts the contract name from a "path:Contract"
// suite key.
func contractNameFromKey(key string) string {
	if idx := strings.LastIndex(key, ":"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

// matchTestCase resolves a report signature against a contract's tests,
// trying in order: exact name, name with empty parens, and the bare name
// ahead of a full argument list.
func matchTestCase(contract *domain.TestContract, signature string) *domain.TestCase {
	if tc := contract.FindTest(signature); tc != nil {
		return tc
	}
	if name, ok := strings.CutSuffix(signature, "()"); ok {
		if tc := contract.FindTest(name); tc != nil {
			return tc
		}
	}
	if open := strings.Index(signature, "("); open > 0 && strings.HasSuffix(signature, ")") {
		return contract.FindTest(signature[:open])
	}
	return nil
}

// applyResult copies one report entry onto a test case.
func applyResult(tc *domain.TestCase, result TestResult) {
	if result.Status == StatusSuccess {
		tc.Status = domain.StatusPassed
	} else {
		tc.Status = domain.StatusFailed
	}

	millis := result.DurationMillis()
	tc.DurationMillis = &millis
	tc.GasUsed = result.GasUsed()

	if result.Reason != "" {
		tc.FailureReason = result.Reason
	}
}
