package storage

import (
	"time"

	"github.com/Chain-Defenders/forge-defender/internal/domain"
)

// Storage exports finished run summaries. The catalog itself stays
// in-memory; this is a one-way report for CI or tooling, never read back.
type Storage interface {
	Save(path string, catalog *domain.Catalog, duration time.Duration) error
}

// RunSummary is the exported document.
type RunSummary struct {
	Meta      SummaryMeta       `json:"meta"`
	Contracts []ContractSummary `json:"contracts"`
}

// SummaryMeta aggregates the run.
type SummaryMeta struct {
	TotalContracts  int     `json:"total_contracts"`
	TotalTests      int     `json:"total_tests"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	Unresolved      int     `json:"unresolved"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// ContractSummary is one contract's slice of the summary.
type ContractSummary struct {
	Name  string        `json:"name"`
	Path  string        `json:"path"`
	Tests []TestSummary `json:"tests"`
}

// TestSummary is one test's outcome.
type TestSummary struct {
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	GasUsed        *uint64 `json:"gas_used,omitempty"`
	DurationMillis *int64  `json:"duration_millis,omitempty"`
	FailureReason  string  `json:"failure_reason,omitempty"`
}

// Snapshot converts the catalog's current state into a RunSummary.
func Snapshot(catalog *domain.Catalog, duration time.Duration) RunSummary {
	passed, failed, pending, running, total := catalog.Stats()
	contracts := catalog.Contracts()

	summary := RunSummary{
		Meta: SummaryMeta{
			TotalContracts:  len(contracts),
			TotalTests:      total,
			Passed:          passed,
			Failed:          failed,
			Unresolved:      pending + running,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
	}

	for _, contract := range contracts {
		cs := ContractSummary{Name: contract.Name, Path: contract.Path}
		for _, tc := range contract.Tests {
			cs.Tests = append(cs.Tests, TestSummary{
				Name:           tc.Name,
				Status:         string(tc.Status),
				GasUsed:        tc.GasUsed,
				DurationMillis: tc.DurationMillis,
				FailureReason:  tc.FailureReason,
			})
		}
		summary.Contracts = append(summary.Contracts, cs)
	}
	return summary
}
