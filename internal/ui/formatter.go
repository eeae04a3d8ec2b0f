package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/domain"
)

// Formatter renders the catalog and run summaries to the terminal.
type Formatter struct {
	config *config.Config
}

// NewFormatter creates a new Formatter.
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg}
}

// statusGlyph returns the marker shown next to a test for its state.
func statusGlyph(s domain.Status) string {
	switch s {
	case domain.StatusPassed:
		return "✓"
	case domain.StatusFailed:
		return "✗"
	case domain.StatusRunning:
		return "◐"
	default:
		return "○"
	}
}

func statusColor(s domain.Status) *color.Color {
	switch s {
	case domain.StatusPassed:
		return color.New(color.FgGreen)
	case domain.StatusFailed:
		return color.New(color.FgRed)
	case domain.StatusRunning:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}

// PrintCatalog prints the contract → test tree with per-test state, gas and
// duration.
func (f *Formatter) PrintCatalog(catalog *domain.Catalog) {
	contracts := catalog.Contracts()
	if len(contracts) == 0 {
		color.Yellow("No test contracts found")
		return
	}

	for _, contract := range contracts {
		color.Cyan("%s", contract.Name)
		color.White("  %s", contract.Path)
		for _, tc := range contract.Tests {
			line := fmt.Sprintf("  %s %s%s", statusGlyph(tc.Status), tc.Name, f.testDetails(tc))
			statusColor(tc.Status).Println(line)
			if tc.Status == domain.StatusFailed && tc.FailureReason != "" {
				color.Red("      %s", tc.FailureReason)
			}
		}
		fmt.Println()
	}
}

// testDetails formats the gas/duration suffix for a test line.
func (f *Formatter) testDetails(tc *domain.TestCase) string {
	details := ""
	if f.config.ShowGas && tc.GasUsed != nil {
		details += fmt.Sprintf(" (gas: %d)", *tc.GasUsed)
	}
	if tc.DurationMillis != nil {
		details += fmt.Sprintf(" [%dms]", *tc.DurationMillis)
	}
	return details
}

// PrintSummary prints the post-run statistics table.
func (f *Formatter) PrintSummary(catalog *domain.Catalog, duration time.Duration) {
	passed, failed, pending, running, total := catalog.Stats()

	fmt.Println()
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                      Test Run Statistics                      ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")
	fmt.Printf("│ %-31s │ ", "Total Tests")
	color.White("%-27d │", total)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
	fmt.Printf("│ %-31s │ ", "Passed")
	color.Green("%-27d │", passed)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
	fmt.Printf("│ %-31s │ ", "Failed")
	color.Red("%-27d │", failed)
	if pending+running > 0 {
		fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
		fmt.Printf("│ %-31s │ ", "Unresolved")
		color.Yellow("%-27d │", pending+running)
	}
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
	fmt.Printf("│ %-31s │ ", "Duration")
	color.White("%-27s │", duration.Round(time.Millisecond))
	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Println()
	if failed == 0 && total > 0 {
		color.Green("✓ All resolved tests passed")
	} else if failed > 0 {
		color.Red("✗ %d test(s) failed", failed)
	}
}
