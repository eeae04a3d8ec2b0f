package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/domain"
)

// RunFunc triggers a test run. An empty test name runs the whole suite.
type RunFunc func(testName string) error

// TreeViewer displays the catalog as an interactive tree: project root →
// contracts → tests. Pressing r on a test re-runs it; on a contract or the
// root it re-runs everything.
type TreeViewer struct {
	config  *config.Config
	catalog *domain.Catalog
	run     RunFunc
}

// NewTreeViewer creates a new TreeViewer. run may be nil for a read-only view.
func NewTreeViewer(cfg *config.Config, catalog *domain.Catalog, run RunFunc) *TreeViewer {
	return &TreeViewer{
		config:  cfg,
		catalog: catalog,
		run:     run,
	}
}

func treeStatusTag(s domain.Status) string {
	switch s {
	case domain.StatusPassed:
		return "[green]"
	case domain.StatusFailed:
		return "[red]"
	case domain.StatusRunning:
		return "[cyan]"
	default:
		return "[white]"
	}
}

// testNodeText renders one test leaf with its glyph, gas and duration.
func (v *TreeViewer) testNodeText(tc *domain.TestCase) string {
	text := fmt.Sprintf("%s%s %s", treeStatusTag(tc.Status), statusGlyph(tc.Status), tc.Name)
	if v.config.ShowGas && tc.GasUsed != nil {
		text += fmt.Sprintf(" [yellow](gas: %d)", *tc.GasUsed)
	}
	if tc.DurationMillis != nil {
		text += fmt.Sprintf(" [gray][%dms]", *tc.DurationMillis)
	}
	return text + "[white]"
}

func (v *TreeViewer) contractNodeText(contract *domain.TestContract) string {
	passed, failed := 0, 0
	for _, tc := range contract.Tests {
		switch tc.Status {
		case domain.StatusPassed:
			passed++
		case domain.StatusFailed:
			failed++
		}
	}
	return fmt.Sprintf("[cyan]%s [green]%d✓ [red]%d✗[white]", contract.Name, passed, failed)
}

// View runs the interactive tree until the user quits.
func (v *TreeViewer) View() error {
	app := tview.NewApplication()

	root := tview.NewTreeNode(fmt.Sprintf("[yellow]%s", v.config.ProjectPath)).
		SetSelectable(true)
	tree := tview.NewTreeView().
		SetRoot(root).
		SetCurrentNode(root)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	setHeader := func(note string) {
		text := " ↑↓ navigate | [yellow]r[white] run | [yellow]q[white] quit "
		if note != "" {
			text += "| " + note
		}
		headerView.SetText(text)
	}
	setHeader("")

	// rebuild repopulates the tree from a detached snapshot; the reconciler
	// may be mutating the live catalog on another goroutine.
	rebuild := func() {
		root.ClearChildren()
		for _, contract := range v.catalog.Snapshot() {
			contractNode := tview.NewTreeNode(v.contractNodeText(contract)).
				SetReference(contract).
				SetSelectable(true).
				SetExpanded(true)
			for _, tc := range contract.Tests {
				testNode := tview.NewTreeNode(v.testNodeText(tc)).
					SetReference(tc).
					SetSelectable(true)
				contractNode.AddChild(testNode)
			}
			root.AddChild(contractNode)
		}
	}
	rebuild()

	updateDetails := func() {
		node := tree.GetCurrentNode()
		if node == nil {
			detailsView.SetText("")
			return
		}
		switch ref := node.GetReference().(type) {
		case *domain.TestCase:
			detailsView.SetText(v.formatTestDetails(ref))
		case *domain.TestContract:
			detailsView.SetText(fmt.Sprintf("[cyan]Contract:[white] %s\n[cyan]File:[white] %s\n[cyan]Tests:[white] %d",
				ref.Name, ref.Path, len(ref.Tests)))
		default:
			passed, failed, pending, running, total := v.catalog.Stats()
			detailsView.SetText(fmt.Sprintf("[cyan]Tests:[white] %d\n[green]Passed:[white] %d\n[red]Failed:[white] %d\n[yellow]Pending:[white] %d  [cyan]Running:[white] %d",
				total, passed, failed, pending, running))
		}
	}

	tree.SetChangedFunc(func(node *tview.TreeNode) {
		updateDetails()
	})
	tree.SetSelectedFunc(func(node *tview.TreeNode) {
		node.SetExpanded(!node.IsExpanded())
	})

	startRun := func() {
		if v.run == nil {
			return
		}
		testName := ""
		if node := tree.GetCurrentNode(); node != nil {
			if tc, ok := node.GetReference().(*domain.TestCase); ok {
				testName = tc.Name
			}
		}
		if v.catalog.RunInProgress() {
			setHeader("[yellow]run already in progress[white]")
			return
		}
		setHeader("[cyan]running...[white]")
		go func(name string) {
			// The tree itself refreshes via the catalog subscription.
			err := v.run(name)
			app.QueueUpdateDraw(func() {
				if err != nil {
					setHeader(fmt.Sprintf("[red]%v[white]", err))
				} else {
					setHeader("")
				}
			})
		}(testName)
	}

	// Redraw on every catalog change: the mark-running transition at the
	// start of a run and the batch update when it completes.
	changes := v.catalog.Subscribe()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-changes:
				app.QueueUpdateDraw(func() {
					rebuild()
					updateDetails()
				})
			}
		}
	}()

	tree.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				app.Stop()
				return nil
			case 'r', 'R':
				startRun()
				return nil
			}
		}
		return event
	})

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(tree, 0, 1, true).
		AddItem(detailsContainer, 0, 1, false)

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(flex, 0, 1, true)

	updateDetails()

	if err := app.SetRoot(mainLayout, true).SetFocus(tree).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// formatTestDetails renders the right-hand pane for a test.
func (v *TreeViewer) formatTestDetails(tc *domain.TestCase) string {
	var b strings.Builder
	tag := treeStatusTag(tc.Status)
	fmt.Fprintf(&b, "%s%s %s[white]\n\n", tag, statusGlyph(tc.Status), tc.Name)
	fmt.Fprintf(&b, "[cyan]Status:[white] %s\n", tc.Status)
	if tc.GasUsed != nil {
		fmt.Fprintf(&b, "[cyan]Gas:[white] %d\n", *tc.GasUsed)
	}
	if tc.DurationMillis != nil {
		fmt.Fprintf(&b, "[cyan]Duration:[white] %dms\n", *tc.DurationMillis)
	}
	if tc.FailureReason != "" {
		fmt.Fprintf(&b, "\n[yellow]Reason:[white]\n%s\n", tview.Escape(tc.FailureReason))
	}
	return b.String()
}
