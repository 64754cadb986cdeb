package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"ahb-manager/core/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunCompact bool
	yesConfirm    bool
)

// compactCmd removes rows superseded by a newer ingest of the same scope.
var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Remove rows superseded by newer ingest runs",
	Long: `Checks the validity intervals of all ingested Prüfidentifikatoren and plans the removal
of rows written by runs that a newer run of the same scope replaced.

Examples:
  # Report only
  compact --dry-run

  # Compact with interactive confirmation
  compact

  # Compact with auto-confirm (non-interactive)
  compact --yes`,
	RunE: runCompact,
}

func init() {
	compactCmd.Flags().BoolVar(&dryRunCompact, "dry-run", false, "Print the plan without deleting anything")
	compactCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(compactCmd)
}

func runCompact(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := loadBootstrap()
	if err != nil {
		return err
	}
	l := rt.logger

	st, err := rt.openStore(ctx)
	if err != nil {
		return err
	}

	// Step 1: Plan (always runs)
	l.Info("Planning compaction...")
	plan, err := st.PlanCompaction(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan compaction: %w", err)
	}

	// Step 2: Print report
	printCompactionReport(l, plan)

	if len(plan.Actions) == 0 {
		l.Info("Nothing to compact.")
		return nil
	}

	if dryRunCompact {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	// Step 3: Apply (if confirmed)
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying actions...")
	executed, err := st.ApplyCompaction(ctx, plan, store.CompactionOptions{Confirmed: true})
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printCompactionReport prints a formatted compaction plan using logger.
func printCompactionReport(l *zap.Logger, plan *store.CompactionPlan) {
	s := plan.Summary

	l.Info("Compaction report",
		zap.Int("scopes", s.Scopes),
		zap.Int("superseded_runs", s.SupersededRuns),
		zap.Int("deleted_runs", s.DeletedRuns),
		zap.Int64("rows", s.Rows),
		zap.Int("total_actions", len(plan.Actions)),
	)

	maxShow := min(5, len(plan.Actions))
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("kind", string(action.Kind)),
			zap.String("run_id", action.RunID),
			zap.String("scope", action.Scope),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
