package cmd

import (
	"context"
	"fmt"
	"os"

	"ahb-manager/core/diff"
	"ahb-manager/core/storage"
	"ahb-manager/core/store"
	difffeature "ahb-manager/feature/diff"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	diffOld    string
	diffNew    string
	diffOutput string
	diffExport string
	diffSave   bool
)

// diffCmd compares one Prüfidentifikator or MIG format across two format versions.
var diffCmd = &cobra.Command{
	Use:       "diff [ahb|mig] <scope>",
	Short:     "Compare a Prüfidentifikator or MIG format across format versions",
	ValidArgs: []string{string(store.KindAHB), string(store.KindMIG)},
	Args:      cobra.ExactArgs(2),
	Long: `Loads the newest rows of both format versions and prints the change summary.

Examples:
  diff ahb 55001 --old FV2410 --new FV2504
  diff mig UTILMD --old FV2410 --new FV2504 --output utilmd.csv
  diff ahb 55001 --old FV2410 --new FV2504 --export yaml --save`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffOld, "old", "", "Old format version (e.g. FV2410)")
	diffCmd.Flags().StringVar(&diffNew, "new", "", "New format version (e.g. FV2504)")
	diffCmd.Flags().StringVar(&diffOutput, "output", "", "Write the result to a local file; the extension picks json, yaml or csv")
	diffCmd.Flags().StringVar(&diffExport, "export", "", "Upload the result to the bucket in this format (json, yaml, csv)")
	diffCmd.Flags().BoolVar(&diffSave, "save", false, "Store the result as a diff report")
	_ = diffCmd.MarkFlagRequired("old")
	_ = diffCmd.MarkFlagRequired("new")

	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	kind, scope := store.Kind(args[0]), args[1]
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", store.ErrUnknownKind, kind)
	}

	rt, err := loadBootstrap()
	if err != nil {
		return err
	}
	l := rt.logger

	st, err := rt.openStore(ctx)
	if err != nil {
		return err
	}

	var client storage.Client
	if diffExport != "" {
		if client, err = storage.NewClient(rt.cfg.Storage); err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	svc := difffeature.NewService(st, diff.NewCache(0), client, rt.cfg.Storage.Bucket, l)

	var result *diff.Result
	if kind == store.KindAHB {
		result, err = svc.DiffAHB(ctx, diffOld, diffNew, scope)
	} else {
		result, err = svc.DiffMIG(ctx, diffOld, diffNew, scope)
	}
	if err != nil {
		return err
	}

	fmt.Printf("\n=== %s %s: %s -> %s ===\n", kind, scope, diffOld, diffNew)
	fmt.Printf("Added: %d\n", result.Summary.Added)
	fmt.Printf("Deleted: %d\n", result.Summary.Deleted)
	fmt.Printf("Modified: %d\n", result.Summary.Modified)
	fmt.Printf("Unchanged: %d\n", result.Summary.Unchanged)

	if diffOutput != "" {
		if err := writeDiffFile(result, diffOutput); err != nil {
			return err
		}
		l.Info("Diff written", zap.String("file", diffOutput))
	}

	if diffSave {
		id, err := svc.Save(ctx, result)
		if err != nil {
			return fmt.Errorf("failed to save diff: %w", err)
		}
		l.Info("Diff report saved", zap.String("id", id))
	}

	if diffExport != "" {
		key, err := svc.Export(ctx, result, diffExport)
		if err != nil {
			return fmt.Errorf("failed to export diff: %w", err)
		}
		l.Info("Diff exported", zap.String("key", key))
	}
	return nil
}

func writeDiffFile(result *diff.Result, path string) error {
	enc, err := difffeature.EncoderForFile(path)
	if err != nil {
		return err
	}
	data, err := enc.Encode(result)
	if err != nil {
		return fmt.Errorf("failed to encode diff: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
