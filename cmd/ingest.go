package cmd

import (
	"context"
	"errors"
	"fmt"

	"ahb-manager/core/diff"
	"ahb-manager/core/formatversion"
	"ahb-manager/core/storage"
	"ahb-manager/core/store"
	"ahb-manager/feature/ingest"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ingestFiles      []string
	ingestPrefix     string
	ingestGueltigVon string
	ingestGueltigBis string
	ingestMigFiles   []string
	ingestMigStorage bool
)

// ingestCmd parses MIG or AHB XML documents and stores their flattened rows.
var ingestCmd = &cobra.Command{
	Use:       "ingest [mig|ahb]",
	Short:     "Ingest MIG or AHB XML documents",
	ValidArgs: []string{string(store.KindMIG), string(store.KindAHB)},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `Reads MIG or AHB XML documents from local files or the storage bucket, flattens them and
writes the rows to the row store under the format version derived from --gueltig-von.

AHB documents are reconciled against their MIGs when --mig files are given.

Examples:
  ingest mig --file UTILMD_MIG_S2.1.xml --gueltig-von 2025-06-06
  ingest ahb --file UTILMD_AHB_Strom.xml --mig UTILMD_MIG_S2.1.xml --gueltig-von 2025-06-06
  ingest ahb --from-storage ahb/FV2504 --gueltig-von 2025-06-06 --mig-from-storage`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestFiles, "file", nil, "Local XML file (repeatable)")
	ingestCmd.Flags().StringVar(&ingestPrefix, "from-storage", "", "Read every .xml object below this bucket prefix")
	ingestCmd.Flags().StringVar(&ingestGueltigVon, "gueltig-von", "", "First day of validity (YYYY-MM-DD)")
	ingestCmd.Flags().StringVar(&ingestGueltigBis, "gueltig-bis", "", "First day after validity (YYYY-MM-DD), open ended if empty")
	ingestCmd.Flags().StringSliceVar(&ingestMigFiles, "mig", nil, "MIG XML file used to reconcile AHB documents (repeatable)")
	ingestCmd.Flags().BoolVar(&ingestMigStorage, "mig-from-storage", false, "Reconcile AHB documents against the MIGs below mig/<format version>/")
	_ = ingestCmd.MarkFlagRequired("gueltig-von")

	RootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	kind := store.Kind(args[0])

	if len(ingestFiles) == 0 && ingestPrefix == "" {
		return errors.New("either --file or --from-storage is required")
	}

	opts, err := ingestOptions()
	if err != nil {
		return err
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
	if ingestPrefix != "" || ingestMigStorage {
		if client, err = storage.NewClient(rt.cfg.Storage); err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	svc := ingest.NewService(st, diff.NewCache(0), rt.cfg.Ingest.Workers, l)

	if kind == store.KindAHB {
		migSrc, err := migSource(client, rt.cfg.Storage.Bucket, opts)
		if err != nil {
			return err
		}
		if migSrc != nil {
			if opts.MIGs, err = svc.ReadMIGs(ctx, migSrc); err != nil {
				return fmt.Errorf("failed to read migs: %w", err)
			}
			l.Info("Loaded MIGs for reconciliation", zap.Int("count", len(opts.MIGs)))
		}
	}

	var src ingest.Source = ingest.FileSource{Paths: ingestFiles}
	if ingestPrefix != "" {
		src = ingest.BucketSource{Client: client, Bucket: rt.cfg.Storage.Bucket, Prefix: ingestPrefix}
	}

	results, err := svc.Ingest(ctx, kind, src, opts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	for _, r := range results {
		l.Info("Ingested document",
			zap.String("source", r.Source),
			zap.String("run_id", r.RunID),
			zap.String("format", r.Format),
			zap.String("format_version", r.FormatVersion),
			zap.Int("anwendungsfaelle", r.Anwendungsfaelle),
			zap.Int("rows", r.Rows),
			zap.Int("placeholders", r.Placeholders),
			zap.Int("condition_errors", r.ConditionErrors),
		)
	}
	return nil
}

func ingestOptions() (ingest.Options, error) {
	var opts ingest.Options

	von, err := formatversion.ParseDate(ingestGueltigVon)
	if err != nil {
		return opts, fmt.Errorf("invalid --gueltig-von: %w", err)
	}
	opts.GueltigVon = von

	if ingestGueltigBis != "" {
		bis, err := formatversion.ParseDate(ingestGueltigBis)
		if err != nil {
			return opts, fmt.Errorf("invalid --gueltig-bis: %w", err)
		}
		if !bis.After(von) {
			return opts, errors.New("--gueltig-bis must be after --gueltig-von")
		}
		opts.GueltigBis = &bis
	}
	return opts, nil
}

// migSource returns where the reconciling MIGs come from, or nil if none were requested.
func migSource(client storage.Client, bucket string, opts ingest.Options) (ingest.Source, error) {
	switch {
	case len(ingestMigFiles) > 0:
		return ingest.FileSource{Paths: ingestMigFiles}, nil
	case ingestMigStorage:
		fv, err := formatversion.FromDate(opts.GueltigVon)
		if err != nil {
			return nil, err
		}
		return ingest.BucketSource{Client: client, Bucket: bucket, Prefix: storage.PrefixMIG + fv + "/"}, nil
	}
	return nil, nil
}
