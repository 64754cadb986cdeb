package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"ahb-manager/core/condition"
	"ahb-manager/core/diff"
	"ahb-manager/core/flatten"
	"ahb-manager/core/formatversion"
	"ahb-manager/core/logger"
	"ahb-manager/core/model"
	"ahb-manager/core/reader"
	"ahb-manager/core/sanitize"
	"ahb-manager/core/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoAnwendungsfaelle is returned for AHB documents without a single Anwendungsfall.
var ErrNoAnwendungsfaelle = errors.New("ahb contains no anwendungsfall")

// Options describe the validity of the ingested documents.
type Options struct {
	GueltigVon time.Time
	// GueltigBis is exclusive; nil means open ended.
	GueltigBis *time.Time
	// MIGs keyed by format. When set, every Anwendungsfall is sanitized against the MIG of its format.
	MIGs map[string]*model.MessageImplementationGuide
}

// Result summarizes one ingested document.
type Result struct {
	RunID            string            `json:"run_id"`
	Source           string            `json:"source"`
	Kind             store.Kind        `json:"kind"`
	Format           string            `json:"format"`
	FormatVersion    string            `json:"format_version"`
	Anwendungsfaelle int               `json:"anwendungsfaelle"`
	Rows             int               `json:"rows"`
	Placeholders     int               `json:"placeholders"`
	Resolutions      int               `json:"resolutions"`
	ConditionErrors  int               `json:"condition_errors"`
	Reports          []sanitize.Report `json:"reports,omitempty"`
}

// Service runs the ingest pipeline.
type Service struct {
	store     *store.Store
	cache     *diff.Cache
	resolver  *condition.Resolver
	flattener *flatten.Flattener
	workers   int
	logger    *zap.Logger
}

// NewService creates a new ingest service. cache may be nil.
func NewService(st *store.Store, cache *diff.Cache, workers int, logger *zap.Logger) *Service {
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		store:     st,
		cache:     cache,
		resolver:  condition.NewResolver(nil),
		flattener: flatten.New(),
		workers:   workers,
		logger:    logger,
	}
}

// ReadMIGs parses every document of src and keys the result by format.
func (s *Service) ReadMIGs(ctx context.Context, src Source) (map[string]*model.MessageImplementationGuide, error) {
	docs, err := src.Documents(ctx)
	if err != nil {
		return nil, err
	}
	migs := make(map[string]*model.MessageImplementationGuide, len(docs))
	for _, doc := range docs {
		mig, err := reader.ReadMIG(bytes.NewReader(doc.Data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Name, err)
		}
		migs[mig.Format] = mig
	}
	return migs, nil
}

// IngestMIG reads, flattens and stores a MIG document.
func (s *Service) IngestMIG(ctx context.Context, doc Document, opts Options) (*Result, error) {
	fv, err := formatversion.FromDate(opts.GueltigVon)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}

	mig, err := reader.ReadMIG(bytes.NewReader(doc.Data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}

	meta := flatten.Meta{
		Format:         mig.Format,
		Versionsnummer: mig.Versionsnummer,
		FormatVersion:  fv,
		GueltigVon:     opts.GueltigVon,
		GueltigBis:     opts.GueltigBis,
	}
	rows, err := s.flattener.MIG(meta, mig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}
	flatten.Fingerprint(rows)

	run := &store.IngestRun{
		Kind:           store.KindMIG,
		Format:         mig.Format,
		FormatVersion:  fv,
		Versionsnummer: mig.Versionsnummer,
		Source:         doc.Name,
		GueltigVon:     opts.GueltigVon,
		GueltigBis:     opts.GueltigBis,
		Rows:           len(rows),
	}
	if err := s.persist(ctx, run, rows, nil); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:         run.ID,
		Source:        doc.Name,
		Kind:          store.KindMIG,
		Format:        mig.Format,
		FormatVersion: fv,
		Rows:          len(rows),
	}
	logger.ForScope(s.logger, string(store.KindMIG), fv, mig.Format).Info("Ingested MIG",
		zap.String("source", doc.Name),
		zap.Int("rows", len(rows)))
	return result, nil
}

// awfResult is the output of one Anwendungsfall worker.
type awfResult struct {
	rows   []flatten.Row
	report *sanitize.Report
}

// IngestAHB reads an AHB document, optionally sanitizes it, flattens every Anwendungsfall in parallel,
// resolves the conditions and stores the result.
func (s *Service) IngestAHB(ctx context.Context, doc Document, opts Options) (*Result, error) {
	fv, err := formatversion.FromDate(opts.GueltigVon)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}

	ahb, err := reader.ReadAHB(bytes.NewReader(doc.Data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}
	if len(ahb.Anwendungsfaelle) == 0 {
		return nil, fmt.Errorf("%s: %w", doc.Name, ErrNoAnwendungsfaelle)
	}

	var reconcilers map[string]*sanitize.Reconciler
	if opts.MIGs != nil {
		if ahb, err = sanitize.WithUnusedCondition(ahb); err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Name, err)
		}
		if reconcilers, err = buildReconcilers(opts.MIGs, ahb); err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Name, err)
		}
	}

	meta := flatten.Meta{
		Versionsnummer: ahb.Versionsnummer,
		FormatVersion:  fv,
		GueltigVon:     opts.GueltigVon,
		GueltigBis:     opts.GueltigBis,
	}

	results := make([]awfResult, len(ahb.Anwendungsfaelle))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, awf := range ahb.Anwendungsfaelle {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if r, ok := reconcilers[awf.Format]; ok {
				sanitized, report, err := r.Anwendungsfall(awf)
				if err != nil {
					return err
				}
				awf = sanitized
				results[i].report = &report
			}
			rows, err := s.flattener.Anwendungsfall(meta, awf)
			if err != nil {
				return err
			}
			results[i].rows = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}

	var rows []flatten.Row
	result := &Result{
		Source:           doc.Name,
		Kind:             store.KindAHB,
		Format:           ahb.Anwendungsfaelle[0].Format,
		FormatVersion:    fv,
		Anwendungsfaelle: len(ahb.Anwendungsfaelle),
	}
	for _, r := range results {
		rows = append(rows, r.rows...)
		if r.report != nil {
			result.Placeholders += r.report.Placeholders
			result.Reports = append(result.Reports, *r.report)
		}
	}

	resolutions := s.resolveConditions(condition.NewContext(ahb), fv, rows)
	flatten.Fingerprint(rows)
	for _, res := range resolutions {
		if res.Error != "" {
			result.ConditionErrors++
		}
	}
	result.Resolutions = len(resolutions)
	result.Rows = len(rows)

	run := &store.IngestRun{
		Kind:             store.KindAHB,
		Format:           result.Format,
		FormatVersion:    fv,
		Versionsnummer:   ahb.Versionsnummer,
		Source:           doc.Name,
		GueltigVon:       opts.GueltigVon,
		GueltigBis:       opts.GueltigBis,
		Anwendungsfaelle: len(ahb.Anwendungsfaelle),
		Rows:             len(rows),
		Placeholders:     result.Placeholders,
	}
	if err := s.persist(ctx, run, rows, resolutions); err != nil {
		return nil, err
	}
	result.RunID = run.ID

	for _, report := range result.Reports {
		if len(report.UnmatchedSegments) > 0 {
			logger.ForScope(s.logger, string(store.KindAHB), fv, report.Pruefidentifikator).Warn("Segments not defined by MIG",
				zap.Strings("segments", report.UnmatchedSegments))
		}
	}
	logger.ForScope(s.logger, string(store.KindAHB), fv, "").Info("Ingested AHB",
		zap.String("source", doc.Name),
		zap.Int("anwendungsfaelle", result.Anwendungsfaelle),
		zap.Int("rows", result.Rows),
		zap.Int("placeholders", result.Placeholders),
		zap.Int("condition_errors", result.ConditionErrors))
	return result, nil
}

// Ingest runs IngestMIG or IngestAHB for every document of src. It stops at the first failing document.
func (s *Service) Ingest(ctx context.Context, kind store.Kind, src Source, opts Options) ([]*Result, error) {
	docs, err := src.Documents(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(docs))
	for _, doc := range docs {
		var res *Result
		switch kind {
		case store.KindMIG:
			res, err = s.IngestMIG(ctx, doc, opts)
		case store.KindAHB:
			res, err = s.IngestAHB(ctx, doc, opts)
		default:
			return results, fmt.Errorf("%w %q", store.ErrUnknownKind, kind)
		}
		if err != nil {
			s.logger.Error("Ingest failed", zap.String("source", doc.Name), zap.Error(err))
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func buildReconcilers(migs map[string]*model.MessageImplementationGuide, ahb *model.Anwendungshandbuch) (map[string]*sanitize.Reconciler, error) {
	reconcilers := make(map[string]*sanitize.Reconciler)
	for _, awf := range ahb.Anwendungsfaelle {
		if _, ok := reconcilers[awf.Format]; ok {
			continue
		}
		mig, ok := migs[awf.Format]
		if !ok {
			return nil, fmt.Errorf("pruefidentifikator %s: %w %q", awf.Pruefidentifikator, sanitize.ErrMissingMig, awf.Format)
		}
		r, err := sanitize.NewReconciler(mig)
		if err != nil {
			return nil, err
		}
		reconcilers[awf.Format] = r
	}
	return reconcilers, nil
}

// resolveConditions resolves the usage status of every row per format and writes the result onto the rows.
func (s *Service) resolveConditions(ctx condition.EvaluationContext, fv string, rows []flatten.Row) []condition.Resolution {
	byFormat := make(map[string][]string)
	var formats []string
	for _, row := range rows {
		if _, ok := byFormat[row.Format]; !ok {
			formats = append(formats, row.Format)
		}
		byFormat[row.Format] = append(byFormat[row.Format], row.AHBStatus)
	}

	var all []condition.Resolution
	lookup := make(map[string]condition.Resolution)
	for _, format := range formats {
		for _, res := range s.resolver.ResolveAll(ctx, format, fv, byFormat[format]) {
			all = append(all, res)
			lookup[format+"|"+res.Expression] = res
		}
	}

	for i := range rows {
		res := lookup[rows[i].Format+"|"+condition.Normalize(rows[i].AHBStatus)]
		rows[i].Bedingung = res.Text
		rows[i].BedingungFehler = res.Error
	}
	return all
}

func (s *Service) persist(ctx context.Context, run *store.IngestRun, rows []flatten.Row, resolutions []condition.Resolution) error {
	if err := s.store.Persist(ctx, run, rows, resolutions); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(diff.Key(string(run.Kind), run.FormatVersion, ""))
	}
	return nil
}
