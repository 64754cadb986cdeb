package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"ahb-manager/core/condition"
	"ahb-manager/core/diff"
	"ahb-manager/core/flatten"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrScopeNotFound is returned when no run contains the requested scope.
	ErrScopeNotFound = errors.New("scope not found")
	// ErrUnknownKind is returned for kinds other than ahb and mig.
	ErrUnknownKind = errors.New("unknown kind")
)

// DefaultBatchSize is used when New is given a non-positive batch size.
const DefaultBatchSize = 500

// Store is the gorm backed row store.
type Store struct {
	db        *gorm.DB
	batchSize int
}

// New creates a store.
func New(db *gorm.DB, batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{db: db, batchSize: batchSize}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Models returns every model the store migrates, keyed by table name.
func Models() map[string]any {
	return map[string]any{
		"ingest_runs":           &IngestRun{},
		"ahb_lines":             &AHBLine{},
		"mig_lines":             &MIGLine{},
		"condition_resolutions": &ConditionResolution{},
		"diff_reports":          &DiffReport{},
		"diff_lines":            &diff.Line{},
	}
}

// Migrate creates or updates all tables.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&IngestRun{},
		&AHBLine{},
		&MIGLine{},
		&ConditionResolution{},
		&DiffReport{},
		&diff.Line{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// RecordRun stores a run. An empty id is generated.
func (s *Store) RecordRun(ctx context.Context, run *IngestRun) error {
	return recordRun(s.db.WithContext(ctx), run)
}

func recordRun(tx *gorm.DB, run *IngestRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := tx.Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// InsertLines inserts rows of one kind in batches within a single transaction.
func (s *Store) InsertLines(ctx context.Context, kind Kind, rows []flatten.Row) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.insertLines(tx, kind, rows)
	})
}

func (s *Store) insertLines(tx *gorm.DB, kind Kind, rows []flatten.Row) error {
	var err error
	switch kind {
	case KindAHB:
		lines := make([]AHBLine, len(rows))
		for i := range rows {
			lines[i] = AHBLine{Row: rows[i]}
		}
		err = tx.CreateInBatches(lines, s.batchSize).Error
	case KindMIG:
		lines := make([]MIGLine, len(rows))
		for i := range rows {
			lines[i] = MIGLine{Row: rows[i]}
		}
		err = tx.CreateInBatches(lines, s.batchSize).Error
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to insert %d %s lines: %w", len(rows), kind, err)
	}
	return nil
}

// Persist records run, its rows and the resolutions in one transaction.
// The run id is written into every row. On error nothing is stored.
func (s *Store) Persist(ctx context.Context, run *IngestRun, rows []flatten.Row, resolutions []condition.Resolution) error {
	if !run.Kind.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownKind, run.Kind)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := recordRun(tx, run); err != nil {
			return err
		}
		for i := range rows {
			rows[i].RunID = run.ID
		}
		if len(rows) > 0 {
			if err := s.insertLines(tx, run.Kind, rows); err != nil {
				return err
			}
		}
		return s.saveResolutions(tx, resolutions)
	})
}

// latestRun returns the newest run containing lines that match where.
func (s *Store) latestRun(ctx context.Context, kind Kind, where string, args ...any) (string, error) {
	table := kind.Table()
	var runIDs []string
	err := s.db.WithContext(ctx).
		Table(table).
		Joins("JOIN ingest_runs ON ingest_runs.id = "+table+".run_id").
		Where(where, args...).
		Order("ingest_runs.created_at DESC").
		Limit(1).
		Pluck(table+".run_id", &runIDs).Error
	if err != nil {
		return "", fmt.Errorf("failed to find run: %w", err)
	}
	if len(runIDs) == 0 {
		return "", nil
	}
	return runIDs[0], nil
}

// LoadAHBLines returns the rows of one Prüfidentifikator ordered by sort path.
func (s *Store) LoadAHBLines(ctx context.Context, formatVersion, pruefi string) ([]flatten.Row, error) {
	runID, err := s.latestRun(ctx, KindAHB, "ahb_lines.format_version = ? AND ahb_lines.pruefidentifikator = ?", formatVersion, pruefi)
	if err != nil {
		return nil, err
	}
	if runID == "" {
		return nil, fmt.Errorf("%w: ahb %s %s", ErrScopeNotFound, formatVersion, pruefi)
	}

	var lines []AHBLine
	err = s.db.WithContext(ctx).
		Where("run_id = ? AND format_version = ? AND pruefidentifikator = ?", runID, formatVersion, pruefi).
		Order("sort_path").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ahb lines: %w", err)
	}

	rows := make([]flatten.Row, len(lines))
	for i := range lines {
		rows[i] = lines[i].Row
	}
	return rows, nil
}

// LoadMIGLines returns the rows of one format ordered by sort path.
func (s *Store) LoadMIGLines(ctx context.Context, formatVersion, format string) ([]flatten.Row, error) {
	runID, err := s.latestRun(ctx, KindMIG, "mig_lines.format_version = ? AND mig_lines.format = ?", formatVersion, format)
	if err != nil {
		return nil, err
	}
	if runID == "" {
		return nil, fmt.Errorf("%w: mig %s %s", ErrScopeNotFound, formatVersion, format)
	}

	var lines []MIGLine
	err = s.db.WithContext(ctx).
		Where("run_id = ? AND format_version = ? AND format = ?", runID, formatVersion, format).
		Order("sort_path").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load mig lines: %w", err)
	}

	rows := make([]flatten.Row, len(lines))
	for i := range lines {
		rows[i] = lines[i].Row
	}
	return rows, nil
}

// ListFormatVersions returns the distinct format versions of a kind, oldest first.
func (s *Store) ListFormatVersions(ctx context.Context, kind Kind) ([]string, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	var out []string
	err := s.db.WithContext(ctx).Table(kind.Table()).Distinct("format_version").Order("format_version").Pluck("format_version", &out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list format versions: %w", err)
	}
	return out, nil
}

// ListPruefidentifikatoren returns the Prüfidentifikatoren of a format version.
func (s *Store) ListPruefidentifikatoren(ctx context.Context, formatVersion string) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&AHBLine{}).
		Where("format_version = ?", formatVersion).
		Distinct("pruefidentifikator").
		Order("pruefidentifikator").
		Pluck("pruefidentifikator", &out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pruefidentifikatoren: %w", err)
	}
	return out, nil
}

// ListFormats returns the MIG formats of a format version.
func (s *Store) ListFormats(ctx context.Context, formatVersion string) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&MIGLine{}).
		Where("format_version = ?", formatVersion).
		Distinct("format").
		Order("format").
		Pluck("format", &out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list formats: %w", err)
	}
	return out, nil
}

// SaveResolutions upserts resolutions; existing texts are replaced.
func (s *Store) SaveResolutions(ctx context.Context, resolutions []condition.Resolution) error {
	return s.saveResolutions(s.db.WithContext(ctx), resolutions)
}

func (s *Store) saveResolutions(tx *gorm.DB, resolutions []condition.Resolution) error {
	if len(resolutions) == 0 {
		return nil
	}
	records := make([]ConditionResolution, len(resolutions))
	for i, r := range resolutions {
		records[i] = ConditionResolution{
			FormatVersion:  r.FormatVersion,
			Format:         r.Format,
			ExpressionHash: ExpressionHash(r.Expression),
			Expression:     r.Expression,
			Text:           r.Text,
			Error:          r.Error,
		}
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "format_version"}, {Name: "format"}, {Name: "expression_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"expression", "text", "error"}),
	}).CreateInBatches(records, s.batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to save %d resolutions: %w", len(records), err)
	}
	return nil
}

// ExpressionHash returns the hex xxhash of an expression as stored in the resolution index.
func ExpressionHash(expression string) string {
	return strconv.FormatUint(xxhash.Sum64String(expression), 16)
}

// LoadResolutions returns the resolutions of a format version and format keyed by expression.
func (s *Store) LoadResolutions(ctx context.Context, formatVersion, format string) (map[string]condition.Resolution, error) {
	var records []ConditionResolution
	err := s.db.WithContext(ctx).Where("format_version = ? AND format = ?", formatVersion, format).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load resolutions: %w", err)
	}

	out := make(map[string]condition.Resolution, len(records))
	for _, r := range records {
		out[r.Expression] = condition.Resolution{
			FormatVersion: r.FormatVersion,
			Format:        r.Format,
			Expression:    r.Expression,
			Text:          r.Text,
			Error:         r.Error,
		}
	}
	return out, nil
}

// SaveDiff stores a diff result and returns the report id.
func (s *Store) SaveDiff(ctx context.Context, result *diff.Result) (string, error) {
	report := DiffReport{
		ID:               uuid.NewString(),
		Kind:             result.Kind,
		Scope:            result.Scope,
		OldFormatVersion: result.OldFormatVersion,
		NewFormatVersion: result.NewFormatVersion,
		Added:            result.Summary.Added,
		Deleted:          result.Summary.Deleted,
		Modified:         result.Summary.Modified,
		Unchanged:        result.Summary.Unchanged,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		if len(result.Lines) == 0 {
			return nil
		}
		lines := make([]diff.Line, len(result.Lines))
		for i, l := range result.Lines {
			l.ID = 0
			l.ReportID = report.ID
			lines[i] = l
		}
		return tx.CreateInBatches(lines, s.batchSize).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to save diff %s %s: %w", result.Kind, result.Scope, err)
	}
	return report.ID, nil
}

// LoadDiff returns the lines of a saved report ordered by sort path.
func (s *Store) LoadDiff(ctx context.Context, reportID string) (*DiffReport, []diff.Line, error) {
	var report DiffReport
	if err := s.db.WithContext(ctx).First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: diff report %s", ErrScopeNotFound, reportID)
		}
		return nil, nil, fmt.Errorf("failed to load diff report: %w", err)
	}
	var lines []diff.Line
	if err := s.db.WithContext(ctx).Where("report_id = ?", reportID).Order("sort_path, anchor").Find(&lines).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load diff lines: %w", err)
	}
	return &report, lines, nil
}
