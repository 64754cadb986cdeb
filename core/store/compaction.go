package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"ahb-manager/core/model"

	"gorm.io/gorm"
)

// ErrValidityOverlap is returned when two format versions claim one Prüfidentifikator for overlapping periods.
var ErrValidityOverlap = errors.New("validity intervals overlap")

// ActionType is the kind of a compaction step.
type ActionType string

const (
	// ActionDeleteLines deletes the rows of one scope written by a superseded run.
	ActionDeleteLines ActionType = "delete_lines"
	// ActionDeleteRun deletes a run all of whose scopes are superseded.
	ActionDeleteRun ActionType = "delete_run"
)

// Action is one planned compaction step.
type Action struct {
	Type          ActionType `json:"type"`
	Kind          Kind       `json:"kind"`
	RunID         string     `json:"run_id"`
	FormatVersion string     `json:"format_version,omitempty"`
	Format        string     `json:"format,omitempty"`
	Scope         string     `json:"scope,omitempty"`
	Rows          int64      `json:"rows,omitempty"`
	Reason        string     `json:"reason"`
}

// CompactionPlan lists the planned steps.
type CompactionPlan struct {
	Actions []Action          `json:"actions"`
	Summary CompactionSummary `json:"summary"`
}

// CompactionSummary provides aggregate counts of a plan.
type CompactionSummary struct {
	Scopes         int   `json:"scopes"`
	SupersededRuns int   `json:"superseded_runs"`
	DeletedRuns    int   `json:"deleted_runs"`
	Rows           int64 `json:"rows"`
}

// CompactionOptions gates execution.
type CompactionOptions struct {
	// DryRun prevents execution if true.
	DryRun bool
	// Confirmed must be true for anything to execute.
	Confirmed bool
}

type scopeRun struct {
	RunID              string
	FormatVersion      string
	Format             string
	Pruefidentifikator string
	RowCount           int64
	CreatedAt          time.Time
}

type validityClaim struct {
	FormatVersion      string
	Pruefidentifikator string
	GueltigVon         time.Time
	GueltigBis         *time.Time
}

// PlanCompaction checks validity intervals and plans the removal of superseded rows.
func (s *Store) PlanCompaction(ctx context.Context) (*CompactionPlan, error) {
	if err := s.CheckValidity(ctx); err != nil {
		return nil, err
	}

	plan := &CompactionPlan{}
	for _, kind := range []Kind{KindAHB, KindMIG} {
		runs, err := s.scopeRuns(ctx, kind)
		if err != nil {
			return nil, err
		}
		planKind(plan, kind, runs)
	}
	return plan, nil
}

// CheckValidity fails with ErrValidityOverlap if two format versions claim a
// Prüfidentifikator for overlapping periods.
func (s *Store) CheckValidity(ctx context.Context) error {
	var claims []validityClaim
	err := s.db.WithContext(ctx).Model(&AHBLine{}).
		Distinct("format_version", "pruefidentifikator", "gueltig_von", "gueltig_bis").
		Order("pruefidentifikator, format_version").
		Scan(&claims).Error
	if err != nil {
		return fmt.Errorf("failed to load validity claims: %w", err)
	}

	byPruefi := make(map[string][]validityClaim)
	for _, c := range claims {
		byPruefi[c.Pruefidentifikator] = append(byPruefi[c.Pruefidentifikator], c)
	}

	pruefis := make([]string, 0, len(byPruefi))
	for p := range byPruefi {
		pruefis = append(pruefis, p)
	}
	sort.Strings(pruefis)

	for _, p := range pruefis {
		list := byPruefi[p]
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				a, b := list[i], list[j]
				if a.FormatVersion == b.FormatVersion {
					continue
				}
				va := model.Validity{Von: a.GueltigVon, Bis: a.GueltigBis}
				vb := model.Validity{Von: b.GueltigVon, Bis: b.GueltigBis}
				if va.Overlaps(vb) {
					return fmt.Errorf("%w: pruefidentifikator %s in %s and %s", ErrValidityOverlap, p, a.FormatVersion, b.FormatVersion)
				}
			}
		}
	}
	return nil
}

func (s *Store) scopeRuns(ctx context.Context, kind Kind) ([]scopeRun, error) {
	table := kind.Table()
	var runs []scopeRun
	err := s.db.WithContext(ctx).
		Table(table).
		Select(table + ".run_id, " + table + ".format_version, " + table + ".format, " + table + ".pruefidentifikator, COUNT(*) AS row_count, ingest_runs.created_at").
		Joins("JOIN ingest_runs ON ingest_runs.id = " + table + ".run_id").
		Group(table + ".run_id, " + table + ".format_version, " + table + ".format, " + table + ".pruefidentifikator, ingest_runs.created_at").
		Scan(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s scopes: %w", kind, err)
	}
	return runs, nil
}

// planKind appends the actions of one kind. The newest run of every scope is kept.
func planKind(plan *CompactionPlan, kind Kind, runs []scopeRun) {
	type scopeKey struct{ fv, format, pruefi string }
	scopes := make(map[scopeKey][]scopeRun)
	scopesPerRun := make(map[string]int)
	for _, r := range runs {
		k := scopeKey{r.FormatVersion, r.Format, r.Pruefidentifikator}
		scopes[k] = append(scopes[k], r)
		scopesPerRun[r.RunID]++
	}

	keys := make([]scopeKey, 0, len(scopes))
	for k := range scopes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].fv != keys[j].fv {
			return keys[i].fv < keys[j].fv
		}
		if keys[i].format != keys[j].format {
			return keys[i].format < keys[j].format
		}
		return keys[i].pruefi < keys[j].pruefi
	})

	supersededPerRun := make(map[string]int)
	var superseded []string
	for _, k := range keys {
		list := scopes[k]
		plan.Summary.Scopes++
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].RunID > list[j].RunID
		})

		newest := list[0]
		for _, old := range list[1:] {
			scope := k.pruefi
			if scope == "" {
				scope = k.format
			}
			plan.Actions = append(plan.Actions, Action{
				Type:          ActionDeleteLines,
				Kind:          kind,
				RunID:         old.RunID,
				FormatVersion: k.fv,
				Format:        k.format,
				Scope:         scope,
				Rows:          old.RowCount,
				Reason:        fmt.Sprintf("superseded by run %s", newest.RunID),
			})
			plan.Summary.Rows += old.RowCount
			if supersededPerRun[old.RunID] == 0 {
				superseded = append(superseded, old.RunID)
			}
			supersededPerRun[old.RunID]++
		}
	}

	plan.Summary.SupersededRuns += len(superseded)
	for _, runID := range superseded {
		if supersededPerRun[runID] == scopesPerRun[runID] {
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionDeleteRun,
				Kind:   kind,
				RunID:  runID,
				Reason: "all scopes superseded",
			})
			plan.Summary.DeletedRuns++
		}
	}
}

// ApplyCompaction executes a plan in one transaction.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func (s *Store) ApplyCompaction(ctx context.Context, plan *CompactionPlan, opts CompactionOptions) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, action := range plan.Actions {
			switch action.Type {
			case ActionDeleteLines:
				q := tx.Where("run_id = ? AND format_version = ? AND format = ?", action.RunID, action.FormatVersion, action.Format)
				var res *gorm.DB
				if action.Kind == KindMIG {
					res = q.Delete(&MIGLine{})
				} else {
					res = q.Where("pruefidentifikator = ?", action.Scope).Delete(&AHBLine{})
				}
				if res.Error != nil {
					return fmt.Errorf("failed to delete lines of run %s: %w", action.RunID, res.Error)
				}
			case ActionDeleteRun:
				if err := tx.Delete(&IngestRun{}, "id = ?", action.RunID).Error; err != nil {
					return fmt.Errorf("failed to delete run %s: %w", action.RunID, err)
				}
			}
			executed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return executed, nil
}
