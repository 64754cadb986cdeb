package diff

import (
	"sort"
	"strconv"
	"strings"

	"ahb-manager/core/flatten"
)

// Versions names the two sides of a diff.
type Versions struct {
	Scope string
	Old   string
	New   string
}

// Diff compares the old and new rows of one scope.
func Diff(adapter Adapter, versions Versions, oldRows, newRows []flatten.Row) *Result {
	oldIndex := buildIndex(adapter, oldRows)
	newIndex := buildIndex(adapter, newRows)

	union := buildUnion(oldIndex, newIndex)

	result := &Result{
		Kind:             adapter.Name(),
		Scope:            versions.Scope,
		OldFormatVersion: versions.Old,
		NewFormatVersion: versions.New,
		Lines:            make([]Line, 0, len(union)),
	}
	for key := range union {
		line := buildLine(adapter, key, oldIndex[key], newIndex[key])
		result.Lines = append(result.Lines, line)
		result.Summary.count(line.DiffStatus)
	}

	// Sort by position, then anchor, for deterministic output
	sort.Slice(result.Lines, func(i, j int) bool {
		a, b := result.Lines[i], result.Lines[j]
		if a.SortPath != b.SortPath {
			return a.SortPath < b.SortPath
		}
		return a.Anchor < b.Anchor
	})

	return result
}

// buildIndex keys rows by anchor. Repeated anchors are numbered in sort-path order.
func buildIndex(adapter Adapter, rows []flatten.Row) map[string]*flatten.Row {
	ordered := make([]*flatten.Row, len(rows))
	for i := range rows {
		ordered[i] = &rows[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortPath < ordered[j].SortPath
	})

	index := make(map[string]*flatten.Row, len(rows))
	seen := make(map[string]int, len(rows))
	for _, row := range ordered {
		anchor := adapter.Anchor(row)
		n := seen[anchor]
		seen[anchor] = n + 1
		if n > 0 {
			anchor += "#" + strconv.Itoa(n)
		}
		index[anchor] = row
	}
	return index
}

func buildUnion(oldIndex, newIndex map[string]*flatten.Row) map[string]struct{} {
	union := make(map[string]struct{}, len(newIndex))
	for key := range oldIndex {
		union[key] = struct{}{}
	}
	for key := range newIndex {
		union[key] = struct{}{}
	}
	return union
}

// buildLine classifies one anchor. At least one of oldRow and newRow is set.
func buildLine(adapter Adapter, anchor string, oldRow, newRow *flatten.Row) Line {
	line := Line{Kind: adapter.Name(), Anchor: anchor}

	// Structural columns come from the newest side
	ref := newRow
	if ref == nil {
		ref = oldRow
	}
	line.IDPath = ref.IDPath
	line.SortPath = ref.SortPath
	line.Path = ref.Path
	line.LineType = string(ref.LineType)

	fillOld(&line, oldRow)
	fillNew(&line, newRow)

	switch {
	case oldRow == nil:
		line.DiffStatus = StatusAdded
	case newRow == nil:
		line.DiffStatus = StatusDeleted
	default:
		changed := compare(adapter, oldRow, newRow)
		if len(changed) == 0 {
			line.DiffStatus = StatusUnchanged
		} else {
			line.DiffStatus = StatusModified
			line.ChangedColumns = strings.Join(changed, ",")
		}
	}
	return line
}

// compare returns the sorted names of the differing columns.
func compare(adapter Adapter, oldRow, newRow *flatten.Row) []string {
	if oldRow.Fingerprint != 0 && oldRow.Fingerprint == newRow.Fingerprint {
		return nil
	}
	var changed []string
	for _, col := range adapter.Columns() {
		if col.Value(oldRow) != col.Value(newRow) {
			changed = append(changed, col.Name)
		}
	}
	sort.Strings(changed)
	return changed
}

func fillOld(line *Line, row *flatten.Row) {
	if row == nil {
		return
	}
	line.OldFormatVersion = ptr(row.FormatVersion)
	line.OldPruefidentifikator = optional(row.Pruefidentifikator)
	line.OldFormat = ptr(row.Format)
	line.OldSegmentGroupKey = optional(row.SegmentGroupKey)
	line.OldSegmentCode = optional(row.SegmentCode)
	line.OldDataElementID = optional(row.DataElementID)
	line.OldCodeValue = optional(row.CodeValue)
	line.OldAHBStatus = optional(row.AHBStatus)
	line.OldStatusStd = optional(row.StatusStd)
	line.OldStatusSpecification = optional(row.StatusSpecification)
	line.OldLineName = ptr(row.LineName)
	line.OldBedingung = optional(row.Bedingung)
	line.OldBedingungFehler = optional(row.BedingungFehler)
}

func fillNew(line *Line, row *flatten.Row) {
	if row == nil {
		return
	}
	line.NewFormatVersion = ptr(row.FormatVersion)
	line.NewPruefidentifikator = optional(row.Pruefidentifikator)
	line.NewFormat = ptr(row.Format)
	line.NewSegmentGroupKey = optional(row.SegmentGroupKey)
	line.NewSegmentCode = optional(row.SegmentCode)
	line.NewDataElementID = optional(row.DataElementID)
	line.NewCodeValue = optional(row.CodeValue)
	line.NewAHBStatus = optional(row.AHBStatus)
	line.NewStatusStd = optional(row.StatusStd)
	line.NewStatusSpecification = optional(row.StatusSpecification)
	line.NewLineName = ptr(row.LineName)
	line.NewBedingung = optional(row.Bedingung)
	line.NewBedingungFehler = optional(row.BedingungFehler)
}

func ptr(s string) *string {
	return &s
}

// optional maps empty values to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
