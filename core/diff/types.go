package diff

// Status classifies a diff line.
type Status string

const (
	StatusAdded     Status = "added"
	StatusDeleted   Status = "deleted"
	StatusModified  Status = "modified"
	StatusUnchanged Status = "unchanged"
)

// Line is the comparison of one anchor across two versions.
type Line struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	ReportID string `gorm:"size:36;index" json:"-"`

	Kind           string `gorm:"size:8" json:"kind"`
	Anchor         string `gorm:"type:text" json:"anchor"`
	IDPath         string `gorm:"type:text" json:"id_path"`
	SortPath       string `gorm:"size:255" json:"sort_path"`
	Path           string `gorm:"type:text" json:"path"`
	LineType       string `gorm:"size:32" json:"line_type"`
	DiffStatus     Status `gorm:"size:16;index" json:"diff_status"`
	ChangedColumns string `gorm:"size:255" json:"changed_columns"`

	OldFormatVersion      *string `gorm:"size:8" json:"old_format_version"`
	NewFormatVersion      *string `gorm:"size:8" json:"new_format_version"`
	OldPruefidentifikator *string `gorm:"size:8" json:"old_pruefidentifikator"`
	NewPruefidentifikator *string `gorm:"size:8" json:"new_pruefidentifikator"`
	OldFormat             *string `gorm:"size:16" json:"old_format"`
	NewFormat             *string `gorm:"size:16" json:"new_format"`

	OldSegmentGroupKey     *string `gorm:"size:16" json:"old_segmentgroup_key"`
	NewSegmentGroupKey     *string `gorm:"size:16" json:"new_segmentgroup_key"`
	OldSegmentCode         *string `gorm:"size:8" json:"old_segment_code"`
	NewSegmentCode         *string `gorm:"size:8" json:"new_segment_code"`
	OldDataElementID       *string `gorm:"size:16" json:"old_dataelement_id"`
	NewDataElementID       *string `gorm:"size:16" json:"new_dataelement_id"`
	OldCodeValue           *string `gorm:"size:64" json:"old_code_value"`
	NewCodeValue           *string `gorm:"size:64" json:"new_code_value"`
	OldAHBStatus           *string `gorm:"size:255" json:"old_ahb_status"`
	NewAHBStatus           *string `gorm:"size:255" json:"new_ahb_status"`
	OldStatusStd           *string `gorm:"size:4" json:"old_status_std"`
	NewStatusStd           *string `gorm:"size:4" json:"new_status_std"`
	OldStatusSpecification *string `gorm:"size:4" json:"old_status_specification"`
	NewStatusSpecification *string `gorm:"size:4" json:"new_status_specification"`
	OldLineName            *string `gorm:"type:text" json:"old_line_name"`
	NewLineName            *string `gorm:"type:text" json:"new_line_name"`
	OldBedingung           *string `gorm:"type:text" json:"old_bedingung"`
	NewBedingung           *string `gorm:"type:text" json:"new_bedingung"`
	OldBedingungFehler     *string `gorm:"type:text" json:"old_bedingung_fehler"`
	NewBedingungFehler     *string `gorm:"type:text" json:"new_bedingung_fehler"`
}

// TableName stores lines in diff_lines.
func (Line) TableName() string {
	return "diff_lines"
}

// Result is the diff of one scope.
type Result struct {
	Kind             string  `json:"kind"`
	Scope            string  `json:"scope"`
	OldFormatVersion string  `json:"old_format_version"`
	NewFormatVersion string  `json:"new_format_version"`
	Lines            []Line  `json:"lines"`
	Summary          Summary `json:"summary"`
}

// Changes returns every line that is not unchanged.
func (r *Result) Changes() []Line {
	out := make([]Line, 0, r.Summary.Added+r.Summary.Deleted+r.Summary.Modified)
	for _, l := range r.Lines {
		if l.DiffStatus != StatusUnchanged {
			out = append(out, l)
		}
	}
	return out
}

// Summary counts lines per status.
type Summary struct {
	Total     int `json:"total"`
	Added     int `json:"added"`
	Deleted   int `json:"deleted"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

func (s *Summary) count(status Status) {
	s.Total++
	switch status {
	case StatusAdded:
		s.Added++
	case StatusDeleted:
		s.Deleted++
	case StatusModified:
		s.Modified++
	case StatusUnchanged:
		s.Unchanged++
	}
}
