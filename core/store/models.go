package store

import (
	"time"

	"ahb-manager/core/flatten"
)

// Kind is the document family of a run.
type Kind string

const (
	KindAHB Kind = "ahb"
	KindMIG Kind = "mig"
)

// IngestRun records one ingested document.
type IngestRun struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Kind             Kind       `gorm:"size:8;index" json:"kind"`
	Format           string     `gorm:"size:16" json:"format"`
	FormatVersion    string     `gorm:"size:8;index" json:"format_version"`
	Versionsnummer   string     `gorm:"size:32" json:"versionsnummer"`
	Source           string     `gorm:"size:512" json:"source"`
	GueltigVon       time.Time  `json:"gueltig_von"`
	GueltigBis       *time.Time `json:"gueltig_bis"`
	Anwendungsfaelle int        `json:"anwendungsfaelle"`
	Rows             int        `json:"rows"`
	Placeholders     int        `json:"placeholders"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
}

// AHBLine is a flattened AHB row.
type AHBLine struct {
	flatten.Row
}

// TableName implements gorm's tabler.
func (AHBLine) TableName() string { return "ahb_lines" }

// MIGLine is a flattened MIG row.
type MIGLine struct {
	flatten.Row
}

// TableName implements gorm's tabler.
func (MIGLine) TableName() string { return "mig_lines" }

// ConditionResolution stores the readable text of an expression.
type ConditionResolution struct {
	ID            uint   `gorm:"primaryKey"`
	FormatVersion string `gorm:"size:8;uniqueIndex:idx_resolution"`
	Format        string `gorm:"size:16;uniqueIndex:idx_resolution"`
	// ExpressionHash keys the unique index so expressions of any length fit.
	ExpressionHash string `gorm:"size:16;uniqueIndex:idx_resolution"`
	Expression     string `gorm:"type:text"`
	Text           string `gorm:"type:text"`
	Error          string `gorm:"type:text"`
}

// DiffReport is the header of a saved diff.
type DiffReport struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	Kind             string    `gorm:"size:8" json:"kind"`
	Scope            string    `gorm:"size:16" json:"scope"`
	OldFormatVersion string    `gorm:"size:8" json:"old_format_version"`
	NewFormatVersion string    `gorm:"size:8" json:"new_format_version"`
	Added            int       `json:"added"`
	Deleted          int       `json:"deleted"`
	Modified         int       `json:"modified"`
	Unchanged        int       `json:"unchanged"`
	CreatedAt        time.Time `json:"created_at"`
}

// Table returns the line table of a kind.
func (k Kind) Table() string {
	if k == KindMIG {
		return MIGLine{}.TableName()
	}
	return AHBLine{}.TableName()
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindAHB || k == KindMIG
}
