package flatten

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// LineType is the node kind a row was emitted for.
type LineType string

const (
	LineSegmentGroup     LineType = "segment_group"
	LineSegment          LineType = "segment"
	LineDataElementGroup LineType = "dataelementgroup"
	LineDataElement      LineType = "dataelement"
	LineCode             LineType = "code"
)

// Meta is the document context copied onto every row.
type Meta struct {
	Format         string
	Versionsnummer string
	FormatVersion  string
	GueltigVon     time.Time
	// GueltigBis is exclusive; nil means open ended.
	GueltigBis *time.Time

	// AHB only.
	Pruefidentifikator     string
	Beschreibung           string
	Kommunikationsrichtung string
}

// Row is one flattened tree node.
type Row struct {
	ID       string   `gorm:"primaryKey;size:36" json:"id"`
	RunID    string   `gorm:"size:36;index" json:"run_id"`
	ParentID *string  `gorm:"size:36" json:"parent_id"`
	RootID   string   `gorm:"size:36;index" json:"root_id"`
	LineType LineType `gorm:"size:32" json:"line_type"`
	Depth    int      `json:"depth"`
	Position int      `json:"position"`
	SortPath string   `gorm:"size:255;index" json:"sort_path"`
	Path     string   `gorm:"type:text" json:"path"`
	IDPath   string   `gorm:"type:text" json:"id_path"`

	Format                 string     `gorm:"size:16;index:,composite:scope" json:"format"`
	Versionsnummer         string     `gorm:"size:32" json:"versionsnummer"`
	FormatVersion          string     `gorm:"size:8;index:,composite:scope" json:"format_version"`
	GueltigVon             time.Time  `json:"gueltig_von"`
	GueltigBis             *time.Time `json:"gueltig_bis"`
	Pruefidentifikator     string     `gorm:"size:8;index:,composite:scope" json:"pruefidentifikator,omitempty"`
	Beschreibung           string     `gorm:"type:text" json:"beschreibung,omitempty"`
	Kommunikationsrichtung string     `gorm:"size:255" json:"kommunikationsrichtung,omitempty"`

	SegmentGroupKey     string `gorm:"size:16" json:"segmentgroup_key"`
	SegmentCode         string `gorm:"size:8" json:"segment_code"`
	SegmentNumber       string `gorm:"size:8" json:"segment_number"`
	DataElementGroupID  string `gorm:"size:16" json:"dataelementgroup_id"`
	DataElementID       string `gorm:"size:16" json:"dataelement_id"`
	CodeValue           string `gorm:"size:64" json:"code_value"`
	LineName            string `gorm:"type:text" json:"line_name"`
	AHBStatus           string `gorm:"size:255" json:"ahb_status"`
	StatusStd           string `gorm:"size:4" json:"status_std"`
	StatusSpecification string `gorm:"size:4" json:"status_specification"`

	// Filled by condition resolution.
	Bedingung       string `gorm:"type:text" json:"bedingung"`
	BedingungFehler string `gorm:"type:text" json:"bedingung_fehler"`

	// Fingerprint hashes the compared columns; 0 means not computed.
	Fingerprint int64 `json:"fingerprint"`
}

// ComputeFingerprint returns the hash of every column a diff compares.
func (r *Row) ComputeFingerprint() int64 {
	d := xxhash.New()
	for _, v := range []string{r.AHBStatus, r.LineName, r.Bedingung, r.BedingungFehler, r.StatusStd, r.StatusSpecification} {
		_, _ = d.WriteString(strconv.Itoa(len(v)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(v)
	}
	return int64(d.Sum64())
}

// Fingerprint sets the fingerprint of every row.
func Fingerprint(rows []Row) {
	for i := range rows {
		rows[i].Fingerprint = rows[i].ComputeFingerprint()
	}
}
