package diff

import (
	"ahb-manager/core/flatten"
)

// Column is one compared value of a row.
type Column struct {
	Name  string
	Value func(*flatten.Row) string
}

// Adapter defines how rows of one scope kind are matched and compared.
type Adapter interface {
	// Name is the scope kind ("ahb", "mig").
	Name() string

	// Anchor returns the key matching a row across versions.
	Anchor(row *flatten.Row) string

	// Columns returns the compared columns.
	Columns() []Column
}

var (
	columnAHBStatus = Column{Name: "ahb_status", Value: func(r *flatten.Row) string { return r.AHBStatus }}
	columnLineName  = Column{Name: "line_name", Value: func(r *flatten.Row) string { return r.LineName }}
	columnBedingung = Column{Name: "bedingung", Value: func(r *flatten.Row) string { return r.Bedingung }}
	columnStatusStd = Column{Name: "status_std", Value: func(r *flatten.Row) string { return r.StatusStd }}
	columnStatusSpc = Column{Name: "status_specification", Value: func(r *flatten.Row) string { return r.StatusSpecification }}
)

// AHBAdapter compares the rows of one Prüfidentifikator.
type AHBAdapter struct{}

// Name implements Adapter.
func (AHBAdapter) Name() string { return "ahb" }

// Anchor implements Adapter. id_path alone is not unique across Prüfidentifikatoren.
func (AHBAdapter) Anchor(row *flatten.Row) string {
	return row.IDPath + "|" + row.Pruefidentifikator
}

// Columns implements Adapter.
func (AHBAdapter) Columns() []Column {
	return []Column{columnAHBStatus, columnLineName, columnBedingung}
}

// MIGAdapter compares the rows of one format.
type MIGAdapter struct{}

// Name implements Adapter.
func (MIGAdapter) Name() string { return "mig" }

// Anchor implements Adapter.
func (MIGAdapter) Anchor(row *flatten.Row) string {
	return row.Path
}

// Columns implements Adapter.
func (MIGAdapter) Columns() []Column {
	return []Column{columnStatusStd, columnStatusSpc, columnLineName}
}
