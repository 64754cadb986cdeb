package model

import "time"

// Anwendungsfall is one business transaction of an AHB, keyed by its Prüfidentifikator.
type Anwendungsfall struct {
	Pruefidentifikator string
	Beschreibung       string
	// Kommunikationsrichtung is the raw "Kommunikation_von" text, e.g. "NB an LF".
	Kommunikationsrichtung string
	Format                 string
	Children               []Node
}

// Nodes implements Container.
func (a Anwendungsfall) Nodes() []Node {
	return a.Children
}

// MessageImplementationGuide is the root of a MIG document.
type MessageImplementationGuide struct {
	Format                  string
	Versionsnummer          string
	Veroeffentlichungsdatum string
	Author                  string
	Children                []Node
}

// Nodes implements Container.
func (m MessageImplementationGuide) Nodes() []Node {
	return m.Children
}

// Bedingung maps a condition number to its text.
type Bedingung struct {
	Nummer string
	Text   string
}

// UbBedingung maps an "übergreifende Bedingung" number to its text.
type UbBedingung struct {
	Nummer string
	Text   string
}

// Paket maps a package number to its text.
type Paket struct {
	Nummer string
	Text   string
}

// Anwendungshandbuch is the root of an AHB document.
type Anwendungshandbuch struct {
	Versionsnummer          string
	Veroeffentlichungsdatum string
	Author                  string
	Anwendungsfaelle        []Anwendungsfall
	Bedingungen             []Bedingung
	UbBedingungen           []UbBedingung
	Pakete                  []Paket
}

// Validity is the interval in which a document version applies.
// Bis is exclusive; nil means open ended.
type Validity struct {
	Von time.Time
	Bis *time.Time
}

// Contains reports whether t lies within the validity interval.
func (v Validity) Contains(t time.Time) bool {
	if t.Before(v.Von) {
		return false
	}
	return v.Bis == nil || t.Before(*v.Bis)
}

// Overlaps reports whether two validity intervals share at least one instant.
func (v Validity) Overlaps(other Validity) bool {
	if v.Bis != nil && !other.Von.Before(*v.Bis) {
		return false
	}
	if other.Bis != nil && !v.Von.Before(*other.Bis) {
		return false
	}
	return true
}
