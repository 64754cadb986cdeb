package model

import "strings"

// Code is an enumerated legal value of a data element.
type Code struct {
	Name        string
	Description string
	Value       string
	// AHBStatus is only set in AHB trees.
	AHBStatus string
}

// DataElement is a simple data element (D_xxxx).
type DataElement struct {
	ID                  string
	Name                string
	Description         string
	StatusStd           Status
	StatusSpecification Status
	FormatStd           string
	FormatSpecification string
	AHBStatus           string
	Codes               []Code
}

// CodeValues returns the set of code values of the element.
func (d DataElement) CodeValues() map[string]struct{} {
	values := make(map[string]struct{}, len(d.Codes))
	for _, c := range d.Codes {
		values[c.Value] = struct{}{}
	}
	return values
}

// DataElementGroup is a composite data element (C_xxxx).
type DataElementGroup struct {
	ID                  string
	Name                string
	Description         string
	StatusStd           Status
	StatusSpecification Status
	AHBStatus           string
	DataElements        []DataElement
}

// ElementKind discriminates the Element variants.
type ElementKind uint8

const (
	KindUnknownElement ElementKind = iota
	KindDataElement
	KindDataElementGroup
)

// ElementKindOf derives the element kind from its structural id or tag.
func ElementKindOf(id string) ElementKind {
	switch {
	case strings.HasPrefix(id, "D_"):
		return KindDataElement
	case strings.HasPrefix(id, "C_"):
		return KindDataElementGroup
	default:
		return KindUnknownElement
	}
}

// Element is either a DataElement or a DataElementGroup below a segment.
type Element struct {
	DataElement *DataElement
	Group       *DataElementGroup
}

// Kind reports which variant is set.
func (e Element) Kind() ElementKind {
	switch {
	case e.DataElement != nil:
		return KindDataElement
	case e.Group != nil:
		return KindDataElementGroup
	default:
		return KindUnknownElement
	}
}

// ID returns the structural id of the element.
func (e Element) ID() string {
	switch e.Kind() {
	case KindDataElement:
		return e.DataElement.ID
	case KindDataElementGroup:
		return e.Group.ID
	}
	return ""
}

// Name returns the human readable name of the element.
func (e Element) Name() string {
	switch e.Kind() {
	case KindDataElement:
		return e.DataElement.Name
	case KindDataElementGroup:
		return e.Group.Name
	}
	return ""
}

// AHBStatus returns the usage status of the element.
func (e Element) AHBStatus() string {
	switch e.Kind() {
	case KindDataElement:
		return e.DataElement.AHBStatus
	case KindDataElementGroup:
		return e.Group.AHBStatus
	}
	return ""
}

// Segment is an EDIFACT segment. Number is unique within one Anwendungsfall or MIG.
type Segment struct {
	ID                  string
	Name                string
	Description         string
	Number              string
	Counter             string
	Level               int
	MaxRepStd           int
	MaxRepSpecification int
	StatusStd           Status
	StatusSpecification Status
	Example             string
	AHBStatus           string
	// IsOnUebertragungsdateiLevel marks segments outside the message (UNA, UNB, UNZ).
	IsOnUebertragungsdateiLevel bool
	Elements                    []Element
}

// SegmentGroup nests segments and further groups. Sibling groups may share an ID.
type SegmentGroup struct {
	ID                  string
	Name                string
	Description         string
	Counter             string
	Level               int
	MaxRepStd           int
	MaxRepSpecification int
	StatusStd           Status
	StatusSpecification Status
	AHBStatus           string
	Children            []Node
}

// Nodes implements Container.
func (g SegmentGroup) Nodes() []Node {
	return g.Children
}

// NodeKind discriminates the Node variants.
type NodeKind uint8

const (
	KindUnknownNode NodeKind = iota
	KindSegment
	KindSegmentGroup
)

// NodeKindOf derives the node kind from a document tag (S_xxx or G_SGn).
func NodeKindOf(tag string) NodeKind {
	switch {
	case strings.HasPrefix(tag, "S_"):
		return KindSegment
	case strings.HasPrefix(tag, "G_"):
		return KindSegmentGroup
	default:
		return KindUnknownNode
	}
}

// Node is either a Segment or a SegmentGroup.
type Node struct {
	Segment *Segment
	Group   *SegmentGroup
}

// Kind reports which variant is set.
func (n Node) Kind() NodeKind {
	switch {
	case n.Segment != nil:
		return KindSegment
	case n.Group != nil:
		return KindSegmentGroup
	default:
		return KindUnknownNode
	}
}

// ID returns the structural id of the node.
func (n Node) ID() string {
	switch n.Kind() {
	case KindSegment:
		return n.Segment.ID
	case KindSegmentGroup:
		return n.Group.ID
	}
	return ""
}

// Name returns the human readable name of the node.
func (n Node) Name() string {
	switch n.Kind() {
	case KindSegment:
		return n.Segment.Name
	case KindSegmentGroup:
		return n.Group.Name
	}
	return ""
}

// Container is implemented by every node that owns an ordered list of segments and groups.
type Container interface {
	Nodes() []Node
}
