package flatten

import (
	"errors"
	"fmt"
	"strings"

	"ahb-manager/core/model"

	"github.com/google/uuid"
)

const (
	// SortPathWidth is the number of digits per level.
	SortPathWidth = 5
	// MaxPosition is the largest sibling position that fits SortPathWidth.
	MaxPosition = 99999

	sortPathSeparator = "-"
	pathSeparator     = " > "
)

// ErrPositionOverflow is returned when a node has more siblings than SortPathWidth can order.
var ErrPositionOverflow = errors.New("sibling position exceeds sort path width")

// Flattener turns trees into rows.
type Flattener struct {
	// NewID generates row ids.
	NewID func() string
}

// New creates a flattener generating uuid row ids.
func New() *Flattener {
	return &Flattener{NewID: uuid.NewString}
}

// Anwendungsfall flattens one Anwendungsfall. meta's AHB fields are taken from awf.
func (f *Flattener) Anwendungsfall(meta Meta, awf model.Anwendungsfall) ([]Row, error) {
	meta.Pruefidentifikator = awf.Pruefidentifikator
	meta.Beschreibung = awf.Beschreibung
	meta.Kommunikationsrichtung = awf.Kommunikationsrichtung
	if awf.Format != "" {
		meta.Format = awf.Format
	}
	rows, err := f.flatten(meta, awf.Pruefidentifikator, awf)
	if err != nil {
		return nil, fmt.Errorf("pruefidentifikator %s: %w", awf.Pruefidentifikator, err)
	}
	return rows, nil
}

// MIG flattens a message implementation guide.
func (f *Flattener) MIG(meta Meta, mig *model.MessageImplementationGuide) ([]Row, error) {
	if mig.Format != "" {
		meta.Format = mig.Format
	}
	rows, err := f.flatten(meta, meta.Format, mig)
	if err != nil {
		return nil, fmt.Errorf("mig %s: %w", meta.Format, err)
	}
	return rows, nil
}

// walk carries the state of one flattening run.
type walk struct {
	f      *Flattener
	rootID string
	base   Row
	rows   []Row
}

// frame is the ancestry of the node being emitted.
type frame struct {
	parentID *string
	depth    int
	sortPath string
	path     string
	idPath   string

	segmentGroupKey    string
	segmentCode        string
	segmentNumber      string
	dataElementGroupID string
	dataElementID      string
}

func (f *Flattener) flatten(meta Meta, rootLabel string, root model.Container) ([]Row, error) {
	w := &walk{
		f:      f,
		rootID: f.NewID(),
		base: Row{
			Format:                 meta.Format,
			Versionsnummer:         meta.Versionsnummer,
			FormatVersion:          meta.FormatVersion,
			GueltigVon:             meta.GueltigVon,
			GueltigBis:             meta.GueltigBis,
			Pruefidentifikator:     meta.Pruefidentifikator,
			Beschreibung:           meta.Beschreibung,
			Kommunikationsrichtung: meta.Kommunikationsrichtung,
		},
	}

	top := frame{depth: -1, path: rootLabel}
	if err := w.nodes(top, root.Nodes()); err != nil {
		return nil, err
	}
	return w.rows, nil
}

// emit appends a row for the node at position below parent and returns the node's own frame.
func (w *walk) emit(parent frame, position int, lineType LineType, id, name string, fill func(*Row)) (frame, error) {
	if position > MaxPosition {
		return frame{}, fmt.Errorf("%w: %s at position %d below %q", ErrPositionOverflow, id, position, parent.path)
	}

	row := w.base
	row.ID = w.f.NewID()
	row.RootID = w.rootID
	row.ParentID = parent.parentID
	row.LineType = lineType
	row.Depth = parent.depth + 1
	row.Position = position
	row.SortPath = join(parent.sortPath, sortPathSeparator, fmt.Sprintf("%0*d", SortPathWidth, position))
	row.Path = join(parent.path, pathSeparator, name)
	row.IDPath = join(parent.idPath, pathSeparator, id)
	row.LineName = name
	row.SegmentGroupKey = parent.segmentGroupKey
	row.SegmentCode = parent.segmentCode
	row.SegmentNumber = parent.segmentNumber
	row.DataElementGroupID = parent.dataElementGroupID
	row.DataElementID = parent.dataElementID
	fill(&row)
	w.rows = append(w.rows, row)

	return frame{
		parentID:           &row.ID,
		depth:              row.Depth,
		sortPath:           row.SortPath,
		path:               row.Path,
		idPath:             row.IDPath,
		segmentGroupKey:    row.SegmentGroupKey,
		segmentCode:        row.SegmentCode,
		segmentNumber:      row.SegmentNumber,
		dataElementGroupID: row.DataElementGroupID,
		dataElementID:      row.DataElementID,
	}, nil
}

func (w *walk) nodes(parent frame, nodes []model.Node) error {
	for i, n := range nodes {
		var err error
		switch n.Kind() {
		case model.KindSegmentGroup:
			err = w.group(parent, i, n.Group)
		case model.KindSegment:
			err = w.segment(parent, i, n.Segment)
		default:
			err = fmt.Errorf("empty node at position %d below %q", i, parent.path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *walk) group(parent frame, position int, g *model.SegmentGroup) error {
	self, err := w.emit(parent, position, LineSegmentGroup, g.ID, g.Name, func(r *Row) {
		r.SegmentGroupKey = g.ID
		r.SegmentCode = ""
		r.SegmentNumber = ""
		r.AHBStatus = g.AHBStatus
		r.StatusStd = string(g.StatusStd)
		r.StatusSpecification = string(g.StatusSpecification)
	})
	if err != nil {
		return err
	}
	return w.nodes(self, g.Children)
}

func (w *walk) segment(parent frame, position int, s *model.Segment) error {
	self, err := w.emit(parent, position, LineSegment, s.ID, s.Name, func(r *Row) {
		r.SegmentCode = s.ID
		r.SegmentNumber = s.Number
		r.AHBStatus = s.AHBStatus
		r.StatusStd = string(s.StatusStd)
		r.StatusSpecification = string(s.StatusSpecification)
	})
	if err != nil {
		return err
	}

	for i, el := range s.Elements {
		switch el.Kind() {
		case model.KindDataElementGroup:
			err = w.dataElementGroup(self, i, el.Group)
		case model.KindDataElement:
			err = w.dataElement(self, i, el.DataElement)
		default:
			err = fmt.Errorf("empty element at position %d in segment %s", i, s.Number)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *walk) dataElementGroup(parent frame, position int, g *model.DataElementGroup) error {
	self, err := w.emit(parent, position, LineDataElementGroup, g.ID, g.Name, func(r *Row) {
		r.DataElementGroupID = g.ID
		r.AHBStatus = g.AHBStatus
		r.StatusStd = string(g.StatusStd)
		r.StatusSpecification = string(g.StatusSpecification)
	})
	if err != nil {
		return err
	}
	for i := range g.DataElements {
		if err := w.dataElement(self, i, &g.DataElements[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *walk) dataElement(parent frame, position int, d *model.DataElement) error {
	self, err := w.emit(parent, position, LineDataElement, d.ID, d.Name, func(r *Row) {
		r.DataElementID = d.ID
		r.AHBStatus = d.AHBStatus
		r.StatusStd = string(d.StatusStd)
		r.StatusSpecification = string(d.StatusSpecification)
	})
	if err != nil {
		return err
	}
	for i, c := range d.Codes {
		_, err := w.emit(self, i, LineCode, c.Value, c.Name, func(r *Row) {
			r.CodeValue = c.Value
			r.AHBStatus = c.AHBStatus
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func join(prefix, sep, part string) string {
	if prefix == "" {
		return part
	}
	return strings.Join([]string{prefix, part}, sep)
}
