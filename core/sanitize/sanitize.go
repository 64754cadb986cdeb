package sanitize

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"ahb-manager/core/model"
)

const (
	// UnusedConditionNumber is the condition number reserved for placeholders.
	UnusedConditionNumber = "999999"
	// UnusedStatus is the usage status of every synthesized placeholder.
	UnusedStatus = "X [" + UnusedConditionNumber + "]"
	// UnusedConditionText is the text registered for UnusedConditionNumber.
	UnusedConditionText = "Das Element wird in diesem Anwendungsfall nicht verwendet (ergänzt aus der MIG)."
)

// IsPlaceholder reports whether a usage status marks a synthesized placeholder.
func IsPlaceholder(ahbStatus string) bool {
	return ahbStatus == UnusedStatus
}

// Report summarizes the reconciliation of one Anwendungsfall.
type Report struct {
	Pruefidentifikator string
	// Placeholders counts synthesized elements, including data elements inside synthesized groups.
	Placeholders int
	// UnmatchedSegments lists AHB segment numbers the MIG does not define. These segments are kept unchanged.
	UnmatchedSegments []string
}

// Reconciler aligns Anwendungsfälle against one MIG.
// It is immutable after construction and safe for concurrent use.
type Reconciler struct {
	format string
	index  SegmentIndex
}

// NewReconciler indexes the MIG's segments.
func NewReconciler(mig *model.MessageImplementationGuide) (*Reconciler, error) {
	index, err := IndexSegments(mig)
	if err != nil {
		return nil, fmt.Errorf("mig %s: %w", mig.Format, err)
	}
	return &Reconciler{format: mig.Format, index: index}, nil
}

// Anwendungsfall returns a copy of awf in which every MIG element of every shared segment number has an AHB counterpart.
func (r *Reconciler) Anwendungsfall(awf model.Anwendungsfall) (model.Anwendungsfall, Report, error) {
	report := Report{Pruefidentifikator: awf.Pruefidentifikator}

	if _, err := IndexSegments(awf); err != nil {
		return model.Anwendungsfall{}, report, fmt.Errorf("pruefidentifikator %s: %w", awf.Pruefidentifikator, err)
	}

	run := &run{index: r.index, report: &report}
	children, err := run.nodes(awf.Children)
	if err != nil {
		var segErr *SegmentError
		if errors.As(err, &segErr) {
			segErr.Pruefidentifikator = awf.Pruefidentifikator
		}
		return model.Anwendungsfall{}, report, err
	}

	out := awf
	out.Children = children
	return out, report, nil
}

// SanitizeAnwendungsfall reconciles a single Anwendungsfall against its MIG.
func SanitizeAnwendungsfall(mig *model.MessageImplementationGuide, awf model.Anwendungsfall) (model.Anwendungsfall, Report, error) {
	r, err := NewReconciler(mig)
	if err != nil {
		return model.Anwendungsfall{}, Report{}, err
	}
	return r.Anwendungsfall(awf)
}

// SanitizeAnwendungshandbuch registers the placeholder condition and reconciles every Anwendungsfall
// against the MIG of its format. migs is keyed by format (e.g. "UTILMD").
func SanitizeAnwendungshandbuch(migs map[string]*model.MessageImplementationGuide, ahb *model.Anwendungshandbuch) (*model.Anwendungshandbuch, []Report, error) {
	out, err := WithUnusedCondition(ahb)
	if err != nil {
		return nil, nil, err
	}

	reconcilers := make(map[string]*Reconciler)
	reports := make([]Report, 0, len(ahb.Anwendungsfaelle))
	out.Anwendungsfaelle = make([]model.Anwendungsfall, 0, len(ahb.Anwendungsfaelle))

	for _, awf := range ahb.Anwendungsfaelle {
		r, ok := reconcilers[awf.Format]
		if !ok {
			mig, found := migs[awf.Format]
			if !found {
				return nil, nil, fmt.Errorf("pruefidentifikator %s: %w %q", awf.Pruefidentifikator, ErrMissingMig, awf.Format)
			}
			r, err = NewReconciler(mig)
			if err != nil {
				return nil, nil, err
			}
			reconcilers[awf.Format] = r
		}

		sanitized, report, err := r.Anwendungsfall(awf)
		if err != nil {
			return nil, nil, err
		}
		out.Anwendungsfaelle = append(out.Anwendungsfaelle, sanitized)
		reports = append(reports, report)
	}

	return out, reports, nil
}

// WithUnusedCondition returns a copy of ahb whose condition table contains the placeholder condition.
// It fails if the document already defines the reserved number.
func WithUnusedCondition(ahb *model.Anwendungshandbuch) (*model.Anwendungshandbuch, error) {
	for _, b := range ahb.Bedingungen {
		if normalizeNummer(b.Nummer) == UnusedConditionNumber {
			return nil, fmt.Errorf("%w: [%s] %q", ErrSentinelCollision, UnusedConditionNumber, b.Text)
		}
	}

	out := *ahb
	out.Bedingungen = append(slices.Clone(ahb.Bedingungen), model.Bedingung{
		Nummer: "[" + UnusedConditionNumber + "]",
		Text:   UnusedConditionText,
	})
	return &out, nil
}

func normalizeNummer(nummer string) string {
	return strings.Trim(strings.TrimSpace(nummer), "[]")
}

// run holds the state of one Anwendungsfall reconciliation.
type run struct {
	index  SegmentIndex
	report *Report
}

func (r *run) nodes(nodes []model.Node) ([]model.Node, error) {
	out := make([]model.Node, 0, len(nodes))
	for i, n := range nodes {
		switch n.Kind() {
		case model.KindSegment:
			seg, err := r.segment(n.Segment)
			if err != nil {
				return nil, err
			}
			out = append(out, model.Node{Segment: seg})
		case model.KindSegmentGroup:
			children, err := r.nodes(n.Group.Children)
			if err != nil {
				return nil, err
			}
			grp := *n.Group
			grp.Children = children
			out = append(out, model.Node{Group: &grp})
		default:
			return nil, fmt.Errorf("%w at position %d", ErrUnknownNode, i)
		}
	}
	return out, nil
}

func (r *run) segment(ahb *model.Segment) (*model.Segment, error) {
	seg := *ahb

	mig, ok := r.index[ahb.Number]
	if !ok {
		r.report.UnmatchedSegments = append(r.report.UnmatchedSegments, ahb.Number)
		seg.Elements = slices.Clone(ahb.Elements)
		return &seg, nil
	}

	elements, err := r.elements().align(mig.Elements, ahb.Elements)
	if err != nil {
		var ae *alignError
		if errors.As(err, &ae) {
			return nil, &SegmentError{SegmentNumber: ahb.Number, ElementPath: ae.path, Err: ae.err}
		}
		return nil, &SegmentError{SegmentNumber: ahb.Number, Err: err}
	}

	seg.Elements = elements
	return &seg, nil
}

// elements aligns the data elements and data element groups of a segment.
func (r *run) elements() aligner[model.Element] {
	return aligner[model.Element]{
		id:      model.Element.ID,
		matches: elementMatches,
		merge: func(mig, ahb model.Element) (model.Element, error) {
			switch ahb.Kind() {
			case model.KindDataElementGroup:
				children, err := r.dataElements().align(mig.Group.DataElements, ahb.Group.DataElements)
				if err != nil {
					return model.Element{}, nestError(ahb.ID(), err)
				}
				grp := *ahb.Group
				grp.DataElements = children
				return model.Element{Group: &grp}, nil
			default:
				de := copyDataElement(*ahb.DataElement)
				return model.Element{DataElement: &de}, nil
			}
		},
		placeholder: func(mig model.Element) model.Element {
			switch mig.Kind() {
			case model.KindDataElementGroup:
				return model.Element{Group: r.groupPlaceholder(mig.Group)}
			default:
				de := r.dataElementPlaceholder(*mig.DataElement)
				return model.Element{DataElement: &de}
			}
		},
	}
}

// dataElements aligns the children of a data element group.
func (r *run) dataElements() aligner[model.DataElement] {
	return aligner[model.DataElement]{
		id:      func(d model.DataElement) string { return d.ID },
		matches: dataElementMatches,
		merge: func(_, ahb model.DataElement) (model.DataElement, error) {
			return copyDataElement(ahb), nil
		},
		placeholder: r.dataElementPlaceholder,
	}
}

func (r *run) dataElementPlaceholder(mig model.DataElement) model.DataElement {
	r.report.Placeholders++
	return model.DataElement{
		ID:          mig.ID,
		Name:        mig.Name,
		Description: mig.Description,
		AHBStatus:   UnusedStatus,
	}
}

func (r *run) groupPlaceholder(mig *model.DataElementGroup) *model.DataElementGroup {
	r.report.Placeholders++
	grp := &model.DataElementGroup{
		ID:           mig.ID,
		Name:         mig.Name,
		Description:  mig.Description,
		AHBStatus:    UnusedStatus,
		DataElements: make([]model.DataElement, 0, len(mig.DataElements)),
	}
	for _, de := range mig.DataElements {
		grp.DataElements = append(grp.DataElements, r.dataElementPlaceholder(de))
	}
	return grp
}

func copyDataElement(d model.DataElement) model.DataElement {
	d.Codes = slices.Clone(d.Codes)
	return d
}

// dataElementMatches: same id, same name, AHB codes a subset of the MIG codes.
func dataElementMatches(mig, ahb model.DataElement) bool {
	if mig.ID != ahb.ID || mig.Name != ahb.Name {
		return false
	}
	migCodes := mig.CodeValues()
	for _, c := range ahb.Codes {
		if _, ok := migCodes[c.Value]; !ok {
			return false
		}
	}
	return true
}

// groupMatches: same id and every AHB child matches some MIG child, regardless of position.
func groupMatches(mig, ahb *model.DataElementGroup) bool {
	if mig.ID != ahb.ID {
		return false
	}
	for _, a := range ahb.DataElements {
		found := false
		for _, m := range mig.DataElements {
			if dataElementMatches(m, a) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func elementMatches(mig, ahb model.Element) bool {
	if mig.Kind() != ahb.Kind() {
		return false
	}
	switch mig.Kind() {
	case model.KindDataElement:
		return dataElementMatches(*mig.DataElement, *ahb.DataElement)
	case model.KindDataElementGroup:
		return groupMatches(mig.Group, ahb.Group)
	}
	return false
}
