package reader

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"ahb-manager/core/model"

	"github.com/beevik/etree"
)

const (
	tagUebertragungsdatei = "Uebertragungsdatei"
	tagCode               = "Code"
	tagAHB                = "AHB"
	tagAWF                = "AWF"
	tagBedingungen        = "Bedingungen"
	tagBedingung          = "Bedingung"
	tagUbBedingungen      = "UB_Bedingungen"
	tagUbBedingung        = "UB_Bedingung"
	tagPakete             = "Pakete"
	tagPaket              = "Paket"
	prefixMessage         = "M_"
)

// ReadMIG reads a MIG document.
func ReadMIG(r io.Reader) (*model.MessageImplementationGuide, error) {
	root, err := readRoot(r)
	if err != nil {
		return nil, err
	}

	message := findMessage(root)
	if message == nil {
		return nil, &ElementError{Tag: root.Tag, Path: root.GetPath(), Err: fmt.Errorf("%w: no %s<FORMAT> element", ErrUnknownElement, prefixMessage)}
	}

	w := &walker{}
	nodes, err := w.readNodes(root, root.Tag == tagUebertragungsdatei)
	if err != nil {
		return nil, err
	}

	return &model.MessageImplementationGuide{
		Format:                  w.format,
		Versionsnummer:          message.SelectAttrValue("Versionsnummer", ""),
		Veroeffentlichungsdatum: message.SelectAttrValue("Veroeffentlichungsdatum", ""),
		Author:                  message.SelectAttrValue("Author", ""),
		Children:                nodes,
	}, nil
}

// ReadAHB reads an AHB document with all its Anwendungsfälle and condition tables.
func ReadAHB(r io.Reader) (*model.Anwendungshandbuch, error) {
	root, err := readRoot(r)
	if err != nil {
		return nil, err
	}
	if root.Tag != tagAHB {
		return nil, &ElementError{Tag: root.Tag, Path: root.GetPath(), Err: ErrUnknownElement}
	}

	ahb := &model.Anwendungshandbuch{
		Versionsnummer:          root.SelectAttrValue("Versionsnummer", ""),
		Veroeffentlichungsdatum: root.SelectAttrValue("Veroeffentlichungsdatum", ""),
		Author:                  root.SelectAttrValue("Author", ""),
	}

	for _, child := range root.ChildElements() {
		switch child.Tag {
		case tagAWF:
			awf, err := readAnwendungsfall(child)
			if err != nil {
				return nil, err
			}
			ahb.Anwendungsfaelle = append(ahb.Anwendungsfaelle, awf)
		case tagBedingungen:
			err = eachEntry(child, tagBedingung, func(nummer, text string) {
				ahb.Bedingungen = append(ahb.Bedingungen, model.Bedingung{Nummer: nummer, Text: text})
			})
		case tagUbBedingungen:
			err = eachEntry(child, tagUbBedingung, func(nummer, text string) {
				ahb.UbBedingungen = append(ahb.UbBedingungen, model.UbBedingung{Nummer: nummer, Text: text})
			})
		case tagPakete:
			err = eachEntry(child, tagPaket, func(nummer, text string) {
				ahb.Pakete = append(ahb.Pakete, model.Paket{Nummer: nummer, Text: text})
			})
		default:
			err = &ElementError{Tag: child.Tag, Path: child.GetPath(), Err: ErrUnknownElement}
		}
		if err != nil {
			return nil, err
		}
	}

	return ahb, nil
}

func readRoot(r io.Reader) (*etree.Element, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// findMessage returns the M_<FORMAT> element, which is either the root or a child of the transmission file wrapper.
func findMessage(root *etree.Element) *etree.Element {
	if strings.HasPrefix(root.Tag, prefixMessage) {
		return root
	}
	for _, child := range root.ChildElements() {
		if strings.HasPrefix(child.Tag, prefixMessage) {
			return child
		}
	}
	return nil
}

func readAnwendungsfall(el *etree.Element) (model.Anwendungsfall, error) {
	pruefi := strings.TrimSpace(el.SelectAttrValue("Pruefidentifikator", ""))
	if pruefi == "" {
		return model.Anwendungsfall{}, &ElementError{Tag: el.Tag, Path: el.GetPath(), Err: fmt.Errorf("%w: Pruefidentifikator", ErrMissingAttribute)}
	}

	w := &walker{}
	nodes, err := w.readNodes(el, false)
	if err != nil {
		return model.Anwendungsfall{}, err
	}

	return model.Anwendungsfall{
		Pruefidentifikator:     pruefi,
		Beschreibung:           el.SelectAttrValue("Beschreibung", ""),
		Kommunikationsrichtung: el.SelectAttrValue("Kommunikation_von", ""),
		Format:                 w.format,
		Children:               nodes,
	}, nil
}

func eachEntry(container *etree.Element, tag string, add func(nummer, text string)) error {
	for _, child := range container.ChildElements() {
		if child.Tag != tag {
			return &ElementError{Tag: child.Tag, Path: child.GetPath(), Err: ErrUnknownElement}
		}
		nummer := strings.TrimSpace(child.SelectAttrValue("Nummer", ""))
		if nummer == "" {
			return &ElementError{Tag: child.Tag, Path: child.GetPath(), Err: fmt.Errorf("%w: Nummer", ErrMissingAttribute)}
		}
		add(nummer, strings.TrimSpace(child.Text()))
	}
	return nil
}

// walker carries state collected while descending through transparent wrappers.
type walker struct {
	format string
}

func (w *walker) readNodes(parent *etree.Element, uebertragungsdatei bool) ([]model.Node, error) {
	var nodes []model.Node
	for _, child := range parent.ChildElements() {
		switch {
		case child.Tag == tagUebertragungsdatei:
			inner, err := w.readNodes(child, true)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, inner...)
		case strings.HasPrefix(child.Tag, prefixMessage):
			w.format = strings.TrimPrefix(child.Tag, prefixMessage)
			inner, err := w.readNodes(child, false)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, inner...)
		case model.NodeKindOf(child.Tag) == model.KindSegment:
			seg, err := readSegment(child, uebertragungsdatei)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, model.Node{Segment: seg})
		case model.NodeKindOf(child.Tag) == model.KindSegmentGroup:
			grp, err := w.readGroup(child)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, model.Node{Group: grp})
		default:
			return nil, &ElementError{Tag: child.Tag, Path: child.GetPath(), Err: ErrUnknownElement}
		}
	}
	if strings.HasPrefix(parent.Tag, prefixMessage) && w.format == "" {
		w.format = strings.TrimPrefix(parent.Tag, prefixMessage)
	}
	return nodes, nil
}

func (w *walker) readGroup(el *etree.Element) (*model.SegmentGroup, error) {
	a := attrs{el: el}
	grp := &model.SegmentGroup{
		ID:                  strings.TrimPrefix(el.Tag, "G_"),
		Name:                a.str("Name"),
		Description:         a.str("Description"),
		Counter:             a.str("Counter"),
		Level:               a.integer("Level"),
		MaxRepStd:           a.integer("MaxRep_Std"),
		MaxRepSpecification: a.integer("MaxRep_Specification"),
		StatusStd:           a.status("Status_Std"),
		StatusSpecification: a.status("Status_Specification"),
		AHBStatus:           a.str("AHB_Status"),
	}
	if a.err != nil {
		return nil, a.err
	}

	children, err := w.readNodes(el, false)
	if err != nil {
		return nil, err
	}
	grp.Children = children
	return grp, nil
}

func readSegment(el *etree.Element, uebertragungsdatei bool) (*model.Segment, error) {
	a := attrs{el: el}
	seg := &model.Segment{
		ID:                          strings.TrimPrefix(el.Tag, "S_"),
		Name:                        a.str("Name"),
		Description:                 a.str("Description"),
		Number:                      a.required("Number"),
		Counter:                     a.str("Counter"),
		Level:                       a.integer("Level"),
		MaxRepStd:                   a.integer("MaxRep_Std"),
		MaxRepSpecification:         a.integer("MaxRep_Specification"),
		StatusStd:                   a.status("Status_Std"),
		StatusSpecification:         a.status("Status_Specification"),
		Example:                     a.str("Example"),
		AHBStatus:                   a.str("AHB_Status"),
		IsOnUebertragungsdateiLevel: uebertragungsdatei,
	}
	if a.err != nil {
		return nil, a.err
	}

	for _, child := range el.ChildElements() {
		switch model.ElementKindOf(child.Tag) {
		case model.KindDataElement:
			de, err := readDataElement(child)
			if err != nil {
				return nil, err
			}
			seg.Elements = append(seg.Elements, model.Element{DataElement: de})
		case model.KindDataElementGroup:
			deg, err := readDataElementGroup(child)
			if err != nil {
				return nil, err
			}
			seg.Elements = append(seg.Elements, model.Element{Group: deg})
		default:
			return nil, &ElementError{Tag: child.Tag, Path: child.GetPath(), Err: ErrUnknownElement}
		}
	}
	return seg, nil
}

func readDataElementGroup(el *etree.Element) (*model.DataElementGroup, error) {
	a := attrs{el: el}
	deg := &model.DataElementGroup{
		ID:                  el.Tag,
		Name:                a.str("Name"),
		Description:         a.str("Description"),
		StatusStd:           a.status("Status_Std"),
		StatusSpecification: a.status("Status_Specification"),
		AHBStatus:           a.str("AHB_Status"),
	}
	if a.err != nil {
		return nil, a.err
	}

	for _, child := range el.ChildElements() {
		if model.ElementKindOf(child.Tag) != model.KindDataElement {
			return nil, &ElementError{Tag: child.Tag, Path: child.GetPath(), Err: ErrUnknownElement}
		}
		de, err := readDataElement(child)
		if err != nil {
			return nil, err
		}
		deg.DataElements = append(deg.DataElements, *de)
	}
	return deg, nil
}

func readDataElement(el *etree.Element) (*model.DataElement, error) {
	a := attrs{el: el}
	de := &model.DataElement{
		ID:                  el.Tag,
		Name:                a.str("Name"),
		Description:         a.str("Description"),
		StatusStd:           a.status("Status_Std"),
		StatusSpecification: a.status("Status_Specification"),
		FormatStd:           a.str("Format_Std"),
		FormatSpecification: a.str("Format_Specification"),
		AHBStatus:           a.str("AHB_Status"),
	}
	if a.err != nil {
		return nil, a.err
	}

	for _, child := range el.ChildElements() {
		if child.Tag != tagCode {
			return nil, &ElementError{Tag: child.Tag, Path: child.GetPath(), Err: ErrUnknownElement}
		}
		de.Codes = append(de.Codes, model.Code{
			Name:        child.SelectAttrValue("Name", ""),
			Description: child.SelectAttrValue("Description", ""),
			Value:       strings.TrimSpace(child.Text()),
			AHBStatus:   child.SelectAttrValue("AHB_Status", ""),
		})
	}
	return de, nil
}

// attrs reads attributes of one element and keeps the first conversion error.
type attrs struct {
	el  *etree.Element
	err error
}

func (a *attrs) str(key string) string {
	return a.el.SelectAttrValue(key, "")
}

func (a *attrs) required(key string) string {
	v := strings.TrimSpace(a.str(key))
	if v == "" && a.err == nil {
		a.err = &ElementError{Tag: a.el.Tag, Path: a.el.GetPath(), Err: fmt.Errorf("%w: %s", ErrMissingAttribute, key)}
	}
	return v
}

func (a *attrs) integer(key string) int {
	raw := strings.TrimSpace(a.str(key))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil && a.err == nil {
		a.err = &ElementError{Tag: a.el.Tag, Path: a.el.GetPath(), Err: fmt.Errorf("%w: %s=%q", ErrInvalidAttribute, key, raw)}
	}
	return v
}

func (a *attrs) status(key string) model.Status {
	s, err := model.ParseStatus(a.str(key))
	if err != nil && a.err == nil {
		a.err = &ElementError{Tag: a.el.Tag, Path: a.el.GetPath(), Err: fmt.Errorf("%s: %w", key, err)}
	}
	return s
}
