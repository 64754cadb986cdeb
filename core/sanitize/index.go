package sanitize

import (
	"fmt"

	"ahb-manager/core/model"
)

// SegmentIndex maps segment numbers to segments.
type SegmentIndex map[string]*model.Segment

// IndexSegments collects every segment below c, recursing into nested groups.
// Empty nodes and empty elements are rejected with their position.
func IndexSegments(c model.Container) (SegmentIndex, error) {
	index := make(SegmentIndex)
	if err := indexNodes(c.Nodes(), index, "root"); err != nil {
		return nil, err
	}
	return index, nil
}

func indexNodes(nodes []model.Node, index SegmentIndex, parent string) error {
	for i, n := range nodes {
		switch n.Kind() {
		case model.KindSegment:
			if existing, ok := index[n.Segment.Number]; ok {
				return fmt.Errorf("%w: %s used by %s and %s", ErrDuplicateSegmentNumber, n.Segment.Number, existing.ID, n.Segment.ID)
			}
			if err := checkElements(n.Segment); err != nil {
				return err
			}
			index[n.Segment.Number] = n.Segment
		case model.KindSegmentGroup:
			if err := indexNodes(n.Group.Children, index, n.Group.ID); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w at position %d below %s", ErrUnknownNode, i, parent)
		}
	}
	return nil
}

func checkElements(seg *model.Segment) error {
	for i, el := range seg.Elements {
		if el.Kind() != model.KindDataElement && el.Kind() != model.KindDataElementGroup {
			return &SegmentError{
				SegmentNumber: seg.Number,
				Err:           fmt.Errorf("%w at position %d", ErrUnknownElement, i),
			}
		}
	}
	return nil
}
