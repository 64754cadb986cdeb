// Package model defines the typed tree of EDIFACT message descriptions.
//
// Two document families share the same node kinds:
//
//   - MIG (Message Implementation Guide): the complete legal structure of one
//     message format. MIG nodes carry standard/specification status, formats and
//     repetition limits.
//   - AHB (Anwendungshandbuch): per Prüfidentifikator, which MIG elements are used
//     and under which usage status (the AHB_Status expression).
//
// # Tree Shape
//
//	Anwendungsfall / MessageImplementationGuide
//	└── Node (Segment | SegmentGroup)
//	    ├── SegmentGroup ── Node ...
//	    └── Segment
//	        └── Element (DataElement | DataElementGroup)
//	            ├── DataElementGroup ── DataElement ...
//	            └── DataElement ── Code ...
//
// # Variants
//
// Node and Element are tagged unions. Exactly one pointer is set; the variant is
// chosen from the structural tag of the source document (S_/G_ for nodes, D_/C_
// for elements, see NodeKindOf and ElementKindOf). Traversal code switches on
// Kind() instead of inspecting concrete types.
//
// # Ownership
//
// Children are owned by exactly one parent. Code that derives a new tree (the
// sanitizer) copies slices before changing them so an input tree is never
// modified.
package model
