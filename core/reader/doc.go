// Package reader turns MIG and AHB XML documents into model trees.
//
// It is the boundary between the raw documents and the core algorithms. The
// reader dispatches on the tag of every child element:
//
//   - Uebertragungsdatei: transparent wrapper; segments directly below it are
//     flagged as transmission-file level (UNA, UNB, UNZ).
//   - M_<FORMAT>: transparent message wrapper; sets the format.
//   - G_<ID>, S_<ID>: segment groups and segments.
//   - C_<ID>, D_<ID>: data element groups and data elements.
//   - Code: enumerated code values; the element text is the value.
//   - AWF, Bedingungen, UB_Bedingungen, Pakete: AHB specific containers.
//
// A child tag that matches none of these predicates is never skipped: reading
// fails with ErrUnknownElement wrapped in an *ElementError naming the tag and
// its document path.
//
// # Usage
//
//	mig, err := reader.ReadMIG(migFile)
//	ahb, err := reader.ReadAHB(ahbFile)
package reader
