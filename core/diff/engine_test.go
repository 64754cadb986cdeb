package diff

import (
	"fmt"
	"strings"
	"testing"

	"ahb-manager/core/flatten"
	"ahb-manager/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ahbRows(t *testing.T, fv string, awf model.Anwendungsfall) []flatten.Row {
	t.Helper()
	rows, err := flatten.New().Anwendungsfall(flatten.Meta{Format: "UTILMD", FormatVersion: fv}, awf)
	require.NoError(t, err)
	return rows
}

func contactAWF(ctaStatus string, withRFF bool) model.Anwendungsfall {
	sg3 := &model.SegmentGroup{ID: "SG3", Name: "Ansprechpartner", AHBStatus: "Kann", Children: []model.Node{
		{Segment: &model.Segment{ID: "CTA", Name: "Ansprechpartner", Number: "00007", AHBStatus: ctaStatus, Elements: []model.Element{
			{DataElement: &model.DataElement{ID: "D_3139", Name: "Funktion des Ansprechpartners, Code", AHBStatus: "Muss", Codes: []model.Code{{Name: "Informationskontakt", Value: "IC", AHBStatus: "X"}}}},
		}}},
		{Segment: &model.Segment{ID: "COM", Name: "Kommunikationsverbindung", Number: "00008", AHBStatus: "Muss"}},
	}}
	children := []model.Node{
		{Segment: &model.Segment{ID: "UNH", Name: "Nachrichten-Kopfsegment", Number: "00001", AHBStatus: "Muss"}},
		{Group: sg3},
	}
	if withRFF {
		children = append(children, model.Node{Segment: &model.Segment{ID: "RFF", Name: "Referenz", Number: "00009", AHBStatus: "Kann"}})
	}
	return model.Anwendungsfall{Pruefidentifikator: "55001", Format: "UTILMD", Children: children}
}

func TestDiff_ModifiedUsageStatus(t *testing.T) {
	oldRows := ahbRows(t, "FV2304", contactAWF("Kann", false))
	newRows := ahbRows(t, "FV2310", contactAWF("Muss", false))

	result := Diff(AHBAdapter{}, Versions{Scope: "55001", Old: "FV2304", New: "FV2310"}, oldRows, newRows)

	assert.Equal(t, Summary{Total: len(oldRows), Modified: 1, Unchanged: len(oldRows) - 1}, result.Summary)

	changes := result.Changes()
	require.Len(t, changes, 1)
	cta := changes[0]
	assert.Equal(t, StatusModified, cta.DiffStatus)
	assert.Equal(t, "SG3 > CTA", cta.IDPath)
	assert.Equal(t, "ahb_status", cta.ChangedColumns)
	assert.Equal(t, "Kann", *cta.OldAHBStatus)
	assert.Equal(t, "Muss", *cta.NewAHBStatus)
	assert.Equal(t, "FV2304", *cta.OldFormatVersion)
	assert.Equal(t, "FV2310", *cta.NewFormatVersion)
	assert.Equal(t, "55001", *cta.NewPruefidentifikator)
	assert.Equal(t, "SG3", *cta.NewSegmentGroupKey)
	assert.Equal(t, "CTA", *cta.OldSegmentCode)
}

func TestDiff_ChangedColumnsSorted(t *testing.T) {
	oldRows := []flatten.Row{{IDPath: "SG3 > CTA", Pruefidentifikator: "55001", AHBStatus: "Kann", LineName: "Kontakt", Bedingung: "[1] a"}}
	newRows := []flatten.Row{{IDPath: "SG3 > CTA", Pruefidentifikator: "55001", AHBStatus: "Muss", LineName: "Ansprechpartner", Bedingung: "[1] b", StatusStd: "M"}}

	result := Diff(AHBAdapter{}, Versions{}, oldRows, newRows)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "ahb_status,bedingung,line_name", result.Lines[0].ChangedColumns)
}

func TestDiff_AddedAndDeletedNullColumns(t *testing.T) {
	oldRows := ahbRows(t, "FV2304", contactAWF("Kann", false))
	newRows := ahbRows(t, "FV2310", contactAWF("Kann", true))

	result := Diff(AHBAdapter{}, Versions{}, oldRows, newRows)
	require.Equal(t, 1, result.Summary.Added)

	for _, line := range result.Lines {
		switch line.DiffStatus {
		case StatusAdded:
			assert.Equal(t, "RFF", line.IDPath)
			assertAllNil(t, line, "Old")
			assert.NotNil(t, line.NewFormatVersion)
			assert.NotNil(t, line.NewLineName)
		case StatusDeleted:
			assertAllNil(t, line, "New")
		}
	}

	reversed := Diff(AHBAdapter{}, Versions{}, newRows, oldRows)
	require.Equal(t, 1, reversed.Summary.Deleted)
	for _, line := range reversed.Changes() {
		assertAllNil(t, line, "New")
		assert.NotNil(t, line.OldFormatVersion)
	}
}

func assertAllNil(t *testing.T, line Line, side string) {
	t.Helper()
	fields := map[string]*string{
		"FormatVersion": line.OldFormatVersion, "Pruefidentifikator": line.OldPruefidentifikator, "Format": line.OldFormat,
		"SegmentGroupKey": line.OldSegmentGroupKey, "SegmentCode": line.OldSegmentCode, "DataElementID": line.OldDataElementID,
		"CodeValue": line.OldCodeValue, "AHBStatus": line.OldAHBStatus, "StatusStd": line.OldStatusStd,
		"StatusSpecification": line.OldStatusSpecification, "LineName": line.OldLineName,
		"Bedingung": line.OldBedingung, "BedingungFehler": line.OldBedingungFehler,
	}
	if side == "New" {
		fields = map[string]*string{
			"FormatVersion": line.NewFormatVersion, "Pruefidentifikator": line.NewPruefidentifikator, "Format": line.NewFormat,
			"SegmentGroupKey": line.NewSegmentGroupKey, "SegmentCode": line.NewSegmentCode, "DataElementID": line.NewDataElementID,
			"CodeValue": line.NewCodeValue, "AHBStatus": line.NewAHBStatus, "StatusStd": line.NewStatusStd,
			"StatusSpecification": line.NewStatusSpecification, "LineName": line.NewLineName,
			"Bedingung": line.NewBedingung, "BedingungFehler": line.NewBedingungFehler,
		}
	}
	for name, v := range fields {
		assert.Nil(t, v, "%s%s of %s", side, name, line.Anchor)
	}
}

func TestDiff_SelfIdentity(t *testing.T) {
	rows := ahbRows(t, "FV2310", contactAWF("Muss", true))
	flatten.Fingerprint(rows)

	for _, adapter := range []Adapter{AHBAdapter{}, MIGAdapter{}} {
		result := Diff(adapter, Versions{}, rows, rows)
		assert.Equal(t, Summary{Total: len(rows), Unchanged: len(rows)}, result.Summary, adapter.Name())
	}
}

func TestDiff_Symmetry(t *testing.T) {
	a := ahbRows(t, "FV2304", contactAWF("Kann", false))
	b := ahbRows(t, "FV2310", contactAWF("Muss", true))
	b[len(b)-1].LineName = "Referenz Vorgang"

	for _, adapter := range []Adapter{AHBAdapter{}, MIGAdapter{}} {
		ab := Diff(adapter, Versions{}, a, b).Summary
		ba := Diff(adapter, Versions{}, b, a).Summary

		assert.Equal(t, ab.Added, ba.Deleted, adapter.Name())
		assert.Equal(t, ab.Deleted, ba.Added, adapter.Name())
		assert.Equal(t, ab.Modified, ba.Modified, adapter.Name())
		assert.Equal(t, ab.Unchanged, ba.Unchanged, adapter.Name())
		assert.Equal(t, ab.Total, ba.Total, adapter.Name())
	}
}

func TestDiff_MIGRenameIsDeleteAndAdd(t *testing.T) {
	oldRows := []flatten.Row{{Path: "UTILMD > Beteiligter", IDPath: "NAD", SortPath: "00000"}}
	newRows := []flatten.Row{{Path: "UTILMD > Marktpartner", IDPath: "NAD", SortPath: "00000"}}

	result := Diff(MIGAdapter{}, Versions{}, oldRows, newRows)
	assert.Equal(t, Summary{Total: 2, Added: 1, Deleted: 1}, result.Summary)
}

func TestDiff_RepeatedAnchorsPairByOccurrence(t *testing.T) {
	row := func(sortPath, status string) flatten.Row {
		return flatten.Row{IDPath: "SG4 > DTM > C_C507 > D_2005", Pruefidentifikator: "55001", SortPath: sortPath, AHBStatus: status}
	}
	oldRows := []flatten.Row{row("00001", "Muss"), row("00000", "Kann")}
	newRows := []flatten.Row{row("00000", "Kann"), row("00001", "Soll"), row("00002", "X")}

	result := Diff(AHBAdapter{}, Versions{}, oldRows, newRows)
	assert.Equal(t, Summary{Total: 3, Added: 1, Modified: 1, Unchanged: 1}, result.Summary)

	anchors := make(map[string]int)
	for _, l := range result.Lines {
		anchors[l.Anchor]++
	}
	for anchor, n := range anchors {
		assert.Equal(t, 1, n, anchor)
	}
	assert.Equal(t, []Status{StatusUnchanged, StatusModified, StatusAdded},
		[]Status{result.Lines[0].DiffStatus, result.Lines[1].DiffStatus, result.Lines[2].DiffStatus})
}

func TestDiff_SamePathAcrossPruefidentifikatoren(t *testing.T) {
	var oldRows, newRows []flatten.Row
	for i := 0; i < 3; i++ {
		pruefi := fmt.Sprintf("5500%d", i+1)
		oldRows = append(oldRows, flatten.Row{IDPath: "SG2 > NAD", Pruefidentifikator: pruefi, AHBStatus: "Muss"})
		newRows = append(newRows, flatten.Row{IDPath: "SG2 > NAD", Pruefidentifikator: pruefi, AHBStatus: "Muss"})
	}
	newRows[1].AHBStatus = "Kann"

	result := Diff(AHBAdapter{}, Versions{}, oldRows, newRows)
	assert.Equal(t, Summary{Total: 3, Modified: 1, Unchanged: 2}, result.Summary)
	for _, l := range result.Changes() {
		assert.True(t, strings.HasSuffix(l.Anchor, "|55002"))
	}
}

func TestDiff_FingerprintFastPath(t *testing.T) {
	oldRows := []flatten.Row{{IDPath: "UNH", AHBStatus: "Muss", Fingerprint: 42}}
	newRows := []flatten.Row{{IDPath: "UNH", AHBStatus: "Muss", Fingerprint: 42}}
	assert.Equal(t, 1, Diff(AHBAdapter{}, Versions{}, oldRows, newRows).Summary.Unchanged)

	// differing fingerprints fall back to column comparison
	newRows[0].Fingerprint = 43
	newRows[0].BedingungFehler = "syntax error"
	assert.Equal(t, 1, Diff(AHBAdapter{}, Versions{}, oldRows, newRows).Summary.Unchanged)
}
