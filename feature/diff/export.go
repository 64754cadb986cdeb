package diff

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	engine "ahb-manager/core/diff"

	"gopkg.in/yaml.v3"
)

// ErrUnknownExportFormat is returned for export formats other than json, yaml and csv.
var ErrUnknownExportFormat = errors.New("unknown export format")

// Encoder serializes a diff result.
type Encoder struct {
	Extension   string
	ContentType string
	Encode      func(*engine.Result) ([]byte, error)
}

var encoders = map[string]Encoder{
	"json": {Extension: "json", ContentType: "application/json", Encode: encodeJSON},
	"yaml": {Extension: "yaml", ContentType: "application/yaml", Encode: encodeYAML},
	"csv":  {Extension: "csv", ContentType: "text/csv", Encode: encodeCSV},
}

// EncoderFor returns the encoder of format (json, yaml or csv).
func EncoderFor(format string) (Encoder, error) {
	enc, ok := encoders[strings.ToLower(format)]
	if !ok {
		return Encoder{}, fmt.Errorf("%w %q", ErrUnknownExportFormat, format)
	}
	return enc, nil
}

// EncoderForFile picks the encoder from the file extension; .yml is accepted for yaml.
func EncoderForFile(path string) (Encoder, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if strings.EqualFold(ext, "yml") {
		ext = "yaml"
	}
	return EncoderFor(ext)
}

func encodeJSON(result *engine.Result) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// yamlResult mirrors the json field names; yaml.v3 ignores json tags.
type yamlResult struct {
	Kind             string           `yaml:"kind"`
	Scope            string           `yaml:"scope"`
	OldFormatVersion string           `yaml:"old_format_version"`
	NewFormatVersion string           `yaml:"new_format_version"`
	Summary          engine.Summary   `yaml:"summary"`
	Lines            []map[string]any `yaml:"lines"`
}

func encodeYAML(result *engine.Result) ([]byte, error) {
	out := yamlResult{
		Kind:             result.Kind,
		Scope:            result.Scope,
		OldFormatVersion: result.OldFormatVersion,
		NewFormatVersion: result.NewFormatVersion,
		Summary:          result.Summary,
		Lines:            make([]map[string]any, 0, len(result.Lines)),
	}
	// Round trip through json so line keys match the json export.
	for _, line := range result.Lines {
		raw, err := json.Marshal(line)
		if err != nil {
			return nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, m)
	}
	return yaml.Marshal(out)
}

var csvHeader = []string{
	"diff_status", "changed_columns", "line_type", "sort_path", "id_path", "path",
	"old_ahb_status", "new_ahb_status",
	"old_status_std", "new_status_std",
	"old_status_specification", "new_status_specification",
	"old_line_name", "new_line_name",
	"old_bedingung", "new_bedingung",
}

func encodeCSV(result *engine.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, l := range result.Lines {
		record := []string{
			string(l.DiffStatus), l.ChangedColumns, l.LineType, l.SortPath, l.IDPath, l.Path,
			deref(l.OldAHBStatus), deref(l.NewAHBStatus),
			deref(l.OldStatusStd), deref(l.NewStatusStd),
			deref(l.OldStatusSpecification), deref(l.NewStatusSpecification),
			deref(l.OldLineName), deref(l.NewLineName),
			deref(l.OldBedingung), deref(l.NewBedingung),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
