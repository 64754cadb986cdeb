package condition

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ahb-manager/core/model"
)

var (
	// ErrSyntax is returned for expressions that cannot be tokenized or are malformed.
	ErrSyntax = errors.New("expression syntax error")
	// ErrUndefinedKey is returned when an expression references a key missing from the context.
	ErrUndefinedKey = errors.New("undefined condition key")
)

// KeyKind tells which condition table a key refers to.
type KeyKind string

const (
	KindBedingung   KeyKind = "bedingung"
	KindUbBedingung KeyKind = "ub_bedingung"
	KindPaket       KeyKind = "paket"
)

// Key is one bracketed reference inside an expression.
type Key struct {
	Kind KeyKind
	// Number is the table key without brackets: "12", "UB3", "4P".
	Number string
	// Repetition is the optional package repetition range, e.g. "0..1".
	Repetition string
}

func (k Key) String() string {
	return "[" + k.Number + "]"
}

var (
	bedingungPattern   = regexp.MustCompile(`^\d+$`)
	ubBedingungPattern = regexp.MustCompile(`^UB\d+$`)
	paketPattern       = regexp.MustCompile(`^(\d+P)(\d+\.\.\d+)?$`)
)

// ParseKey parses the text between the brackets of a key.
func ParseKey(inner string) (Key, error) {
	inner = strings.TrimSpace(inner)
	switch {
	case bedingungPattern.MatchString(inner):
		return Key{Kind: KindBedingung, Number: inner}, nil
	case ubBedingungPattern.MatchString(inner):
		return Key{Kind: KindUbBedingung, Number: inner}, nil
	}
	if m := paketPattern.FindStringSubmatch(inner); m != nil {
		return Key{Kind: KindPaket, Number: m[1], Repetition: m[2]}, nil
	}
	return Key{}, fmt.Errorf("%w: unknown key [%s]", ErrSyntax, inner)
}

// EvaluationContext holds the condition tables an expression is checked against.
type EvaluationContext struct {
	Bedingungen   map[string]string
	UbBedingungen map[string]string
	Pakete        map[string]string
}

// NewContext collects the condition tables of an Anwendungshandbuch.
func NewContext(ahb *model.Anwendungshandbuch) EvaluationContext {
	ctx := EvaluationContext{
		Bedingungen:   make(map[string]string, len(ahb.Bedingungen)),
		UbBedingungen: make(map[string]string, len(ahb.UbBedingungen)),
		Pakete:        make(map[string]string, len(ahb.Pakete)),
	}
	for _, b := range ahb.Bedingungen {
		ctx.Bedingungen[tableKey(b.Nummer)] = b.Text
	}
	for _, b := range ahb.UbBedingungen {
		ctx.UbBedingungen[tableKey(b.Nummer)] = b.Text
	}
	for _, p := range ahb.Pakete {
		ctx.Pakete[tableKey(p.Nummer)] = p.Text
	}
	return ctx
}

// Lookup returns the text of a key.
func (c EvaluationContext) Lookup(k Key) (string, bool) {
	var table map[string]string
	switch k.Kind {
	case KindBedingung:
		table = c.Bedingungen
	case KindUbBedingung:
		table = c.UbBedingungen
	case KindPaket:
		table = c.Pakete
	}
	text, ok := table[k.Number]
	return text, ok
}

func tableKey(nummer string) string {
	return strings.Trim(strings.TrimSpace(nummer), "[]")
}
