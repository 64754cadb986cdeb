package condition

import (
	"fmt"
	"strings"
	"unicode"
)

// Evaluator extracts keys from and validates usage-status expressions.
type Evaluator interface {
	// ReferencedKeys returns the distinct keys of expr in order of first appearance.
	ReferencedKeys(expr string) ([]Key, error)
	// Validate reports whether expr is well formed and all its keys are defined in ctx.
	Validate(ctx EvaluationContext, expr string) error
}

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenKey
	tokenOperator
	tokenOpen
	tokenClose
)

type token struct {
	kind tokenKind
	text string
	key  Key
}

var (
	prefixes = map[string]bool{"Muss": true, "Soll": true, "Kann": true, "M": true, "S": true, "K": true, "X": true}
	// infix words; X is infix after an operand and a prefix everywhere else
	infixWords = map[string]bool{"U": true, "O": true, "X": true}
	symbols    = map[rune]bool{'∧': true, '∨': true, '⊻': true}
)

func tokenize(expr string) ([]token, error) {
	var tokens []token
	runes := []rune(expr)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '[':
			end := i + 1
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end == len(runes) {
				return nil, fmt.Errorf("%w: unterminated key at %d in %q", ErrSyntax, i, expr)
			}
			key, err := ParseKey(string(runes[i+1 : end]))
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenKey, text: string(runes[i : end+1]), key: key})
			i = end + 1
		case r == '(':
			tokens = append(tokens, token{kind: tokenOpen, text: "("})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenClose, text: ")"})
			i++
		case symbols[r]:
			tokens = append(tokens, token{kind: tokenOperator, text: string(r)})
			i++
		case unicode.IsLetter(r):
			end := i
			for end < len(runes) && unicode.IsLetter(runes[end]) {
				end++
			}
			tokens = append(tokens, token{kind: tokenWord, text: string(runes[i:end])})
			i = end
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d in %q", ErrSyntax, r, i, expr)
		}
	}
	return tokens, nil
}

// TokenEvaluator checks expressions structurally.
// Adjacent operands without an operator ("[931][494]") are accepted as an implicit conjunction.
type TokenEvaluator struct{}

// ReferencedKeys implements Evaluator.
func (TokenEvaluator) ReferencedKeys(expr string) ([]Key, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	seen := make(map[Key]bool)
	var keys []Key
	for _, t := range tokens {
		if t.kind != tokenKey || seen[t.key] {
			continue
		}
		seen[t.key] = true
		keys = append(keys, t.key)
	}
	return keys, nil
}

type parseState int

const (
	stateStart parseState = iota
	stateAfterPrefix
	stateExpectOperand
	stateAfterOperand
)

// Validate implements Evaluator.
func (e TokenEvaluator) Validate(ctx EvaluationContext, expr string) error {
	tokens, err := tokenize(expr)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	state := stateStart
	depth := 0
	for _, t := range tokens {
		unexpected := fmt.Errorf("%w: unexpected %q in %q", ErrSyntax, t.text, expr)

		switch t.kind {
		case tokenWord:
			switch {
			case state == stateAfterOperand && depth > 0 && infixWords[t.text]:
				state = stateExpectOperand
			case state == stateAfterOperand && (t.text == "U" || t.text == "O"):
				state = stateExpectOperand
			case (state == stateStart || state == stateAfterOperand) && depth == 0 && prefixes[t.text]:
				state = stateAfterPrefix
			default:
				return unexpected
			}
		case tokenOperator:
			if state != stateAfterOperand {
				return unexpected
			}
			state = stateExpectOperand
		case tokenOpen:
			depth++
			state = stateExpectOperand
		case tokenClose:
			if state != stateAfterOperand || depth == 0 {
				return unexpected
			}
			depth--
		case tokenKey:
			if _, ok := ctx.Lookup(t.key); !ok {
				return fmt.Errorf("%w: %s in %q", ErrUndefinedKey, t.key, expr)
			}
			state = stateAfterOperand
		}
	}

	if depth != 0 {
		return fmt.Errorf("%w: unbalanced parentheses in %q", ErrSyntax, expr)
	}
	if state == stateExpectOperand {
		return fmt.Errorf("%w: missing operand at end of %q", ErrSyntax, expr)
	}
	if state == stateStart {
		return fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	return nil
}

// Normalize collapses whitespace so equal expressions share one resolution.
func Normalize(expr string) string {
	return strings.Join(strings.Fields(expr), " ")
}
