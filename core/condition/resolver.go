package condition

import (
	"strings"
)

// Resolution is the readable text of one expression in one format version.
type Resolution struct {
	FormatVersion string
	Format        string
	Expression    string
	// Text holds one "[key] text" line per referenced key.
	Text string
	// Error is set when the expression could not be resolved; Text is empty then.
	Error string
}

// Resolver turns expressions into Resolutions.
type Resolver struct {
	evaluator Evaluator
}

// NewResolver creates a resolver. A nil evaluator selects TokenEvaluator.
func NewResolver(evaluator Evaluator) *Resolver {
	if evaluator == nil {
		evaluator = TokenEvaluator{}
	}
	return &Resolver{evaluator: evaluator}
}

// Resolve resolves a single expression. It never fails; errors are recorded in the Resolution.
func (r *Resolver) Resolve(ctx EvaluationContext, format, formatVersion, expr string) Resolution {
	res := Resolution{FormatVersion: formatVersion, Format: format, Expression: Normalize(expr)}
	if res.Expression == "" {
		return res
	}

	if err := r.evaluator.Validate(ctx, res.Expression); err != nil {
		res.Error = err.Error()
		return res
	}
	keys, err := r.evaluator.ReferencedKeys(res.Expression)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		text, _ := ctx.Lookup(k)
		lines = append(lines, k.String()+" "+text)
	}
	res.Text = strings.Join(lines, "\n")
	return res
}

// ResolveAll resolves every distinct non-empty expression once, in order of first appearance.
func (r *Resolver) ResolveAll(ctx EvaluationContext, format, formatVersion string, exprs []string) []Resolution {
	seen := make(map[string]bool, len(exprs))
	out := make([]Resolution, 0, len(exprs))
	for _, expr := range exprs {
		n := Normalize(expr)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, r.Resolve(ctx, format, formatVersion, n))
	}
	return out
}
