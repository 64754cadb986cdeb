// Package condition resolves AHB usage-status expressions to readable text.
//
// An AHB usage status is a short expression such as
//
//	Muss [1] ∧ ([12] ∨ [UB3])
//	Soll [4P0..1]
//	X [999999]
//
// The bracketed keys reference the condition tables of the Anwendungshandbuch:
// numbers are Bedingungen, UB<n> are UB-Bedingungen and <n>P packages (with an
// optional repetition range) are Pakete.
//
// # Evaluator
//
// The Evaluator interface is the only thing the resolver needs from an
// expression engine: the keys an expression references and whether the
// expression is valid for a given EvaluationContext. TokenEvaluator is the
// built-in implementation; it checks structure only and never evaluates truth
// values.
//
// The context is always passed explicitly. There is no package level state.
//
// # Resolution
//
// Resolver.Resolve turns an expression into one "[key] text" line per
// referenced key. Invalid expressions never abort a run: the Resolution
// carries an empty text and the error message instead.
package condition
