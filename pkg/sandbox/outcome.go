package sandbox

// OutcomeKind classifies the result of executing one fragment.
type OutcomeKind int

const (
	// OutcomeOutput means the fragment ran to completion (or faulted,
	// with the fault converted to output text). The loop continues.
	OutcomeOutput OutcomeKind = iota

	// OutcomeFinal means the fragment invoked FINAL or FINAL_VAR.
	// The loop terminates with Answer.
	OutcomeFinal
)

// Outcome is the result of executing one fragment. Termination is an
// explicit variant rather than an error value: a fragment fault never
// escapes Execute, and the termination signal always does, as OutcomeFinal.
type Outcome struct {
	Kind OutcomeKind

	// Output is the text captured via print, or the textual form of a
	// fault when the fragment failed.
	Output string

	// Answer is the final answer text. Only set when Kind is OutcomeFinal.
	Answer string
}
