// Package engine implements the core query loop. The Engine drives a
// model through repeated generate/execute rounds: each response is
// scanned for a code fragment, the fragment runs in the sandbox, and the
// captured output is fed back into the next prompt. The loop ends when a
// fragment calls FINAL or FINAL_VAR, when a response carries no code at
// all (the response text is the answer), or when the iteration budget
// runs out.
package engine
