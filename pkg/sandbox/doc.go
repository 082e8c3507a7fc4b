// Package sandbox executes model-generated code fragments against a
// restricted, stateful namespace.
//
// A fragment is a sequence of newline-separated statements. Each statement
// is either an assignment ("name = <expression>") or a bare expression.
// Expressions are evaluated with the expr language (expr-lang/expr), which
// has no ambient access to the filesystem, network, processes, or
// reflection. On top of the expr builtins (len, slicing, split, join,
// sort, min, max, sum, filter, map, ...) the namespace exposes:
//
//   - context, query: the corpus text and the user's question (read-only)
//   - print(...): append text to the fragment's captured output
//   - llm_query(prompt): a blocking sub-query to the model client
//   - FINAL(value), FINAL_VAR(name): terminate the run with an answer
//   - findall(pattern, text): regular expression search
//   - format(fmt, ...), enumerate(list), zip(a, b)
//
// Variables bound by one fragment persist into the namespace for the next
// fragment of the same run. One Environment backs exactly one run; it holds
// no locks and must never be shared across concurrent runs.
package sandbox
