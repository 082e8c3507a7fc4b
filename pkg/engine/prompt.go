package engine

import "fmt"

// systemPrompt teaches the model how to drive the evaluator. It is
// prepended to the first prompt of every run.
const systemPrompt = "You answer questions about a document that is too large to read at once.\n" +
	"You cannot see the document directly. Instead you drive a small stateful\n" +
	"evaluator by replying with code fragments in fenced blocks:\n" +
	"\n" +
	"```repl\n" +
	"print(len(context))\n" +
	"```\n" +
	"\n" +
	"Evaluator rules:\n" +
	"- context holds the full document text, query holds the question.\n" +
	"- One statement per line: either an expression or an assignment\n" +
	"  \"name = expression\". Assigned variables persist across fragments.\n" +
	"- print(...) is the only way to see values. Anything not printed is lost.\n" +
	"- Strings support len(s), slicing s[0:1000], upper, lower, split, trim\n" +
	"  and the other standard helpers.\n" +
	"- findall(pattern, text) returns regex matches, format(\"a {} b\", x)\n" +
	"  fills {} placeholders, enumerate(list) pairs values with indexes,\n" +
	"  and zip(a, b) pairs two lists.\n" +
	"- llm_query(prompt) asks a fresh model instance and returns its answer.\n" +
	"  Use it on chunks of context you sliced out.\n" +
	"- FINAL(answer) ends the session with answer. FINAL_VAR(\"name\") ends\n" +
	"  it with the value of a variable.\n" +
	"\n" +
	"Strategy: check len(context) first, peek at small slices, narrow down\n" +
	"with findall, send promising chunks to llm_query, then call FINAL.\n" +
	"Never print the whole context."

// initialPrompt builds the first prompt of a run. The corpus itself is
// never embedded, only its length.
func initialPrompt(query string, contextLen int) string {
	return fmt.Sprintf("%s\n\nThe context is %d characters long.\n\nQuestion: %s",
		systemPrompt, contextLen, query)
}

// continuationPrompt builds the prompt for the next iteration from the
// previous fragment's captured output.
func continuationPrompt(output string) string {
	if output == "" {
		output = "(no output)"
	}
	return fmt.Sprintf("Output:\n%s\n\nContinue. Reply with another fragment, or call FINAL(answer) if you can answer the question now.",
		output)
}
