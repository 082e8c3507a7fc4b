package sandbox

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/builtin"
)

// QueryFunc issues a nested sub-query to the model client on behalf of an
// executing fragment. The call blocks the fragment until it returns.
type QueryFunc func(ctx context.Context, prompt string) (string, error)

// assignPattern matches "name = <expression>" statements. The character
// class after "=" keeps comparison operators ("==") out.
var assignPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=([^=].*)$`)

// reserved lists the namespace bindings a fragment may not rebind.
var reserved = map[string]bool{
	"context":   true,
	"query":     true,
	"print":     true,
	"llm_query": true,
	"FINAL":     true,
	"FINAL_VAR": true,
	"findall":   true,
	"format":    true,
	"enumerate": true,
	"zip":       true,
}

// Environment is the restricted namespace one run's fragments execute in.
// It is not safe for concurrent use; each run owns its own instance.
type Environment struct {
	corpus   string
	query    string
	llmQuery QueryFunc

	// vars holds bindings persisted across fragments of this run.
	vars map[string]any
}

// New creates an Environment for one run. llmQuery handles llm_query calls
// issued from inside fragments; it may be nil, in which case llm_query
// faults.
func New(corpus, query string, llmQuery QueryFunc) *Environment {
	return &Environment{
		corpus:   corpus,
		query:    query,
		llmQuery: llmQuery,
		vars:     make(map[string]any),
	}
}

// errHalt stops expression evaluation after FINAL or FINAL_VAR fired. The
// actual answer travels via execState, not the error value, so it survives
// any wrapping the evaluator applies.
var errHalt = errors.New("sandbox: run terminated")

// execState is the per-Execute scratch state.
type execState struct {
	out   strings.Builder
	final *string
}

// Execute runs one fragment and returns its Outcome. A runtime fault is
// converted to a textual output and discards the fragment's bindings; the
// termination signal surfaces as OutcomeFinal. Execute never returns an
// error: the loop must survive a broken fragment.
func (e *Environment) Execute(ctx context.Context, fragment string) Outcome {
	st := &execState{}
	env := e.buildEnv(ctx, st)

	for _, line := range strings.Split(fragment, "\n") {
		stmt := strings.TrimSpace(line)
		if stmt == "" || strings.HasPrefix(stmt, "#") || strings.HasPrefix(stmt, "//") {
			continue
		}

		name, src := splitAssignment(stmt)
		if name != "" && reserved[name] {
			return Outcome{Output: fmt.Sprintf("fault: cannot assign to reserved name %q", name)}
		}

		program, err := expr.Compile(src)
		if err != nil {
			return Outcome{Output: fmt.Sprintf("syntax fault: %s", compactError(err))}
		}

		value, err := expr.Run(program, env)
		if st.final != nil {
			return Outcome{Kind: OutcomeFinal, Answer: *st.final, Output: st.out.String()}
		}
		if err != nil {
			return Outcome{Output: fmt.Sprintf("evaluation fault: %s", compactError(err))}
		}

		if name != "" {
			env[name] = value
		}
	}

	e.commit(env)
	return Outcome{Output: st.out.String()}
}

// Value returns a persisted variable binding, if present.
func (e *Environment) Value(name string) (any, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// splitAssignment splits an assignment statement into target name and
// expression source. For a bare expression the name is empty and the
// source is the whole statement.
func splitAssignment(stmt string) (name, src string) {
	m := assignPattern.FindStringSubmatch(stmt)
	if m == nil {
		return "", stmt
	}
	return m[1], strings.TrimSpace(m[2])
}

// buildEnv assembles the evaluation namespace: fixed bindings, helper
// functions bound to this execution's state, and the persisted variables.
func (e *Environment) buildEnv(ctx context.Context, st *execState) map[string]any {
	env := make(map[string]any, len(e.vars)+12)

	env["context"] = e.corpus
	env["query"] = e.query

	env["print"] = func(args ...any) string {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = text(a)
		}
		st.out.WriteString(strings.Join(parts, " "))
		st.out.WriteString("\n")
		return ""
	}

	env["llm_query"] = func(prompt any) (string, error) {
		if e.llmQuery == nil {
			return "", errors.New("llm_query is not available")
		}
		return e.llmQuery(ctx, text(prompt))
	}

	env["FINAL"] = func(value any) (string, error) {
		answer := text(value)
		st.final = &answer
		return "", errHalt
	}

	env["FINAL_VAR"] = func(name any) (string, error) {
		key := text(name)
		answer := fmt.Sprintf("error: variable %q not found", key)
		// Only variables persisted by a completed fragment resolve;
		// bindings made by the fragment still executing do not.
		if v, ok := e.vars[key]; ok {
			answer = text(v)
		}
		st.final = &answer
		return "", errHalt
	}

	env["findall"] = findall
	env["format"] = formatText
	env["enumerate"] = enumerate
	env["zip"] = zipLists

	for k, v := range e.vars {
		env[k] = v
	}
	return env
}

// commit persists the fragment's user bindings for the next fragment.
// Names of expr builtins are not persisted: a fragment that binds one
// shadows it only until the fragment ends, then the builtin is back.
func (e *Environment) commit(env map[string]any) {
	for k, v := range env {
		if reserved[k] {
			continue
		}
		if _, ok := builtin.Index[k]; ok {
			continue
		}
		e.vars[k] = v
	}
}

// compactError flattens an evaluator error to a single line.
func compactError(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}

// text converts a namespace value to its textual form.
func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
