package sandbox

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExecute_PrintCapturesOutput(t *testing.T) {
	env := New("hello world", "what is this?", nil)

	out := env.Execute(context.Background(), `print(len(context))`)
	if out.Kind != OutcomeOutput {
		t.Fatalf("expected output outcome, got %v", out.Kind)
	}
	if out.Output != "11\n" {
		t.Errorf("expected %q, got %q", "11\n", out.Output)
	}
}

func TestExecute_OnlyPrintedTextIsReturned(t *testing.T) {
	env := New("hello world", "q", nil)

	// A bare expression without print produces no output.
	out := env.Execute(context.Background(), `len(context)`)
	if out.Output != "" {
		t.Errorf("expected empty output, got %q", out.Output)
	}
}

func TestExecute_Slicing(t *testing.T) {
	env := New("hello world", "q", nil)

	out := env.Execute(context.Background(), `print(context[0:5])`)
	if out.Output != "hello\n" {
		t.Errorf("expected %q, got %q", "hello\n", out.Output)
	}
}

func TestExecute_MultiStatementFragment(t *testing.T) {
	env := New("alpha beta gamma", "q", nil)

	fragment := strings.Join([]string{
		`words = split(context, " ")`,
		`# inspect the first word`,
		`print(words[0])`,
		`print(len(words))`,
	}, "\n")

	out := env.Execute(context.Background(), fragment)
	if out.Output != "alpha\n3\n" {
		t.Errorf("expected %q, got %q", "alpha\n3\n", out.Output)
	}
}

func TestExecute_VariablesPersistAcrossFragments(t *testing.T) {
	env := New("corpus", "q", nil)

	out := env.Execute(context.Background(), `themes = ["a", "b"]`)
	if out.Kind != OutcomeOutput || out.Output != "" {
		t.Fatalf("unexpected outcome: %+v", out)
	}

	out = env.Execute(context.Background(), `print(len(themes))`)
	if out.Output != "2\n" {
		t.Errorf("expected persisted variable, got %q", out.Output)
	}
}

func TestExecute_VariablesNotSharedAcrossEnvironments(t *testing.T) {
	env1 := New("corpus", "q", nil)
	env1.Execute(context.Background(), `x = 1`)

	env2 := New("corpus", "q", nil)
	out := env2.Execute(context.Background(), `print(x)`)
	if !strings.Contains(out.Output, "fault") {
		t.Errorf("expected fault for unknown variable in fresh environment, got %q", out.Output)
	}
}

func TestExecute_FaultBecomesOutput(t *testing.T) {
	env := New("corpus", "q", nil)

	out := env.Execute(context.Background(), `print(undefined_name)`)
	if out.Kind != OutcomeOutput {
		t.Fatalf("expected output outcome for fault, got %v", out.Kind)
	}
	if !strings.Contains(out.Output, "fault") {
		t.Errorf("expected fault text, got %q", out.Output)
	}
}

func TestExecute_SyntaxFaultBecomesOutput(t *testing.T) {
	env := New("corpus", "q", nil)

	out := env.Execute(context.Background(), `print(((`)
	if out.Kind != OutcomeOutput || !strings.Contains(out.Output, "syntax fault") {
		t.Errorf("expected syntax fault text, got %+v", out)
	}
}

func TestExecute_FaultDiscardsFragmentBindings(t *testing.T) {
	env := New("corpus", "q", nil)

	env.Execute(context.Background(), "x = 42\nprint(undefined_name)")
	if _, ok := env.Value("x"); ok {
		t.Error("expected bindings of a faulting fragment to be discarded")
	}
}

func TestExecute_FinalTerminates(t *testing.T) {
	env := New("corpus", "q", nil)

	out := env.Execute(context.Background(), `FINAL("42")`)
	if out.Kind != OutcomeFinal {
		t.Fatalf("expected final outcome, got %v", out.Kind)
	}
	if out.Answer != "42" {
		t.Errorf("expected answer %q, got %q", "42", out.Answer)
	}
}

func TestExecute_FinalConvertsValueToText(t *testing.T) {
	env := New("corpus", "q", nil)

	out := env.Execute(context.Background(), `FINAL(6 * 7)`)
	if out.Kind != OutcomeFinal || out.Answer != "42" {
		t.Errorf("expected textual form of value, got %+v", out)
	}
}

func TestExecute_FinalStopsRemainingStatements(t *testing.T) {
	env := New("corpus", "q", nil)

	out := env.Execute(context.Background(), "print(\"before\")\nFINAL(\"done\")\nprint(\"after\")")
	if out.Kind != OutcomeFinal {
		t.Fatalf("expected final outcome, got %v", out.Kind)
	}
	if out.Output != "before\n" {
		t.Errorf("expected only pre-termination output, got %q", out.Output)
	}
}

func TestExecute_FinalVar(t *testing.T) {
	env := New("corpus", "q", nil)
	env.Execute(context.Background(), `answer = "the meaning"`)

	out := env.Execute(context.Background(), `FINAL_VAR("answer")`)
	if out.Kind != OutcomeFinal {
		t.Fatalf("expected final outcome, got %v", out.Kind)
	}
	if out.Answer != "the meaning" {
		t.Errorf("expected persisted value, got %q", out.Answer)
	}
}

func TestExecute_FinalVarNotFound(t *testing.T) {
	env := New("corpus", "q", nil)

	out := env.Execute(context.Background(), `FINAL_VAR("missing")`)
	if out.Kind != OutcomeFinal {
		t.Fatalf("expected final outcome even for unknown variable, got %v", out.Kind)
	}
	if !strings.Contains(out.Answer, `"missing" not found`) {
		t.Errorf("expected not-found message, got %q", out.Answer)
	}
}

func TestExecute_FinalVarIgnoresSameFragmentBinding(t *testing.T) {
	env := New("corpus", "q", nil)

	out := env.Execute(context.Background(), "x = 5\nFINAL_VAR(\"x\")")
	if out.Kind != OutcomeFinal {
		t.Fatalf("expected final outcome, got %v", out.Kind)
	}
	if !strings.Contains(out.Answer, `"x" not found`) {
		t.Errorf("expected not-found message for unpersisted binding, got %q", out.Answer)
	}
}

func TestExecute_LLMQuery(t *testing.T) {
	var gotPrompt string
	queryFn := func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "sub-answer", nil
	}

	env := New("corpus", "q", queryFn)
	out := env.Execute(context.Background(), `print(llm_query("summarize this"))`)
	if out.Output != "sub-answer\n" {
		t.Errorf("expected sub-answer output, got %q", out.Output)
	}
	if gotPrompt != "summarize this" {
		t.Errorf("expected prompt to pass through, got %q", gotPrompt)
	}
}

func TestExecute_LLMQueryErrorIsFault(t *testing.T) {
	queryFn := func(_ context.Context, _ string) (string, error) {
		return "", errors.New("sub-query depth 1 exceeds maximum depth 0")
	}

	env := New("corpus", "q", queryFn)
	out := env.Execute(context.Background(), `print(llm_query("deep"))`)
	if out.Kind != OutcomeOutput {
		t.Fatalf("expected recovered fault, got %v", out.Kind)
	}
	if !strings.Contains(out.Output, "exceeds maximum depth") {
		t.Errorf("expected depth error in output, got %q", out.Output)
	}
}

func TestExecute_ReservedNamesCannotBeRebound(t *testing.T) {
	env := New("corpus", "q", nil)

	for _, stmt := range []string{`context = "x"`, `query = "x"`, `print = 1`} {
		out := env.Execute(context.Background(), stmt)
		if !strings.Contains(out.Output, "reserved name") {
			t.Errorf("statement %q: expected reserved-name fault, got %q", stmt, out.Output)
		}
	}
}

func TestExecute_ComparisonIsNotAssignment(t *testing.T) {
	env := New("corpus", "q", nil)

	out := env.Execute(context.Background(), `print(1 == 1)`)
	if out.Output != "true\n" {
		t.Errorf("expected comparison to evaluate, got %q", out.Output)
	}
}

func TestExecute_ExprBuiltinsAvailable(t *testing.T) {
	env := New("one two three", "q", nil)

	out := env.Execute(context.Background(), `print(upper(context), sum([1, 2, 3]))`)
	if out.Output != "ONE TWO THREE 6\n" {
		t.Errorf("expected builtin results, got %q", out.Output)
	}
}

func TestExecute_BuiltinShadowingDoesNotPersist(t *testing.T) {
	env := New("corpus", "q", nil)

	env.Execute(context.Background(), `len = 5`)
	if _, ok := env.Value("len"); ok {
		t.Error("expected builtin name not to be persisted")
	}

	out := env.Execute(context.Background(), `print(len(context))`)
	if out.Output != "6\n" {
		t.Errorf("expected builtin restored in next fragment, got %q", out.Output)
	}
}
