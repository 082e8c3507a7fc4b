package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rekurs-dev/rekurs/pkg/api"
	"github.com/rekurs-dev/rekurs/pkg/debug"
	"github.com/rekurs-dev/rekurs/pkg/observability"
	"github.com/rekurs-dev/rekurs/pkg/provider"
	"github.com/rekurs-dev/rekurs/pkg/sandbox"
)

// budgetExhaustedAnswer is the fixed answer text of a run that used up
// its iteration budget without producing a final answer.
const budgetExhaustedAnswer = "[Reached max iterations without final answer]"

// Engine drives the generate/execute loop against a provider backend.
type Engine struct {
	client provider.Client
	cfg    Config
}

// New creates an Engine. The client must not be nil.
func New(client provider.Client, cfg Config) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("engine: provider client must not be nil")
	}
	return &Engine{client: client, cfg: cfg}, nil
}

// Run answers query against corpus. It always returns a Result: failures
// are reported through the Success and Error fields so callers get the
// partial trace along with the failure. Cancellation is honored between
// iterations; an executing fragment is never interrupted mid-statement.
func (e *Engine) Run(ctx context.Context, query, corpus string) *api.Result {
	observability.RunsActive.Inc()
	defer observability.RunsActive.Dec()

	res := &api.Result{
		Query:         query,
		ContextLength: len(corpus),
		Steps:         []api.Step{},
	}

	env := sandbox.New(corpus, query, e.subQuery(res, 0))

	prompt := initialPrompt(query, len(corpus))
	iterations := 0
	for i := 0; i < e.cfg.maxIterations(); i++ {
		if err := ctx.Err(); err != nil {
			return e.finish(res, iterations, "cancelled", "", false, "run cancelled: "+err.Error())
		}
		iterations++

		// The call counts even when it fails.
		res.TotalLLMCalls++
		response, err := e.generate(ctx, prompt, "root")
		if err != nil {
			return e.finish(res, iterations, "provider_error", "", false, err.Error())
		}

		fragment, ok := extractFragment(response)
		if !ok {
			// No code at all: the response is the answer itself.
			res.Steps = append(res.Steps, api.Step{Kind: api.StepKindFinal, Content: response})
			return e.finish(res, iterations, "answered", response, true, "")
		}

		res.Steps = append(res.Steps, api.Step{Kind: api.StepKindCode, Content: fragment})
		debug.Log("engine", "executing fragment", "iteration", iterations, "fragment_length", len(fragment))

		outcome := env.Execute(ctx, fragment)
		output := e.truncate(outcome.Output)
		if output != "" {
			res.Steps = append(res.Steps, api.Step{Kind: api.StepKindOutput, Content: output})
		}
		if isFault(outcome.Output) {
			observability.SandboxFaultsTotal.Inc()
		}

		if outcome.Kind == sandbox.OutcomeFinal {
			res.Steps = append(res.Steps, api.Step{Kind: api.StepKindFinal, Content: outcome.Answer})
			return e.finish(res, iterations, "answered", outcome.Answer, true, "")
		}

		prompt = continuationPrompt(output)
	}

	return e.finish(res, iterations, "budget_exhausted", budgetExhaustedAnswer, false,
		fmt.Sprintf("iteration budget exhausted after %d iterations", iterations))
}

// subQuery builds the llm_query handler for one run. Sub-queries are
// plain generation calls one level below the loop; the depth guard
// bounds nesting if sub-queries ever spawn their own runs.
func (e *Engine) subQuery(res *api.Result, depth int) sandbox.QueryFunc {
	return func(ctx context.Context, prompt string) (string, error) {
		if depth+1 > e.cfg.maxDepth() {
			return "", fmt.Errorf("sub-query depth %d exceeds maximum depth %d", depth+1, e.cfg.maxDepth())
		}

		res.Steps = append(res.Steps, api.Step{
			Kind:    api.StepKindLLMCall,
			Content: clip(prompt, 200),
			Depth:   depth + 1,
		})

		res.TotalLLMCalls++
		return e.generate(ctx, "Answer concisely: "+prompt, "sub_query")
	}
}

// generate performs one provider call and records provider metrics.
func (e *Engine) generate(ctx context.Context, prompt, kind string) (string, error) {
	start := time.Now()
	response, err := e.client.Generate(ctx, prompt, provider.GenerateOptions{
		Model:       e.cfg.Model,
		Temperature: e.cfg.Temperature,
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.ProviderRequestsTotal.WithLabelValues(e.client.Name(), e.cfg.Model, status).Inc()
	observability.ProviderLatency.WithLabelValues(e.client.Name(), e.cfg.Model).Observe(time.Since(start).Seconds())
	observability.LLMCallsTotal.WithLabelValues(kind).Inc()

	if err != nil {
		return "", err
	}
	return response, nil
}

// finish fills the terminal fields of a result and records run metrics.
func (e *Engine) finish(res *api.Result, iterations int, outcome, answer string, success bool, errText string) *api.Result {
	res.FinalAnswer = answer
	res.Success = success
	res.Error = errText
	observability.RunsTotal.WithLabelValues(outcome).Inc()
	observability.RunIterations.Observe(float64(iterations))
	return res
}

// truncate caps fragment output before it enters the trace and the next
// prompt.
func (e *Engine) truncate(s string) string {
	max := e.cfg.maxOutputLength()
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... [output truncated]"
}

// isFault reports whether fragment output is a recovered fault message.
func isFault(output string) bool {
	return strings.HasPrefix(output, "fault:") ||
		strings.HasPrefix(output, "syntax fault:") ||
		strings.HasPrefix(output, "evaluation fault:")
}

// clip shortens s to at most n bytes for trace entries.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
