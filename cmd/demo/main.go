// Command demo exercises the sandbox and engine end to end with a
// scripted in-process model, printing the execution trace as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rekurs-dev/rekurs/pkg/engine"
	"github.com/rekurs-dev/rekurs/pkg/provider"
	"github.com/rekurs-dev/rekurs/pkg/sandbox"
)

const corpus = `The Golden Gate Bridge opened in 1937. It spans the Golden Gate
strait, the one-mile-wide channel between San Francisco Bay and the
Pacific Ocean.

The Brooklyn Bridge opened in 1883 and connects Manhattan and Brooklyn
over the East River.`

// scriptedClient replays canned responses in order.
type scriptedClient struct {
	responses []string
	calls     int
}

func (c *scriptedClient) Name() string { return "scripted" }

func (c *scriptedClient) Generate(_ context.Context, _ string, _ provider.GenerateOptions) (string, error) {
	i := c.calls
	if i >= len(c.responses) {
		i = len(c.responses) - 1
	}
	c.calls++
	return c.responses[i], nil
}

func (c *scriptedClient) Healthy(_ context.Context) bool { return true }

func (c *scriptedClient) ModelAvailable(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func (c *scriptedClient) ListModels(_ context.Context) ([]provider.ModelInfo, error) {
	return []provider.ModelInfo{{Name: "scripted"}}, nil
}

func (c *scriptedClient) Close() error { return nil }

func main() {
	fmt.Println("=== rekurs sandbox and engine demo ===")
	fmt.Println()

	// 1. Drive the sandbox directly.
	fmt.Println("[1] Sandbox fragments:")
	env := sandbox.New(corpus, "When did the bridges open?", func(ctx context.Context, prompt string) (string, error) {
		return "(sub-answer for: " + prompt + ")", nil
	})

	fragments := []string{
		"print(len(context))",
		`years = findall("\\d{4}", context)
print(years)`,
		`print(format("found {} years", len(years)))`,
	}
	for _, fragment := range fragments {
		outcome := env.Execute(context.Background(), fragment)
		fmt.Printf("    %-50q -> %q\n", strings.ReplaceAll(fragment, "\n", "; "), outcome.Output)
	}
	fmt.Println()

	// 2. Run the engine with a scripted model.
	fmt.Println("[2] Engine run:")
	client := &scriptedClient{responses: []string{
		"Let me look for years in the corpus.\n\n```repl\nyears = findall(\"\\\\d{4}\", context)\nprint(years)\n```",
		"Both years are present.\n\n```repl\nFINAL(\"The Golden Gate Bridge opened in 1937, the Brooklyn Bridge in 1883.\")\n```",
	}}

	eng, err := engine.New(client, engine.Config{MaxIterations: 5})
	if err != nil {
		fmt.Println("engine setup failed:", err)
		return
	}

	result := eng.Run(context.Background(), "When did the bridges open?", corpus)

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Printf("%s\n", data)

	fmt.Println()
	fmt.Println("=== demo complete ===")
}
