package engine

// Config holds configuration for the query engine.
type Config struct {
	// Model is the model name passed to the provider. Empty string lets
	// the provider apply its own default.
	Model string

	// MaxIterations is the number of generate/execute rounds before the
	// run is abandoned. Zero or negative means the default of 10.
	MaxIterations int

	// MaxDepth bounds sub-query nesting via llm_query. Zero or negative
	// means the default of 3.
	MaxDepth int

	// MaxOutputLength truncates captured fragment output before it is
	// embedded in the next prompt. Zero or negative means the default
	// of 10000.
	MaxOutputLength int

	// Temperature, when set, overrides the provider's sampling default.
	Temperature *float64
}

func (c Config) maxIterations() int {
	if c.MaxIterations <= 0 {
		return 10
	}
	return c.MaxIterations
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return 3
	}
	return c.MaxDepth
}

func (c Config) maxOutputLength() int {
	if c.MaxOutputLength <= 0 {
		return 10000
	}
	return c.MaxOutputLength
}
