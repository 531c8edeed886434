package llm

import (
	"context"
	"fmt"
)

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// InvocationError reports that the remote model call itself failed or timed out.
type InvocationError struct {
	Stage string
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("model invocation failed during %s: %v", e.Stage, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Options are the generation parameters shared by every provider.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

const defaultMaxTokens = 2048

// withDefaults fills the parameters every provider needs a value for.
func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	if o.Temperature < 0 {
		o.Temperature = 0
	}
	return o
}
