package driven

import "context"

// SummarisationModel produces a text response from a prompt using one
// named model. Fallback across an ordered list of model names is the
// summarise service's concern, not the adapter's: a failed call is
// surfaced so the service can try the next model.
type SummarisationModel interface {
	// Generate sends the prompt to the named model and returns the
	// response text.
	Generate(ctx context.Context, model, prompt string) (string, error)

	// Close releases resources.
	Close() error
}
