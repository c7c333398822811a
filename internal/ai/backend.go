package ai

import "context"

// Backend is the single abstraction every feature generates text through.
// Adapters translate transport failures into ErrBackendUnavailable or
// ErrBackendTimeout; anything else the orchestrator treats as content.
type Backend interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options are generation knobs common to all adapters. Zero values mean
// "use the adapter default".
type Options struct {
	Temperature float32
	TopP        float32
	MaxTokens   int32
}

// DefaultOptions mirror the tuning the service shipped with.
func DefaultOptions() Options {
	return Options{Temperature: 0.7, TopP: 0.9, MaxTokens: 2048}
}
