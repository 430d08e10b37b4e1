package sources

import (
	"context"

	"txdash/internal/core"
)

// Ports for outbound dataset adapters.
type (
	// Source produces the dataset exactly as the origin holds it. Adapters do
	// not retry or cache; the caller decides what a failure means.
	Source interface {
		// Name identifies the origin in logs and errors (a URL, a path, a
		// spreadsheet id).
		Name() string
		Fetch(ctx context.Context) (core.Dataset, error)
	}

	// SourceFunc adapts a function to the Source port.
	SourceFunc struct {
		Label string
		Fn    func(ctx context.Context) (core.Dataset, error)
	}
)

func (f SourceFunc) Name() string { return f.Label }

func (f SourceFunc) Fetch(ctx context.Context) (core.Dataset, error) { return f.Fn(ctx) }
