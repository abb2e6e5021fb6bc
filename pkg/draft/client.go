package draft

import "context"

// Client is a text-completion backend. Implementations return the raw
// completion text; failures that came from the service itself are
// reported as *ServiceError so the Drafter can classify them.
type Client interface {
	// Complete sends a system/user instruction pair and returns the
	// generated text. An empty string with a nil error is a valid return;
	// the Drafter treats it as an unexpected failure.
	Complete(ctx context.Context, system, user string) (string, error)

	// Name identifies the backend and model for diagnostics.
	Name() string
}
