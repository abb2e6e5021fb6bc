package draft

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultTimeout bounds the completion round-trip. Drafting a full bill is
// slow; two minutes accommodates the long completions without letting a
// hung connection block a request forever.
const DefaultTimeout = 2 * time.Minute

// Drafter turns a plain-language policy description into bill text using
// a completion backend. Transient failures are reported, not retried:
// every call to the backend is billable, and a silent retry could double
// the spend on an already-delivered completion.
type Drafter struct {
	client  Client
	timeout time.Duration
}

// NewDrafter creates a Drafter over the given backend. A non-positive
// timeout selects DefaultTimeout.
func NewDrafter(client Client, timeout time.Duration) *Drafter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Drafter{client: client, timeout: timeout}
}

// Prompts returns the exact instruction pair Draft would send, for
// inspection output.
func (d *Drafter) Prompts(description, refContext string) Prompts {
	return BuildPrompts(description, refContext)
}

// Draft generates bill text for the description, returning the backend's
// output verbatim apart from whitespace trimming. Backend failures pass
// through as *ServiceError; anything else, including an empty completion,
// becomes *UnexpectedError.
func (d *Drafter) Draft(ctx context.Context, description, refContext string) (string, error) {
	prompts := BuildPrompts(description, refContext)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	out, err := d.client.Complete(ctx, prompts.System, prompts.User)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			return "", err
		}
		return "", &UnexpectedError{Message: "completion failed", Err: err}
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", &UnexpectedError{Message: "empty completion from " + d.client.Name()}
	}
	return out, nil
}
