package llm

import (
	"context"
	"sync"
)

// StubClient replays scripted responses in order; the last one repeats once
// the script is exhausted. With an empty script it answers "[]". It records
// every prompt it receives.
type StubClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func NewStubClient(responses ...string) *StubClient {
	return &StubClient{responses: responses}
}

// NewFailingStubClient returns a stub whose every call fails with err.
func NewFailingStubClient(err error) *StubClient {
	return &StubClient{err: err}
}

func (c *StubClient) SourceName() string { return "Stub" }

func (c *StubClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(c.responses) == 0 {
		return "[]", nil
	}
	i := len(c.prompts) - 1
	if i >= len(c.responses) {
		i = len(c.responses) - 1
	}
	return c.responses[i], nil
}

// Prompts returns a copy of the prompts received so far.
func (c *StubClient) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prompts))
	copy(out, c.prompts)
	return out
}

func (c *StubClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}
