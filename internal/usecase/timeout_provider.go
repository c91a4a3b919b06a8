package usecase

import (
	"context"
	"time"

	"agri-advisor/internal/domain/entity"
	"agri-advisor/internal/domain/repository"
)

const defaultCompletionTimeout = 25 * time.Second

// TimeoutProvider bounds every completion call with a deadline so a hung
// upstream cannot hold a request open forever. It does not retry.
type TimeoutProvider struct {
	inner   repository.CompletionProvider
	timeout time.Duration
}

func NewTimeoutProvider(inner repository.CompletionProvider, timeout time.Duration) *TimeoutProvider {
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	return &TimeoutProvider{inner: inner, timeout: timeout}
}

func (p *TimeoutProvider) Complete(ctx context.Context, prompt string, maxTokens int) (*entity.Completion, error) {
	// Scoped so one slow generation doesn't outlive its own budget.
	resCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type result struct {
		resp *entity.Completion
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := p.inner.Complete(resCtx, prompt, maxTokens)
		done <- result{resp, err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-resCtx.Done():
		return nil, resCtx.Err()
	}
}
