package store

import (
	"context"
	"encoding/json"

	"github.com/spetersoncode/uistream/retry"
)

// RetryAdapter wraps an Adapter and retries transient backend failures with
// exponential backoff.
type RetryAdapter struct {
	inner Adapter
	cfg   retry.Config
}

// NewRetryAdapter wraps inner. Errors that retry.IsTransient rejects are
// returned after the first attempt.
func NewRetryAdapter(inner Adapter, cfg retry.Config) *RetryAdapter {
	return &RetryAdapter{inner: inner, cfg: cfg}
}

type getResult struct {
	value json.RawMessage
	found bool
}

// Get implements Adapter.
func (a *RetryAdapter) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	res, err := retry.Do(ctx, a.cfg, func() (getResult, error) {
		value, found, err := a.inner.Get(ctx, key)
		return getResult{value: value, found: found}, err
	})
	if err != nil {
		return nil, false, err
	}
	return res.value, res.found, nil
}

// Set implements Adapter.
func (a *RetryAdapter) Set(ctx context.Context, key string, value json.RawMessage) error {
	return retry.Run(ctx, a.cfg, func() error {
		return a.inner.Set(ctx, key, value)
	})
}

// Delete implements Adapter.
func (a *RetryAdapter) Delete(ctx context.Context, key string) error {
	return retry.Run(ctx, a.cfg, func() error {
		return a.inner.Delete(ctx, key)
	})
}

// Keys implements Adapter.
func (a *RetryAdapter) Keys(ctx context.Context) ([]string, error) {
	return retry.Do(ctx, a.cfg, func() ([]string, error) {
		return a.inner.Keys(ctx)
	})
}

var _ Adapter = (*RetryAdapter)(nil)
