package plex

import "context"

// limiter bounds the number of in-flight requests to the Plex server. All
// calls made through a Client share one limiter, so a wide grid scan cannot
// overwhelm the media server no matter how many channels fan out at once.
type limiter chan struct{}

func newLimiter(concurrency int) limiter {
	if concurrency < 1 {
		concurrency = 1
	}
	return make(limiter, concurrency)
}

// acquire blocks until a slot is available or ctx is done. The returned
// release func must be called exactly once.
func (l limiter) acquire(ctx context.Context) (func(), error) {
	select {
	case l <- struct{}{}:
		return func() { <-l }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
