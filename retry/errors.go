package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
)

// transientRedisPrefixes are Redis error replies that clear up on their own
// (dataset loading, cluster resharding, failover).
var transientRedisPrefixes = []string{
	"LOADING",
	"TRYAGAIN",
	"BUSY",
	"CLUSTERDOWN",
	"MASTERDOWN",
	"READONLY",
}

// IsTransient determines if a storage error is transient and should be retried:
//   - Redis replies for loading, resharding or failover
//   - Network timeouts
//   - Connection resets, refusals and unexpected EOF
//
// Context cancellation and redis.Nil are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, redis.Nil) {
		return false
	}

	var rerr redis.Error
	if errors.As(err, &rerr) {
		if isTransientRedisReply(rerr.Error()) {
			return true
		}
	}

	return isTransientNetworkError(err)
}

func isTransientRedisReply(msg string) bool {
	for _, prefix := range transientRedisPrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// isTransientNetworkError checks for network-level transient errors.
func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}
