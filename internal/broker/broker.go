package broker

import "context"

// Producer publishes media lifecycle events. Publishing is best-effort
// from the pipeline's point of view: a broker failure is logged by the
// caller and never changes the run's verdict.
type Producer interface {
	Send(ctx context.Context, key, value []byte) error
	Close() error
}
