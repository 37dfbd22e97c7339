package process

import (
	"context"

	"github.com/nexusforge/agentcore/internal/actor"
)

// serialQueue is the Process Registry's per-session serialization lane,
// backed by the shared actor.Queue primitive so start/stop/cleanup
// calls against the same session never race while different sessions
// proceed concurrently.
type serialQueue struct {
	*actor.Queue
}

func newSerialQueue() *serialQueue {
	return &serialQueue{Queue: actor.NewQueue()}
}

func (q *serialQueue) dropLaneIfIdle(key string) {
	q.DropIfIdle(key)
}

func submit[T any](q *serialQueue, key string, ctx context.Context, task func(ctx context.Context) (T, error)) (T, error) {
	return actor.Submit(q.Queue, key, ctx, task)
}
