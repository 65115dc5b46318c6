package queue

import "context"

// Job is a unit of background work bound to a message type.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	// Handle processes one payload.
	Handle(ctx context.Context, payload interface{}) error
}
