package kafka

import (
	"context"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook intercepts message handling. BeforeHandle may rewrite the
// context, message and payload; a non-nil error skips the handler and routes
// the message through error processing (OnError, DLQ, commit).
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error)
	AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
	OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
}

// NoopHook is the default hook.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return ctx, km, data, nil
}

func (NoopHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
}

func (NoopHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
}

// HookError classifies errors produced by hooks.
type HookError struct {
	Code string
	Err  error
}

func (e *HookError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *HookError) Unwrap() error { return e.Err }

type ctxKey string

// CtxTraceID carries the correlation id extracted from message headers.
const CtxTraceID ctxKey = "kafka_trace_id"

// TraceIDFromContext returns the trace id set by TraceHook, if any.
func TraceIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxTraceID).(string); ok {
		return v
	}
	return ""
}

// TraceHook propagates the trace_id message header into the handler context
// and logs terminal failures with it.
type TraceHook struct{}

func NewTraceHook() TraceHook { return TraceHook{} }

func (TraceHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	for _, h := range km.Headers {
		if h.Key == "trace_id" && len(h.Value) > 0 {
			ctx = context.WithValue(ctx, CtxTraceID, string(h.Value))
			break
		}
	}
	return ctx, km, data, nil
}

func (TraceHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
}

func (TraceHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if trace := TraceIDFromContext(ctx); trace != "" {
		log.Printf("kafka handler error topic=%s trace_id=%s: %v", topic, trace, err)
	}
}
