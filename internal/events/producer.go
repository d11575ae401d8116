package events

import (
	"context"
	"io"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	ConversionCompletedKind string = "gemforge.conversions.events.completed"
	ConversionFailedKind    string = "gemforge.conversions.events.failed"

	defaultTopic  string = "gemforge.conversions.events"
	defaultSource string = "gemforge.cad.converter"

	pendingEvents = 64
)

// Writer is the interface to be implemented by the underlying writer.
type Writer interface {
	Write(ctx context.Context, topic string, e cloudevents.Event) error
	Close(ctx context.Context) error
}

type message struct {
	Kind string
	Data []byte
}

// EventProducer wraps a Writer with a small queue so that a slow broker does
// not block the conversion pipeline.
type EventProducer struct {
	messages chan *message
	doneCh   chan struct{}
	writer   Writer
	topic    string
}

func NewEventProducer(w Writer, opts ...ProducerOptions) *EventProducer {
	ep := &EventProducer{
		messages: make(chan *message, pendingEvents),
		doneCh:   make(chan struct{}),
		writer:   w,
		topic:    defaultTopic,
	}

	for _, o := range opts {
		o(ep)
	}

	go ep.run()
	return ep
}

// Write queues one event. It returns immediately; delivery is best effort and
// failures are only logged.
func (ep *EventProducer) Write(ctx context.Context, kind string, body io.Reader) error {
	d, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	select {
	case ep.messages <- &message{Kind: kind, Data: d}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ep *EventProducer) Close() error {
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(closeCtx)
	g.Go(func() error {
		close(ep.doneCh)
		return ep.writer.Close(ctx)
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("event producer closed with error: %s", err)
		return err
	}

	zap.S().Named("event_producer").Info("event producer closed")

	return nil
}

func (ep *EventProducer) run() {
	for {
		select {
		case <-ep.doneCh:
			return
		case msg := <-ep.messages:
			e := cloudevents.NewEvent()
			e.SetID(uuid.NewString())
			e.SetSource(defaultSource)
			e.SetType(msg.Kind)
			_ = e.SetData(*cloudevents.StringOfApplicationJSON(), msg.Data)

			if err := ep.writer.Write(context.TODO(), ep.topic, e); err != nil {
				zap.S().Named("event_producer").Errorw("failed to send message", "error", err, "event", e)
			}
		}
	}
}
