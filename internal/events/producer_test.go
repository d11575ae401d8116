package events_test

import (
	"context"
	"strings"
	"testing"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemforge/cad-converter/internal/events"
)

type captureWriter struct {
	received chan cloudevents.Event
	topics   chan string
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{
		received: make(chan cloudevents.Event, 8),
		topics:   make(chan string, 8),
	}
}

func (w *captureWriter) Write(_ context.Context, topic string, e cloudevents.Event) error {
	w.received <- e
	w.topics <- topic
	return nil
}

func (w *captureWriter) Close(_ context.Context) error {
	return nil
}

func TestProducerDeliversEvents(t *testing.T) {
	writer := newCaptureWriter()
	producer := events.NewEventProducer(writer, events.WithOutputTopic("test.topic"))
	defer func() { _ = producer.Close() }()

	message := events.ConversionMessage{
		ConversionID: "abc123",
		UserID:       "u1",
		Status:       "completed",
	}
	body, err := message.Reader()
	require.NoError(t, err)

	require.NoError(t, producer.Write(context.Background(), events.ConversionCompletedKind, body))

	select {
	case e := <-writer.received:
		assert.Equal(t, events.ConversionCompletedKind, e.Type())
		assert.True(t, strings.Contains(string(e.Data()), `"conversion_id":"abc123"`))
		assert.Equal(t, "test.topic", <-writer.topics)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestProducerCloseWithPendingQueue(t *testing.T) {
	writer := newCaptureWriter()
	producer := events.NewEventProducer(writer)

	message := events.ConversionMessage{ConversionID: "abc123", Status: "failed", Error: "boom"}
	body, err := message.Reader()
	require.NoError(t, err)
	require.NoError(t, producer.Write(context.Background(), events.ConversionFailedKind, body))

	require.NoError(t, producer.Close())
}
