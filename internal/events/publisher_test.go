package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillPublisher_GoChannel(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	pubsub := NewInMemoryPubSub(logger)
	defer pubsub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubsub.Subscribe(ctx, "school-admin.events")
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubsub, "school-admin.events", logger)
	event := NewEvent(TeacherInvited, "t-1", "admin-1", map[string]interface{}{"email": "a@b.com"})
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(TeacherInvited), msg.Metadata.Get("event_type"))

		var got Event
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, TeacherInvited, got.Type)
		assert.Equal(t, EventSource, got.Source)
		assert.Equal(t, EventVersion, got.Version)
		assert.Equal(t, "t-1", got.SubjectID)
		assert.Equal(t, "a@b.com", got.Data["email"])
	case <-ctx.Done():
		t.Fatal("event was not delivered")
	}
}

func TestMockEventPublisher(t *testing.T) {
	m := NewMockEventPublisher(nil)
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, NewEvent(TeacherCreated, "t-1", "", nil)))
	require.NoError(t, m.Publish(ctx, NewEvent(WorkReviewed, "w-1", "", nil)))

	assert.Len(t, m.GetPublishedEvents(), 2)
	assert.Len(t, m.EventsOfType(WorkReviewed), 1)

	m.ClearEvents()
	assert.Empty(t, m.GetPublishedEvents())
}
