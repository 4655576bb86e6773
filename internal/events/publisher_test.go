package events

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionEvent(t *testing.T) {
	payload := SessionCompletedEvent{SessionID: 42, JobID: 7, CandidateID: "c1"}
	event := NewSessionEvent(EventSessionCompleted, payload)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventSessionCompleted, event.Type)
	assert.Equal(t, "assessment-service", event.Source)
	assert.Equal(t, payload, event.Data)
	assert.False(t, event.Timestamp.IsZero())
}

func TestMockEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	require.NoError(t, publisher.PublishSessionEvent(ctx, NewSessionEvent(EventSessionCreated, SessionCreatedEvent{SessionID: 1})))
	require.NoError(t, publisher.PublishSessionEvent(ctx, NewSessionEvent(EventSessionCompleted, SessionCompletedEvent{SessionID: 1})))
	require.NoError(t, publisher.PublishSessionEvent(ctx, NewSessionEvent(EventSessionCreated, SessionCreatedEvent{SessionID: 2})))

	created := publisher.EventsOfType(EventSessionCreated)
	assert.Len(t, created, 2)
	assert.Len(t, publisher.EventsOfType(EventSessionCompleted), 1)
	assert.Empty(t, publisher.EventsOfType(EventSessionScored))

	require.NoError(t, publisher.Close())
}
