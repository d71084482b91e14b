package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

type capturingPublisher struct {
	messages []*common.ProducerMessage
	err      error
}

func (c *capturingPublisher) Publish(ctx context.Context, msg *common.ProducerMessage) error {
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, msg)
	return nil
}

func TestEventPublisherRoutesByType(t *testing.T) {
	sink := &capturingPublisher{}
	pub := NewEventPublisher(sink, "sentencia-api")

	event := common.DomainEvent{
		EventID:    common.NewID(),
		EventType:  "analysis.completed",
		OccurredAt: time.Now().UTC(),
		Payload:    json.RawMessage(`{"analysis_id":"a-1","risk_level":"MEDIO"}`),
	}
	require.NoError(t, pub.Publish(context.Background(), event))

	require.Len(t, sink.messages, 1)
	msg := sink.messages[0]
	assert.Equal(t, TopicAnalysisCompleted, msg.Topic)
	assert.Equal(t, event.EventID.String(), string(msg.Key))
	assert.Equal(t, "sentencia-api", msg.Headers["source_service"])

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, event.EventID.String(), env.EventID)
	assert.Equal(t, "analysis.completed", env.EventType)

	var payload map[string]string
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, "MEDIO", payload["risk_level"])
}

func TestEventPublisherFallsBackToEventType(t *testing.T) {
	sink := &capturingPublisher{}
	pub := NewEventPublisher(sink, "sentencia-api")

	event := common.DomainEvent{
		EventID:    common.NewID(),
		EventType:  "dictionary.reloaded",
		OccurredAt: time.Now().UTC(),
		Payload:    json.RawMessage(`{}`),
	}
	require.NoError(t, pub.Publish(context.Background(), event))

	require.Len(t, sink.messages, 1)
	assert.Equal(t, "dictionary.reloaded", sink.messages[0].Topic)
}
