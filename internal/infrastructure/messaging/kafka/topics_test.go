package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

type mockKafkaConn struct {
	createFunc func(topics ...kafka.TopicConfig) error
	deleteFunc func(topics ...string) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
	closeFunc  func() error
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		return m.createFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) DeleteTopics(topics ...string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func newTestTopicManager(conn ConnInterface) *TopicManager {
	return &TopicManager{conn: conn, logger: logging.NewNopLogger()}
}

func TestCreateTopicValidation(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{})
	ctx := context.Background()

	assert.Error(t, m.CreateTopic(ctx, common.TopicConfig{NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, common.TopicConfig{Name: "t", ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, common.TopicConfig{Name: "t", NumPartitions: 1}))
}

func TestCreateTopicConfigEntries(t *testing.T) {
	var created []kafka.TopicConfig
	conn := &mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			created = append(created, topics...)
			return nil
		},
	}
	m := newTestTopicManager(conn)

	cfg := common.TopicConfig{
		Name:              TopicAnalysisCompleted,
		NumPartitions:     6,
		ReplicationFactor: 3,
		RetentionMs:       3600000,
		CleanupPolicy:     "delete",
		MaxMessageBytes:   1048576,
	}
	require.NoError(t, m.CreateTopic(context.Background(), cfg))

	require.Len(t, created, 1)
	assert.Equal(t, TopicAnalysisCompleted, created[0].Topic)
	assert.Equal(t, 6, created[0].NumPartitions)
	assert.Len(t, created[0].ConfigEntries, 3)
}

func TestCreateTopicAlreadyExists(t *testing.T) {
	conn := &mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			return errors.New("topic already exists")
		},
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			return []kafka.Partition{{Topic: topics[0]}}, nil
		},
	}
	m := newTestTopicManager(conn)

	err := m.CreateTopic(context.Background(), common.TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1})
	assert.NoError(t, err)
}

func TestListTopicsDeduplicates(t *testing.T) {
	conn := &mockKafkaConn{
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			return []kafka.Partition{
				{Topic: TopicDocumentIngested},
				{Topic: TopicDocumentIngested},
				{Topic: TopicAnalysisCompleted},
			}, nil
		},
	}
	m := newTestTopicManager(conn)

	topics, err := m.ListTopics(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{TopicDocumentIngested, TopicAnalysisCompleted}, topics)
}

func TestEnsureDefaultTopics(t *testing.T) {
	var created []string
	conn := &mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			for _, tc := range topics {
				created = append(created, tc.Topic)
			}
			return nil
		},
	}
	m := newTestTopicManager(conn)

	require.NoError(t, m.EnsureDefaultTopics(context.Background()))
	assert.Contains(t, created, TopicDocumentIngested)
	assert.Contains(t, created, TopicAnalysisRequested)
	assert.Contains(t, created, TopicAnalysisCompleted)
	assert.Contains(t, created, TopicDeadLetterAnalysis)
}

func TestEventEnvelopeRoundTrip(t *testing.T) {
	payload := AnalysisCompletedPayload{
		AnalysisID:           "a-1",
		CorpusID:             "c-1",
		CorpusHash:           "deadbeef",
		RiskLevel:            "ALTO",
		FinalScore:           315.9,
		ProbabilityFavorable: 0.65,
		Confidence:           0.66,
		DocumentCount:        2,
		CompletedAt:          time.Now().UTC(),
	}

	env, err := NewEventEnvelope(TopicAnalysisCompleted, "sentencia-api", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)

	msg, err := env.ToMessage(TopicAnalysisCompleted)
	require.NoError(t, err)
	assert.Equal(t, TopicAnalysisCompleted, msg.Topic)
	assert.Equal(t, env.EventID, string(msg.Key))
	assert.Equal(t, TopicAnalysisCompleted, msg.Headers["event_type"])

	decoded, err := MessageToEventEnvelope(&common.Message{Value: msg.Value})
	require.NoError(t, err)
	assert.Equal(t, env.EventID, decoded.EventID)

	var got AnalysisCompletedPayload
	require.NoError(t, decoded.DecodePayload(&got))
	assert.Equal(t, "ALTO", got.RiskLevel)
	assert.InDelta(t, 315.9, got.FinalScore, 1e-9)
}

func TestMessageToEventEnvelopeErrors(t *testing.T) {
	_, err := MessageToEventEnvelope(&common.Message{})
	assert.Error(t, err)

	_, err = MessageToEventEnvelope(&common.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
