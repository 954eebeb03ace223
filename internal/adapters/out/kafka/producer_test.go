package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	kafkaadapter "marketplace/internal/adapters/out/kafka"
	"marketplace/internal/core/domain/model/event"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

type MockWriter struct{ mock.Mock }

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

var topics = kafkaadapter.Topics{
	Events:        "order-events",
	Notifications: "order-notifications",
	Ledger:        "order-ledger",
}

func sampleHeader() event.Header {
	return event.Header{
		ID:       kernel.NewUUID(),
		OrderID:  kernel.NewUUID(),
		Occurred: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestProducer_Publish(t *testing.T) {
	ctx := t.Context()
	h := sampleHeader()
	changed := event.StatusChanged{Header: h, From: order.Available, To: order.AwaitingApproval, Action: order.ActionBid}
	deadline := event.DeadlineSet{Header: h, Kind: event.DeadlineSubmission, Deadline: h.Occurred.Add(time.Hour)}

	var sent []kafka.Message
	w := new(MockWriter)
	w.On("WriteMessages", ctx, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).([]kafka.Message)
	}).Return(nil).Once()

	p := kafkaadapter.NewProducer(w, topics)
	require.NoError(t, p.Publish(ctx, changed, deadline))

	require.Len(t, sent, 2)
	for _, msg := range sent {
		assert.Equal(t, "order-events", msg.Topic)
		assert.Equal(t, h.OrderID.String(), string(msg.Key))
		assert.True(t, h.Occurred.Equal(msg.Time))
	}
	assert.Equal(t, []byte(event.TypeStatusChanged), sent[0].Headers[0].Value)

	var env event.Envelope
	require.NoError(t, json.Unmarshal(sent[0].Value, &env))
	assert.Equal(t, event.TypeStatusChanged, env.Type)
	assert.True(t, h.ID.IsEqual(env.ID))
	assert.Contains(t, string(env.Payload), `"to":"Awaiting Approval"`)
	w.AssertExpectations(t)
}

func TestProducer_Publish_NothingToSend(t *testing.T) {
	w := new(MockWriter)
	p := kafkaadapter.NewProducer(w, topics)

	require.NoError(t, p.Publish(t.Context()))
	w.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestProducer_Notify(t *testing.T) {
	ctx := t.Context()
	w := new(MockWriter)
	w.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		var body map[string]any
		if err := json.Unmarshal(msgs[0].Value, &body); err != nil {
			return false
		}
		return msgs[0].Topic == "order-notifications" &&
			string(msgs[0].Key) == "writer-1" &&
			body["template"] == event.TemplateOrderAssigned
	})).Return(nil).Once()

	p := kafkaadapter.NewProducer(w, topics)
	err := p.Notify(ctx, "writer-1", event.TemplateOrderAssigned, map[string]string{"orderNumber": "ORD-1"})

	require.NoError(t, err)
	w.AssertExpectations(t)
}

func TestProducer_Record(t *testing.T) {
	ctx := t.Context()
	h := sampleHeader()
	payout := event.PaymentDue{Header: h, Kind: event.PaymentWriterPayout, PayeeID: "writer-1", Amount: 1575, Currency: "KES"}

	w := new(MockWriter)
	w.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 1 && msgs[0].Topic == "order-ledger" && string(msgs[0].Key) == h.OrderID.String()
	})).Return(errors.New("leader not available")).Once()

	p := kafkaadapter.NewProducer(w, topics)
	err := p.Record(ctx, payout)

	require.EqualError(t, err, "leader not available")
	w.AssertExpectations(t)
}

func TestNewWriter_ParsesBrokerList(t *testing.T) {
	w := kafkaadapter.NewWriter(" kafka-1:9092, ,kafka-2:9092 ")
	require.NotNil(t, w.Addr)
	assert.Contains(t, w.Addr.String(), "kafka-2:9092")
	assert.Empty(t, w.Topic)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}
