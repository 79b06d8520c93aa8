package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestPublisher_Publish(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	defer mock.Close()

	var got TaskEvent
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "task_events" {
			t.Errorf("Expected topic task_events, got %s", msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "t1" {
			t.Errorf("Expected key t1, got %s", key)
		}
		value, _ := msg.Value.Encode()
		return json.Unmarshal(value, &got)
	})

	publisher := NewPublisher(mock, "task_events")
	err := publisher.Publish(context.Background(), &TaskEvent{
		TaskID:          "t1",
		State:           "completed",
		OverallColorHex: "#0a141e",
		TotalFrames:     1234,
		OccurredAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if got.TaskID != "t1" || got.State != "completed" || got.OverallColorHex != "#0a141e" {
		t.Errorf("Unexpected event: %+v", got)
	}
}

func TestPublisher_Publish_CancelledContext(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	defer mock.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	publisher := NewPublisher(mock, "task_events")
	if err := publisher.Publish(ctx, &TaskEvent{TaskID: "t1", State: "error"}); err == nil {
		t.Fatal("Expected error for cancelled context, got nil")
	}
}
