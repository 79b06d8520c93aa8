package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
)

// Publisher announces terminal task outcomes to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event *TaskEvent) error
	Close() error
}

type TaskEvent struct {
	TaskID          string    `json:"task_id"`
	TraceID         string    `json:"trace_id,omitempty"`
	State           string    `json:"state"`
	Message         string    `json:"message,omitempty"`
	OverallColorHex string    `json:"overall_color_hex,omitempty"`
	TotalFrames     int       `json:"total_frames,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(brokers []string, topic string) (Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return NewPublisher(p, topic), nil
}

// NewPublisher wraps an existing sync producer.
func NewPublisher(p sarama.SyncProducer, topic string) Publisher {
	return &producer{producer: p, topic: topic}
}

func (p *producer) Publish(ctx context.Context, event *TaskEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.TaskID),
		Value: sarama.ByteEncoder(data),
	}

	_, _, err = p.producer.SendMessage(msg)
	return err
}

func (p *producer) Close() error {
	return p.producer.Close()
}
