package pkg

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrNoBrokers = errors.New("kafka: no brokers configured")

// ActivityPublisher writes activity events to a single topic.
type ActivityPublisher struct {
	writer *kafka.Writer
}

type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// ActivityMessage is one event on the wire. Key decides the partition.
type ActivityMessage struct {
	Key       uint64
	EventType string
	Payload   []byte
	At        time.Time
}

func NewActivityPublisher(cfg KafkaConfig) (*ActivityPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           cfg.WriteTimeout,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &ActivityPublisher{writer: w}, nil
}

func (p *ActivityPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *ActivityPublisher) Publish(ctx context.Context, m ActivityMessage) error {
	return p.writer.WriteMessages(ctx, toKafkaMessage(m))
}

func toKafkaMessage(m ActivityMessage) kafka.Message {
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(m.Key, 10)),
		Value: m.Payload,
		Time:  m.At,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(m.EventType)},
		},
	}
}
