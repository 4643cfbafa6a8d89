package pkg

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const EventCommunityUpdated = "community.updated"

type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Send 同一 key 的消息落在同一分区，保证单个社区的事件有序
func (p *KafkaProducer) Send(ctx context.Context, key string, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	return p.writer.WriteMessages(ctx, msg)
}

// CommunityEvent 社区变更事件
type CommunityEvent struct {
	Event       string         `json:"event"`
	CommunityID string         `json:"community_id"`
	OperatorID  uint64         `json:"operator_id"`
	Fields      map[string]any `json:"fields"`
	EventTime   string         `json:"event_time"`
}

func NewCommunityUpdatedEvent(communityID string, operatorID uint64, fields map[string]any, at time.Time) CommunityEvent {
	return CommunityEvent{
		Event:       EventCommunityUpdated,
		CommunityID: communityID,
		OperatorID:  operatorID,
		Fields:      fields,
		EventTime:   at.UTC().Format(time.RFC3339Nano),
	}
}

func (e CommunityEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
