package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/Photo-Importer/pkg/kafka/producer"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// JobAnnouncer publishes one message per inserted job row. Keyed by job id so
// duplicates of the same job land in the same partition.
type JobAnnouncer struct {
	*producer.Producer
	topic string
}

func NewJobAnnouncer(producer *producer.Producer, topic string) *JobAnnouncer {
	return &JobAnnouncer{
		producer,
		topic,
	}
}

func (a *JobAnnouncer) Announce(ctx context.Context, jobIDs ...uuid.UUID) error {
	msgs := make([]kafka.Message, 0, len(jobIDs))

	for _, id := range jobIDs {
		value, err := json.Marshal(JobEventPayload{JobID: id})
		if err != nil {
			return fmt.Errorf("JobAnnouncer - Announce - json.Marshal: %w", err)
		}

		msgs = append(msgs, kafka.Message{
			Topic: a.topic,
			Key:   []byte(id.String()),
			Value: value,
		})
	}

	if len(msgs) == 0 {
		return nil
	}

	err := a.Writer.WriteMessages(ctx, msgs...)
	if err != nil {
		return fmt.Errorf("JobAnnouncer - Announce - a.Writer.WriteMessages: %w", err)
	}

	return nil
}

func (a *JobAnnouncer) Close() error {
	err := a.Producer.Close()
	if err != nil {
		return fmt.Errorf("JobAnnouncer - Close: %w", err)
	}

	return nil
}
