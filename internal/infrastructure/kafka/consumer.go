package kafka

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Photo-Importer/pkg/kafka/consumer"
	"github.com/segmentio/kafka-go"
)

type JobEventConsumer struct {
	*consumer.Consumer
}

func NewJobEventConsumer(consumer *consumer.Consumer) *JobEventConsumer {
	return &JobEventConsumer{consumer}
}

func (c *JobEventConsumer) ReadEvent(ctx context.Context) (kafka.Message, error) {
	msg, err := c.Reader.FetchMessage(ctx)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("JobEventConsumer - ReadEvent - c.Reader.FetchMessage: %w", err)
	}

	return msg, nil
}

func (c *JobEventConsumer) CommitEvent(ctx context.Context, event kafka.Message) error {
	err := c.Reader.CommitMessages(ctx, event)
	if err != nil {
		return fmt.Errorf("JobEventConsumer - CommitEvent - c.Reader.CommitMessages: %w", err)
	}

	return nil
}

func (c *JobEventConsumer) Close() error {
	err := c.Consumer.Close()
	if err != nil {
		return fmt.Errorf("JobEventConsumer - Close: %w", err)
	}

	return nil
}
