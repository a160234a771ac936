package messaging

import (
	"context"
	"fmt"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/pkg/mq"
)

// kafkaEventPublisher 基于 Kafka 的事件发布者实现
type kafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaEventPublisher 创建 Kafka 事件发布者
func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) domain.EventPublisher {
	return &kafkaEventPublisher{producer: producer, topic: topic}
}

func (p *kafkaEventPublisher) PublishOptionPriced(ctx context.Context, event domain.OptionPricedEvent) error {
	key := fmt.Sprintf("%s:%s-%v-%v", domain.OptionPricedEventType, event.OptionType, event.Forward, event.Strike)
	return p.producer.SendMessage(ctx, p.topic, key, event)
}

func (p *kafkaEventPublisher) PublishPricingError(ctx context.Context, event domain.PricingErrorEvent) error {
	key := fmt.Sprintf("%s:%s-%v-%v", domain.PricingErrorEventType, event.OptionType, event.Forward, event.Strike)
	return p.producer.SendMessage(ctx, p.topic, key, event)
}

// noopEventPublisher 事件发布被禁用时的空实现
type noopEventPublisher struct{}

// NewNoopEventPublisher 创建空事件发布者
func NewNoopEventPublisher() domain.EventPublisher {
	return noopEventPublisher{}
}

func (noopEventPublisher) PublishOptionPriced(ctx context.Context, event domain.OptionPricedEvent) error {
	return nil
}

func (noopEventPublisher) PublishPricingError(ctx context.Context, event domain.PricingErrorEvent) error {
	return nil
}
