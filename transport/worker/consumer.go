package worker

import (
	"context"

	"suave/config"
	"suave/infras/kafka"
	"suave/internal/handlers/reservation"

	"github.com/rs/zerolog/log"
)

// Consumer applies payment capture results published by the payment collaborator.
type Consumer struct {
	config  *config.Config
	kafka   kafka.Client
	handler reservation.Handler
}

func NewConsumer(config *config.Config, kafka kafka.Client, handler reservation.Handler) *Consumer {
	return &Consumer{
		config:  config,
		kafka:   kafka,
		handler: handler,
	}
}

// Run blocks until ctx is done, then closes the kafka client.
func (c *Consumer) Run(ctx context.Context) {
	topic := c.config.Kafka.Topics.PaymentCaptured

	log.Info().Str("topic", topic).Str("group", c.config.Kafka.ConsumerGroup).Msg("Starting payment consumer.")

	c.kafka.Consume(ctx, c.config.Kafka.ConsumerGroup, topic, c.handler.HandlePaymentCaptured)

	if err := c.kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close kafka client.")
	}

	log.Info().Msg("Payment consumer stopped.")
}
