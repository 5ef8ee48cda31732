package consumer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/agent"
)

// PushConsumer hands raw push bodies from the queue to the delivery agent.
// The agent never fails on malformed bodies, so a delivery is only
// redelivered when the notification surface itself is down.
type PushConsumer struct {
	base          *BaseConsumer
	agent         *agent.Agent
	logger        *slog.Logger
	maxDeliveries int
}

func NewPushConsumer(base *BaseConsumer, deliveryAgent *agent.Agent, logger *slog.Logger, maxDeliveries int) *PushConsumer {
	if maxDeliveries <= 0 {
		maxDeliveries = 5
	}
	return &PushConsumer{
		base:          base,
		agent:         deliveryAgent,
		logger:        logger,
		maxDeliveries: maxDeliveries,
	}
}

func (p *PushConsumer) Start(ctx context.Context) error {
	return p.base.Start(ctx, p.handleDelivery)
}

func (p *PushConsumer) handleDelivery(ctx context.Context, msg amqp.Delivery) error {
	requestID := msg.MessageId
	if requestID == "" {
		requestID = uuid.NewString()
	}

	if err := p.agent.HandlePush(ctx, requestID, msg.Body); err != nil {
		requeue := p.shouldRetry(&msg)
		if requeue {
			p.logger.Warn("push handling failed, message requeued", slog.String("request_id", requestID), slog.Any("error", err))
		} else {
			p.logger.Error("push handling failed, message dead-lettered", slog.String("request_id", requestID), slog.Any("error", err))
		}
		_ = msg.Nack(false, requeue)
		return err
	}

	return msg.Ack(false)
}

func (p *PushConsumer) shouldRetry(msg *amqp.Delivery) bool {
	attempts := deliveryAttempts(msg)
	return attempts < p.maxDeliveries
}

func deliveryAttempts(msg *amqp.Delivery) int {
	if msg.Headers == nil {
		if msg.Redelivered {
			return 1
		}
		return 0
	}
	if raw, ok := msg.Headers["x-death"]; ok {
		if deaths, ok := raw.([]interface{}); ok && len(deaths) > 0 {
			if table, ok := deaths[0].(amqp.Table); ok {
				if count, ok := table["count"].(int64); ok {
					return int(count)
				}
			}
		}
	}
	if msg.Redelivered {
		return 1
	}
	return 0
}
