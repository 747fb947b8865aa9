package messaging

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

var _ ports.ReportEventPublisher = (*RabbitMQBroker)(nil)

// PublishReportGenerated sends the event as a persistent JSON message on the
// default exchange, routed straight to the report queue.
func (rmq *RabbitMQBroker) PublishReportGenerated(ctx context.Context, evt ports.ReportGeneratedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		return nil, rmq.ch.PublishWithContext(
			ctx,
			"",            // default exchange
			rmq.queueName, // routing key == queue name
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         ports.EventReportGenerated,
				Body:         body,
			},
		)
	})
	return err
}
