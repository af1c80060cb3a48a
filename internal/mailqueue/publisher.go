// Package mailqueue 负责把邮件通知写入 rabbitmq 队列，以及在 mail worker 中渲染邮件。
package mailqueue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

const QueueName = "email_queue"

// DeclareQueue 声明持久化的邮件队列，api 和 mail worker 启动时都会调用
func DeclareQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(
		QueueName, // 队列名称
		true,      // 持久化
		false,     // 没有消费者时不自动删除
		false,     // 不独占
		false,     // 等待 rabbitmq 确认
		nil,
	)
}

type Publisher struct {
	ch      *amqp.Channel
	timeout time.Duration
}

func NewPublisher(ch *amqp.Channel, timeout time.Duration) *Publisher {
	return &Publisher{ch: ch, timeout: timeout}
}

func (p *Publisher) Publish(ctx context.Context, msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		QueueName,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
