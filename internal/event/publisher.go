package event

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

const MailQueue = "email_queue"

// Channel 是 *amqp.Channel 中发布消息用到的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publisher struct {
	channel Channel
	timeout time.Duration
}

func NewPublisher(cfg *config.Config, ch Channel) *Publisher {
	return &Publisher{
		channel: ch,
		timeout: time.Duration(cfg.RabbitMQ.PublishTimeout) * time.Second,
	}
}

// DeclareMailQueue 声明邮件队列，api 和 mail worker 启动时都需要调用
func DeclareMailQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(
		MailQueue, // 队列名称
		true,      // 是否持久化
		false,     // 是否自动删除
		false,     // 是否独占
		false,     // 是否不等待
		nil,       // 额外参数
	)
}

func (p *Publisher) PublishMail(message *domain.MailMessage) error {
	// 对邮件进行序列化
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",
		MailQueue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// ScheduleCommitted 在管理员手动保存排班表后通知管理员
func (p *Publisher) ScheduleCommitted(to string, data domain.ScheduleCommittedMailData) error {
	return p.PublishMail(&domain.MailMessage{
		Type: domain.MailTypeScheduleCommitted,
		To:   to,
		Data: data,
	})
}
