package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

type fakeChannel struct {
	key         string
	mandatory   bool
	msg         amqp.Publishing
	hasDeadline bool
	err         error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	_, f.hasDeadline = ctx.Deadline()
	f.key = key
	f.mandatory = mandatory
	f.msg = msg
	return f.err
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.RabbitMQ.PublishTimeout = 5
	return cfg
}

func TestScheduleCommitted(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(newTestConfig(), ch)

	err := p.ScheduleCommitted("admin@example.com", domain.ScheduleCommittedMailData{
		FullName:        "管理员",
		StartDate:       "2024-03-04",
		EndDate:         "2024-03-10",
		OpenDays:        6,
		AssignmentCount: 18,
	})
	require.NoError(t, err)

	assert.Equal(t, MailQueue, ch.key)
	assert.True(t, ch.mandatory)
	assert.True(t, ch.hasDeadline)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var decoded struct {
		Type string                           `json:"type"`
		To   string                           `json:"to"`
		Data domain.ScheduleCommittedMailData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, domain.MailTypeScheduleCommitted, decoded.Type)
	assert.Equal(t, "admin@example.com", decoded.To)
	assert.Equal(t, 18, decoded.Data.AssignmentCount)
}

func TestPublishMailError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := NewPublisher(newTestConfig(), ch)

	err := p.PublishMail(&domain.MailMessage{Type: domain.MailTypeScheduleCommitted})
	assert.EqualError(t, err, "channel closed")
}
