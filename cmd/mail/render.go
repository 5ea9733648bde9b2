package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

var templateDir = "./templates"

var errUnsupportedType = errors.New("不支持的邮件类型")

// renderer 把一种邮件类型的数据渲染为邮件正文和标题
type renderer func(data json.RawMessage, m *mail.Msg) error

var renderers = map[string]renderer{
	domain.MailTypeScheduleCommitted: renderScheduleCommitted,
}

// buildMessage 解析队列中的消息并构建邮件，Data 留到确定邮件类型后再解析
func buildMessage(from string, body []byte) (*mail.Msg, error) {
	var message struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	render, ok := renderers[message.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnsupportedType, message.Type)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(message.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := render(message.Data, m); err != nil {
		return nil, err
	}

	return m, nil
}

func renderScheduleCommitted(raw json.RawMessage, m *mail.Msg) error {
	var data domain.ScheduleCommittedMailData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("邮件数据反序列化失败: %w", err)
	}

	tmpl, err := template.ParseFiles(filepath.Join(templateDir, "schedule_committed_email.html"))
	if err != nil {
		return fmt.Errorf("无法解析邮件模板: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(tmpl, data); err != nil {
		return fmt.Errorf("无法设置邮件正文: %w", err)
	}
	m.Subject(fmt.Sprintf("排班表已保存 %s 至 %s", data.StartDate, data.EndDate))

	return nil
}
