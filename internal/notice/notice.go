package notice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// Store 把编辑会话的提示信息暂存在 redis 中
// 每个会话一个列表，最新的在最前面，超过长度的旧提示会被丢弃，整个列表在一段时间无人读取后过期
type Store struct {
	client     redis.Cmdable
	timeout    time.Duration
	expiration time.Duration
	maxLength  int64
}

func NewStore(cfg *config.Config, client redis.Cmdable) *Store {
	return &Store{
		client:     client,
		timeout:    time.Duration(cfg.Redis.OperationExpiration) * time.Second,
		expiration: time.Duration(cfg.Notice.Expiration) * time.Second,
		maxLength:  int64(cfg.Notice.MaxLength),
	}
}

func key(sessionID string) string {
	return fmt.Sprintf("notice_%s", sessionID)
}

func (s *Store) Push(sessionID string, n domain.Notice) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	k := key(sessionID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, k, data)
		pipe.LTrim(ctx, k, 0, s.maxLength-1)
		pipe.Expire(ctx, k, s.expiration)
		return nil
	})
	return err
}

// List 取出并清空会话的提示，按时间从新到旧排列
func (s *Store) List(sessionID string) ([]domain.Notice, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	k := key(sessionID)
	var rangeCmd *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		rangeCmd = pipe.LRange(ctx, k, 0, -1)
		pipe.Del(ctx, k)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return decode(rangeCmd.Val()), nil
}

// Delete 在会话关闭时删除剩余的提示
func (s *Store) Delete(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.client.Del(ctx, key(sessionID)).Err()
}

// decode 跳过无法解析的条目，不让一条坏数据影响其他提示的展示
func decode(raw []string) []domain.Notice {
	notices := make([]domain.Notice, 0, len(raw))
	for _, item := range raw {
		var n domain.Notice
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			slog.Warn("无法解析提示信息", slog.String("error", err.Error()))
			continue
		}
		notices = append(notices, n)
	}
	return notices
}
