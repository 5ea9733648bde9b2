package autosave

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// DefaultQuietPeriod 是最后一次修改之后等待多久才自动保存
const DefaultQuietPeriod = 2 * time.Second

type Committer interface {
	UpsertSchedules(records []domain.ScheduleRecord) error
}

type Notifier interface {
	Notify(level domain.NoticeLevel, message string)
}

// Scheduler 负责排班表的脏标记和防抖保存
// 每次修改调用 MarkDirty，安静期内没有新的修改才真正写入存储
type Scheduler struct {
	mu          sync.Mutex
	quietPeriod time.Duration
	snapshot    func() []domain.ScheduleRecord
	committer   Committer
	notifier    Notifier
	logger      *slog.Logger

	timer      *time.Timer
	dirty      bool
	generation uint64
	closed     bool

	// flushMu 保证同一时间只有一次写入
	flushMu  sync.Mutex
	inflight sync.WaitGroup
}

func New(quietPeriod time.Duration, snapshot func() []domain.ScheduleRecord, committer Committer, notifier Notifier, logger *slog.Logger) *Scheduler {
	if quietPeriod <= 0 {
		quietPeriod = DefaultQuietPeriod
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		quietPeriod: quietPeriod,
		snapshot:    snapshot,
		committer:   committer,
		notifier:    notifier,
		logger:      logger,
	}
}

// MarkDirty 标记有未保存的修改并重新开始计时
func (s *Scheduler) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true
	s.generation++

	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quietPeriod, s.onTimer)
}

func (s *Scheduler) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirty
}

func (s *Scheduler) onTimer() {
	s.mu.Lock()
	if s.closed || !s.dirty {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.inflight.Add(1)
	s.mu.Unlock()

	defer s.inflight.Done()
	if err := s.flush(); err != nil {
		s.logger.Error("自动保存排班表失败", slog.String("error", err.Error()))
	}
}

// Save 立即保存，不等待安静期
func (s *Scheduler) Save() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	defer s.inflight.Done()
	return s.flush()
}

// SaveIfDirty 只在有未保存的修改时保存，用于切换窗口等场景
func (s *Scheduler) SaveIfDirty() error {
	if !s.Dirty() {
		return nil
	}
	return s.Save()
}

func (s *Scheduler) flush() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	records := s.snapshot()
	if err := s.committer.UpsertSchedules(records); err != nil {
		// 保留脏标记，下一次修改或手动保存时会重试
		s.notify(domain.NoticeError, fmt.Sprintf("保存排班表失败：%s", err.Error()))
		return err
	}

	s.mu.Lock()
	// 写入期间又有新的修改时不能清除脏标记
	if s.generation == generation {
		s.dirty = false
	}
	s.mu.Unlock()

	s.notify(domain.NoticeInfo, "排班表已保存")
	s.logger.Debug("排班表已保存", slog.Int("days", len(records)))

	return nil
}

func (s *Scheduler) notify(level domain.NoticeLevel, message string) {
	if s.notifier != nil {
		s.notifier.Notify(level, message)
	}
}

// Close 取消尚未触发的自动保存，不会写入未保存的修改
// 如果有正在进行的写入，会等待它结束
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.inflight.Wait()
}
