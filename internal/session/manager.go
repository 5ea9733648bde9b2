package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/history"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/utils"
)

type Options struct {
	WindowSize    int
	MaxWindowSize int
	Policy        scheduler.ClosedDayPolicy
	QuietPeriod   time.Duration
	HistoryDepth  int
	KeyMap        history.KeyMap
	// IdleTimeout 为 0 时不回收空闲会话
	IdleTimeout time.Duration
}

func NewOptions(cfg *config.Config) Options {
	return Options{
		WindowSize:    cfg.Schedule.WindowSize,
		MaxWindowSize: cfg.Schedule.MaxWindowSize,
		Policy: scheduler.ClosedDayPolicy{
			Enabled: cfg.Schedule.ClosedDayEnabled,
			Weekday: time.Weekday(cfg.Schedule.ClosedWeekday),
		},
		QuietPeriod:  time.Duration(cfg.Autosave.QuietPeriod) * time.Millisecond,
		HistoryDepth: cfg.History.MaxDepth,
		KeyMap:       history.DefaultKeyMap(),
		IdleTimeout:  time.Duration(cfg.Session.IdleTimeout) * time.Second,
	}
}

// Manager 管理所有打开的编辑会话
// 每个会话拥有自己的排班表、撤销历史和自动保存计时器
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store     Store
	notices   NoticeStore
	publisher Publisher
	opts      Options
	logger    *slog.Logger

	stopReaper chan struct{}
	reaperDone chan struct{}
	stopOnce   sync.Once
}

// NewManager 创建会话管理器，IdleTimeout 大于 0 时会启动一个回收空闲会话的 goroutine，由 CloseAll 停止
func NewManager(store Store, notices NoticeStore, publisher Publisher, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		sessions:  make(map[string]*Session),
		store:     store,
		notices:   notices,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}

	if opts.IdleTimeout > 0 {
		m.stopReaper = make(chan struct{})
		m.reaperDone = make(chan struct{})
		interval := opts.IdleTimeout / 2
		if interval <= 0 {
			interval = opts.IdleTimeout
		}
		go m.runReaper(interval)
	}

	return m
}

// Open 打开一个新的编辑会话
// anchorDate 为空时从今天开始，windowSize 为 0 时使用默认天数
// 读取数据失败不会导致打开失败，而是显示全部营业、没有排班的默认排班表并给出提示
func (m *Manager) Open(owner *domain.User, anchorDate string, windowSize int) (*Session, error) {
	anchor, size, err := m.parseWindow(anchorDate, windowSize)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := &Session{
		id:        id,
		owner:     owner,
		store:     m.store,
		notices:   m.notices,
		publisher: m.publisher,
		policy:    m.opts.Policy,
		window:    m.parseWindow,
		logger:    m.logger.With(slog.String("session", id)),
		shortcuts: history.NewShortcuts(m.opts.KeyMap),
		openedAt:  time.Now(),
	}
	s.touch(s.openedAt)
	s.load(anchor, size)

	s.history = history.NewBound(
		func() []domain.DaySchedule { return s.engine.Days() },
		func(days []domain.DaySchedule) { s.engine.Restore(days) },
		m.opts.HistoryDepth,
	)
	s.autosave = newAutosave(s, m.opts.QuietPeriod)
	s.shortcuts.Attach(undoer{s})

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	s.logger.Info("打开编辑会话", slog.String("anchor", utils.FormatDate(anchor)), slog.Int("windowSize", size))

	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	s.touch(time.Now())
	return s, nil
}

// Close 关闭会话，尚未保存的修改会被丢弃
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, exists := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}

	s.Close()
	return nil
}

// CloseAll 在服务器关闭时调用
func (m *Manager) CloseAll() {
	m.stopOnce.Do(func() {
		if m.stopReaper != nil {
			close(m.stopReaper)
			<-m.reaperDone
		}
	})

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (m *Manager) runReaper(interval time.Duration) {
	defer close(m.reaperDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopReaper:
			return
		case now := <-ticker.C:
			m.reap(now)
		}
	}
}

// reap 关闭超过 IdleTimeout 没有访问的会话，和 Close 一样不会写入未保存的修改
// 自动保存的安静期远小于空闲时间，因此这里丢弃的只有保存失败的修改
func (m *Manager) reap(now time.Time) int {
	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.idleSince(now) >= m.opts.IdleTimeout {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		if s.Dirty() {
			s.logger.Warn("回收空闲会话时仍有未保存的修改")
		}
		s.Close()
	}
	if len(idle) > 0 {
		m.logger.Info("已回收空闲编辑会话", slog.Int("count", len(idle)))
	}
	return len(idle)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

func (m *Manager) parseWindow(anchorDate string, windowSize int) (time.Time, int, error) {
	if windowSize == 0 {
		windowSize = m.opts.WindowSize
	}
	if windowSize < 1 || (m.opts.MaxWindowSize > 0 && windowSize > m.opts.MaxWindowSize) {
		return time.Time{}, 0, ErrInvalidWindow
	}

	if anchorDate == "" {
		return time.Now(), windowSize, nil
	}

	anchor, err := utils.ParseDate(anchorDate)
	if err != nil {
		return time.Time{}, 0, err
	}
	return anchor, windowSize, nil
}
