package session

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/autosave"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/export"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/history"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/utils"
)

// Session 是一个管理员打开的排班编辑会话
// 所有对排班表的修改都在 mu 的保护下进行；自动保存在 mu 之外读取快照，因此调用 autosave 的 Save/Close 时不能持有 mu
type Session struct {
	id        string
	owner     *domain.User
	store     Store
	notices   NoticeStore
	publisher Publisher
	policy    scheduler.ClosedDayPolicy
	window    func(anchorDate string, windowSize int) (time.Time, int, error)
	logger    *slog.Logger
	openedAt  time.Time
	// lastAccess 是最近一次访问的 UnixNano，空闲回收时读取，不需要持有 mu
	lastAccess atomic.Int64

	mu         sync.Mutex
	engine     *scheduler.Engine
	areas      []*domain.Area
	anchor     time.Time
	windowSize int
	closed     bool
	// changingWindow 为 true 时正在保存旧窗口，期间的修改会被拒绝
	changingWindow bool

	history   *history.Bound[[]domain.DaySchedule]
	autosave  *autosave.Scheduler
	shortcuts *history.Shortcuts
}

func newAutosave(s *Session, quietPeriod time.Duration) *autosave.Scheduler {
	snapshot := func() []domain.ScheduleRecord {
		s.mu.Lock()
		defer s.mu.Unlock()

		return s.engine.Records()
	}
	return autosave.New(quietPeriod, snapshot, s.store, s, s.logger)
}

// editable 检查会话是否允许修改排班表，调用方需要持有 mu
func (s *Session) editable() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.changingWindow {
		return ErrWindowChanging
	}
	return nil
}

func (s *Session) touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastAccess.Load()))
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Owner() *domain.User {
	return s.owner
}

// load 读取员工、区域、班次模板和窗口内的排班记录并重建排班表
// 调用方需要持有 mu（打开会话时除外）
func (s *Session) load(anchor time.Time, windowSize int) {
	var (
		areaFilter string
		brush      string
	)
	if s.engine != nil {
		areaFilter = s.engine.AreaFilter()
		brush = s.engine.Brush()
	}

	staff, err := s.store.ListActiveStaff()
	if err != nil {
		s.readFailed("员工", err)
		staff = []*domain.StaffMember{}
	}
	areas, err := s.store.ListAreas()
	if err != nil {
		s.readFailed("区域", err)
		areas = []*domain.Area{}
	}
	templates, err := s.store.ListShiftTemplates()
	if err != nil {
		s.readFailed("班次模板", err)
		templates = []*domain.ShiftTemplate{}
	}

	var days []domain.DaySchedule
	startDate := utils.FormatDate(anchor)
	endDate := utils.FormatDate(anchor.AddDate(0, 0, windowSize-1))
	records, err := s.store.GetScheduleInRange(startDate, endDate)
	if err != nil {
		s.readFailed("排班记录", err)
		days = scheduler.DefaultGrid(anchor, windowSize)
	} else {
		days = scheduler.BuildGrid(records, anchor, windowSize, s.policy)
	}

	s.engine = scheduler.New(days, staff, templates)
	s.engine.SetAreaFilter(areaFilter)
	// 模板被删除后笔刷失效
	if err := s.engine.SetBrush(brush); err != nil {
		_ = s.engine.SetBrush("")
	}
	s.areas = areas
	s.anchor = anchor
	s.windowSize = windowSize
}

func (s *Session) readFailed(what string, err error) {
	s.logger.Error("读取数据失败", slog.String("what", what), slog.String("error", err.Error()))
	s.Notify(domain.NoticeError, fmt.Sprintf("读取%s失败，已显示默认排班表", what))
}

// Notify 记录一条提示，提示写入失败只记录日志
func (s *Session) Notify(level domain.NoticeLevel, message string) {
	if s.notices == nil {
		return
	}
	n := domain.Notice{Level: level, Message: message, CreatedAt: time.Now()}
	if err := s.notices.Push(s.id, n); err != nil {
		s.logger.Warn("无法保存提示信息", slog.String("error", err.Error()))
	}
}

func (s *Session) Notices() ([]domain.Notice, error) {
	if s.notices == nil {
		return []domain.Notice{}, nil
	}
	return s.notices.List(s.id)
}

// mutate 执行一次排班修改
// 修改成功才记录撤销历史并标记为未保存，被拒绝的修改不会留下任何痕迹，只给出提示
func (s *Session) mutate(op func(e *scheduler.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}

	previous := s.engine.Days()
	if err := op(s.engine); err != nil {
		s.Notify(domain.NoticeError, err.Error())
		return err
	}

	s.history.Record(previous)
	s.autosave.MarkDirty()

	return nil
}

func (s *Session) Assign(staffID string, dayIndex int, templateID string) error {
	return s.mutate(func(e *scheduler.Engine) error {
		return e.AssignNew(staffID, dayIndex, templateID)
	})
}

func (s *Session) Move(staffID string, sourceDayIndex int, targetDayIndex int) error {
	return s.mutate(func(e *scheduler.Engine) error {
		return e.MoveBetweenDays(staffID, sourceDayIndex, targetDayIndex)
	})
}

func (s *Session) Cycle(dayIndex int, staffID string, forcedTemplateID string) error {
	return s.mutate(func(e *scheduler.Engine) error {
		return e.CycleTemplate(dayIndex, staffID, forcedTemplateID)
	})
}

func (s *Session) Remove(dayIndex int, staffID string) error {
	return s.mutate(func(e *scheduler.Engine) error {
		return e.RemoveShift(dayIndex, staffID)
	})
}

func (s *Session) Toggle(dayIndex int) error {
	return s.mutate(func(e *scheduler.Engine) error {
		return e.ToggleDayStatus(dayIndex)
	})
}

func (s *Session) CopyPrevious(dayIndex int) error {
	return s.mutate(func(e *scheduler.Engine) error {
		return e.CopyFromPreviousDay(dayIndex)
	})
}

func (s *Session) ClearDay(dayIndex int) error {
	return s.mutate(func(e *scheduler.Engine) error {
		return e.ClearDay(dayIndex)
	})
}

func (s *Session) ClearAll() error {
	return s.mutate(func(e *scheduler.Engine) error {
		e.ClearAllOpenDays()
		return nil
	})
}

// Generate 批量填充空位，返回填充的数量
func (s *Session) Generate(mode scheduler.GenerateMode, pool []string) (int, error) {
	filled := 0
	err := s.mutate(func(e *scheduler.Engine) error {
		var err error
		filled, err = e.BulkGenerate(mode, pool)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.Notify(domain.NoticeInfo, fmt.Sprintf("已填充 %d 个空位", filled))
	return filled, nil
}

// SetView 修改区域筛选和笔刷，它们属于视图状态，不进入撤销历史
// 传入 nil 表示不修改对应的值
func (s *Session) SetView(areaFilter *string, brush *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	if brush != nil {
		if err := s.engine.SetBrush(*brush); err != nil {
			return err
		}
	}
	if areaFilter != nil {
		s.engine.SetAreaFilter(*areaFilter)
	}

	return nil
}

func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	if !(undoer{s}).Undo() {
		return ErrNothingToUndo
	}
	return nil
}

func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	if !(undoer{s}).Redo() {
		return ErrNothingToRedo
	}
	return nil
}

// Shortcut 处理前端转发的快捷键
func (s *Session) Shortcut(chord string, inTextInput bool) (history.Action, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return history.ActionNone, false, err
	}

	action, changed := s.shortcuts.HandleKey(history.ParseChord(chord), inTextInput)
	return action, changed, nil
}

// undoer 在已经持有 mu 的情况下操作撤销历史
type undoer struct {
	s *Session
}

func (u undoer) Undo() bool {
	if !u.s.history.Undo() {
		return false
	}
	u.s.autosave.MarkDirty()
	return true
}

func (u undoer) Redo() bool {
	if !u.s.history.Redo() {
		return false
	}
	u.s.autosave.MarkDirty()
	return true
}

// ChangeWindow 切换排班窗口
// 先保存未保存的修改，保存失败时不切换；保存期间的修改会被拒绝，否则它们会在重新读取时丢失
// 切换后撤销历史被清空
func (s *Session) ChangeWindow(anchorDate string, windowSize int) error {
	anchor, size, err := s.window(anchorDate, windowSize)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.editable(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.changingWindow = true
	s.mu.Unlock()

	saveErr := s.autosave.SaveIfDirty()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.changingWindow = false
	if saveErr != nil {
		return saveErr
	}
	if s.closed {
		return ErrSessionClosed
	}

	s.load(anchor, size)
	s.history.Clear()

	return nil
}

// Save 立即保存整个窗口，成功后发送通知邮件
func (s *Session) Save() error {
	if err := s.autosave.Save(); err != nil {
		return err
	}

	if s.publisher == nil || s.owner == nil {
		return nil
	}

	data := s.commitSummary()
	if err := s.publisher.ScheduleCommitted(s.owner.Email, data); err != nil {
		// 排班表已经保存成功，通知发送失败不影响结果
		s.logger.Warn("无法发送排班保存通知", slog.String("error", err.Error()))
	}

	return nil
}

func (s *Session) commitSummary() domain.ScheduleCommittedMailData {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := domain.ScheduleCommittedMailData{
		FullName:  s.owner.FullName,
		StartDate: utils.FormatDate(s.anchor),
		EndDate:   utils.FormatDate(s.anchor.AddDate(0, 0, s.windowSize-1)),
	}
	for _, record := range s.engine.Records() {
		if record.Status == domain.DayStatusOpen {
			data.OpenDays++
		}
		data.AssignmentCount += len(record.StaffShifts)
	}
	return data
}

// SavePattern 把当前排班保存为排班模式
// areaID 为 nil 时保存所有员工的排班（通用），否则只保存该区域员工的排班
func (s *Session) SavePattern(name string, areaID *string) (*domain.SchedulePattern, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	pattern := &domain.SchedulePattern{
		Name:      name,
		AreaID:    areaID,
		ShiftData: s.engine.ExtractPattern(areaID),
	}
	s.mu.Unlock()

	if err := s.store.CreatePattern(pattern); err != nil {
		s.Notify(domain.NoticeError, "保存排班模式失败")
		return nil, err
	}

	s.Notify(domain.NoticeInfo, fmt.Sprintf("已保存排班模式「%s」", name))
	return pattern, nil
}

// ApplyPattern 把保存的排班模式合并到当前排班表，可以撤销
func (s *Session) ApplyPattern(patternID string) error {
	pattern, err := s.store.GetPattern(patternID)
	if err != nil {
		return err
	}

	if err := s.mutate(func(e *scheduler.Engine) error {
		e.ApplyPattern(pattern.ShiftData)
		return nil
	}); err != nil {
		return err
	}

	s.Notify(domain.NoticeInfo, fmt.Sprintf("已应用排班模式「%s」", pattern.Name))
	return nil
}

func (s *Session) DeletePattern(patternID string) error {
	if err := s.store.DeletePattern(patternID); err != nil {
		return err
	}

	s.Notify(domain.NoticeInfo, "已删除排班模式")
	return nil
}

// Export 把当前排班窗口导出为 xlsx
func (s *Session) Export() ([]byte, error) {
	s.mu.Lock()
	days := s.engine.Days()
	staff := s.engine.Staff()
	templates := s.engine.Templates()
	s.mu.Unlock()

	return export.ScheduleWorkbook(days, staff, templates)
}

func (s *Session) Dirty() bool {
	return s.autosave.Dirty()
}

// Close 取消尚未触发的自动保存并解除快捷键绑定，未保存的修改会被丢弃
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.shortcuts.Detach()
	s.mu.Unlock()

	s.autosave.Close()

	if s.notices != nil {
		if err := s.notices.Delete(s.id); err != nil {
			s.logger.Warn("无法清理提示信息", slog.String("error", err.Error()))
		}
	}

	s.logger.Info("关闭编辑会话", slog.Duration("duration", time.Since(s.openedAt)))
}
