package scheduler

import (
	"math/rand"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// Engine 持有一个排班窗口的内存状态，所有对排班表的修改都必须经过 Engine 的方法
// 每个操作要么完整生效，要么返回错误且不做任何修改
type Engine struct {
	days      []domain.DaySchedule
	staff     []*domain.StaffMember
	templates []*domain.ShiftTemplate

	areaFilter string // 为空表示查看全部区域
	brush      string // 为空表示没有选中笔刷

	intn func(n int) int
}

func New(days []domain.DaySchedule, staff []*domain.StaffMember, templates []*domain.ShiftTemplate) *Engine {
	e := &Engine{
		days:      make([]domain.DaySchedule, len(days)),
		staff:     staff,
		templates: templates,
		intn:      rand.Intn,
	}
	for i := range days {
		e.days[i] = days[i].Clone()
	}
	return e
}

// SetRandSource 替换随机数来源，主要用于测试
func (e *Engine) SetRandSource(r *rand.Rand) {
	e.intn = r.Intn
}

func (e *Engine) Days() []domain.DaySchedule {
	days := make([]domain.DaySchedule, len(e.days))
	for i := range e.days {
		days[i] = e.days[i].Clone()
	}
	return days
}

// Restore 用快照整体替换排班表，用于撤销和重做
func (e *Engine) Restore(days []domain.DaySchedule) {
	e.days = make([]domain.DaySchedule, len(days))
	for i := range days {
		e.days[i] = days[i].Clone()
	}
}

func (e *Engine) Records() []domain.ScheduleRecord {
	records := make([]domain.ScheduleRecord, len(e.days))
	for i, day := range e.days {
		records[i] = domain.ScheduleRecord{
			Date:        day.Date,
			Status:      day.Status,
			StaffShifts: day.StaffShifts.Clone(),
		}
	}
	return records
}

func (e *Engine) Staff() []*domain.StaffMember {
	return e.staff
}

func (e *Engine) Templates() []*domain.ShiftTemplate {
	return e.templates
}

func (e *Engine) AreaFilter() string {
	return e.areaFilter
}

func (e *Engine) Brush() string {
	return e.brush
}

func (e *Engine) SetAreaFilter(areaID string) {
	e.areaFilter = areaID
}

func (e *Engine) SetBrush(templateID string) error {
	if templateID != "" && findTemplate(e.templates, templateID) == nil {
		return ErrUnknownTemplate
	}
	e.brush = templateID
	return nil
}

func (e *Engine) findStaff(staffID string) *domain.StaffMember {
	for _, s := range e.staff {
		if s.ID == staffID {
			return s
		}
	}
	return nil
}

func (e *Engine) validDay(dayIndex int) bool {
	return dayIndex >= 0 && dayIndex < len(e.days)
}

// defaultAreaID: 正在按区域筛选时使用筛选的区域，否则使用员工的第一个区域，都没有则为 nil
func (e *Engine) defaultAreaID(staff *domain.StaffMember) *string {
	if e.areaFilter != "" {
		areaID := e.areaFilter
		return &areaID
	}
	return staff.FirstAreaID()
}

// filteredStaff 返回当前区域筛选下的在职员工，保持花名册顺序
func (e *Engine) filteredStaff() []*domain.StaffMember {
	roster := make([]*domain.StaffMember, 0, len(e.staff))
	for _, s := range e.staff {
		if !s.IsActive {
			continue
		}
		if e.areaFilter != "" && !s.InArea(e.areaFilter) {
			continue
		}
		roster = append(roster, s)
	}
	return roster
}

// VisibleStaff 返回当前区域筛选下应该显示在排班表中的员工
func (e *Engine) VisibleStaff() []*domain.StaffMember {
	return e.filteredStaff()
}

// AssignNew 把员工安排到某一天
// 模板优先级：显式传入的 templateID > 当前笔刷 > 第一个模板
func (e *Engine) AssignNew(staffID string, dayIndex int, templateID string) error {
	if !e.validDay(dayIndex) {
		return ErrInvalidDay
	}
	day := &e.days[dayIndex]
	if day.Status != domain.DayStatusOpen {
		return ErrDayClosed
	}
	if len(e.templates) == 0 {
		return ErrNoTemplates
	}

	staff := e.findStaff(staffID)
	if staff == nil {
		return ErrUnknownStaff
	}

	switch {
	case templateID != "":
	case e.brush != "":
		templateID = e.brush
	default:
		templateID = e.templates[0].ID
	}
	if findTemplate(e.templates, templateID) == nil {
		return ErrUnknownTemplate
	}

	if HasConflict(e.days, dayIndex, staffID, templateID, e.templates) {
		return &ConflictError{StaffID: staff.ID, StaffName: staff.Name, Date: day.Date}
	}

	if day.StaffShifts == nil {
		day.StaffShifts = domain.StaffShifts{}
	}
	day.StaffShifts[staffID] = domain.ShiftAssignment{
		TemplateID: templateID,
		AreaID:     e.defaultAreaID(staff),
	}

	return nil
}

// MoveBetweenDays 把员工的排班原样从一天挪到另一天
// 与 AssignNew 不同，这里不做时间冲突检查
func (e *Engine) MoveBetweenDays(staffID string, sourceDayIndex int, targetDayIndex int) error {
	if !e.validDay(sourceDayIndex) || !e.validDay(targetDayIndex) {
		return ErrInvalidDay
	}
	if sourceDayIndex == targetDayIndex {
		return nil
	}

	target := &e.days[targetDayIndex]
	if target.Status != domain.DayStatusOpen {
		return ErrDayClosed
	}

	source := &e.days[sourceDayIndex]
	assignment, exists := source.StaffShifts[staffID]
	if !exists {
		return ErrNoAssignment
	}

	delete(source.StaffShifts, staffID)
	if target.StaffShifts == nil {
		target.StaffShifts = domain.StaffShifts{}
	}
	target.StaffShifts[staffID] = assignment

	return nil
}

// CycleTemplate 切换员工当天的班次
// 传入 forcedTemplateID 或者笔刷与当前班次不同时直接使用该模板，否则按模板顺序切换到下一个
func (e *Engine) CycleTemplate(dayIndex int, staffID string, forcedTemplateID string) error {
	if !e.validDay(dayIndex) {
		return ErrInvalidDay
	}
	if len(e.templates) == 0 {
		return nil
	}

	day := &e.days[dayIndex]
	if day.Status != domain.DayStatusOpen {
		return ErrDayClosed
	}

	current, assigned := day.StaffShifts[staffID]

	next := forcedTemplateID
	if next == "" && e.brush != "" && e.brush != current.TemplateID {
		next = e.brush
	}
	if next == "" {
		idx := -1
		for i, t := range e.templates {
			if t.ID == current.TemplateID {
				idx = i
				break
			}
		}
		next = e.templates[(idx+1)%len(e.templates)].ID
	}
	if findTemplate(e.templates, next) == nil {
		return ErrUnknownTemplate
	}

	areaID := current.AreaID
	if !assigned {
		staff := e.findStaff(staffID)
		if staff == nil {
			return ErrUnknownStaff
		}
		areaID = e.defaultAreaID(staff)
	}

	if day.StaffShifts == nil {
		day.StaffShifts = domain.StaffShifts{}
	}
	day.StaffShifts[staffID] = domain.ShiftAssignment{TemplateID: next, AreaID: areaID}

	return nil
}

func (e *Engine) RemoveShift(dayIndex int, staffID string) error {
	if !e.validDay(dayIndex) {
		return ErrInvalidDay
	}
	delete(e.days[dayIndex].StaffShifts, staffID)
	return nil
}

// ToggleDayStatus 在营业和不营业之间切换
// 关闭时清空当天的排班，且重新打开后不会恢复；规则推导出的休息日切换后被显式设为营业
func (e *Engine) ToggleDayStatus(dayIndex int) error {
	if !e.validDay(dayIndex) {
		return ErrInvalidDay
	}

	day := &e.days[dayIndex]
	switch day.Status {
	case domain.DayStatusOpen:
		day.Status = domain.DayStatusClosed
		day.StaffShifts = domain.StaffShifts{}
	default:
		day.Status = domain.DayStatusOpen
	}

	return nil
}

// CopyFromPreviousDay 用前一天的排班整体替换当天的排班（不是合并）
func (e *Engine) CopyFromPreviousDay(dayIndex int) error {
	if dayIndex == 0 {
		return ErrNoPreviousDay
	}
	if !e.validDay(dayIndex) {
		return ErrInvalidDay
	}

	e.days[dayIndex].StaffShifts = e.days[dayIndex-1].StaffShifts.Clone()
	return nil
}

func (e *Engine) ClearDay(dayIndex int) error {
	if !e.validDay(dayIndex) {
		return ErrInvalidDay
	}
	e.days[dayIndex].StaffShifts = domain.StaffShifts{}
	return nil
}

// ClearAllOpenDays 清空所有营业日的排班，不营业的日子保持不变
func (e *Engine) ClearAllOpenDays() {
	for i := range e.days {
		if e.days[i].Status == domain.DayStatusOpen {
			e.days[i].StaffShifts = domain.StaffShifts{}
		}
	}
}

// ResolveArea 读取时解析排班所属的区域：没有记录区域时使用员工的第一个区域
func ResolveArea(assignment domain.ShiftAssignment, staff *domain.StaffMember) *string {
	if assignment.AreaID != nil {
		return assignment.AreaID
	}
	if staff == nil {
		return nil
	}
	return staff.FirstAreaID()
}
