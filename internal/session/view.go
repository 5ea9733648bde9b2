package session

import (
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/utils"
)

// Cell 是排班表中一个有排班的格子，AreaID 是解析后的区域
type Cell struct {
	DayIndex   int     `json:"dayIndex"`
	StaffID    string  `json:"staffId"`
	TemplateID string  `json:"templateId"`
	AreaID     *string `json:"areaId"`
}

type ShortcutHelp struct {
	Key  string `json:"key"`
	Desc string `json:"desc"`
}

type View struct {
	ID         string                  `json:"id"`
	AnchorDate string                  `json:"anchorDate"`
	WindowSize int                     `json:"windowSize"`
	Days       []domain.DaySchedule    `json:"days"`
	Staff      []*domain.StaffMember   `json:"staff"`
	Areas      []*domain.Area          `json:"areas"`
	Templates  []*domain.ShiftTemplate `json:"templates"`
	Cells      []Cell                  `json:"cells"`
	AreaFilter string                  `json:"areaFilter"`
	Brush      string                  `json:"brush"`
	Dirty      bool                    `json:"dirty"`
	CanUndo    bool                    `json:"canUndo"`
	CanRedo    bool                    `json:"canRedo"`
	Shortcuts  []ShortcutHelp          `json:"shortcuts"`
}

// View 返回当前会话的快照，供前端渲染
// Staff 只包含当前筛选下的在职员工；按区域筛选时，Cells 只包含解析后属于该区域的排班
func (s *Session) View() (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	v := &View{
		ID:         s.id,
		AnchorDate: utils.FormatDate(s.anchor),
		WindowSize: s.windowSize,
		Days:       s.engine.Days(),
		Staff:      s.engine.VisibleStaff(),
		Areas:      s.areas,
		Templates:  s.engine.Templates(),
		Cells:      make([]Cell, 0),
		AreaFilter: s.engine.AreaFilter(),
		Brush:      s.engine.Brush(),
		Dirty:      s.autosave.Dirty(),
		CanUndo:    s.history.CanUndo(),
		CanRedo:    s.history.CanRedo(),
		Shortcuts:  make([]ShortcutHelp, 0),
	}

	for _, h := range s.shortcuts.Help() {
		v.Shortcuts = append(v.Shortcuts, ShortcutHelp{Key: h.Key, Desc: h.Desc})
	}

	for dayIndex, day := range v.Days {
		for _, member := range v.Staff {
			assignment, ok := day.StaffShifts[member.ID]
			if !ok {
				continue
			}
			areaID := scheduler.ResolveArea(assignment, member)
			if v.AreaFilter != "" && (areaID == nil || *areaID != v.AreaFilter) {
				continue
			}
			v.Cells = append(v.Cells, Cell{
				DayIndex:   dayIndex,
				StaffID:    member.ID,
				TemplateID: assignment.TemplateID,
				AreaID:     areaID,
			})
		}
	}

	return v, nil
}
