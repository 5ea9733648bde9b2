package scheduler

import (
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// ApplyPattern 把保存的排班模式按天下标合并到当前排班表中
// 模式可以比窗口短；同一员工在模式和当前排班中都有时，以模式为准
func (e *Engine) ApplyPattern(shiftData []domain.StaffShifts) {
	n := min(len(e.days), len(shiftData))
	for i := 0; i < n; i++ {
		if len(shiftData[i]) == 0 {
			continue
		}
		if e.days[i].StaffShifts == nil {
			e.days[i].StaffShifts = domain.StaffShifts{}
		}
		for staffID, assignment := range shiftData[i] {
			e.days[i].StaffShifts[staffID] = assignment.Clone()
		}
	}
}

// ExtractPattern 从当前排班表中提取可以保存的排班模式
// areaID 为 nil 时提取所有员工（通用），否则只提取属于该区域的员工
func (e *Engine) ExtractPattern(areaID *string) []domain.StaffShifts {
	include := make(map[string]bool, len(e.staff))
	for _, s := range e.staff {
		if areaID == nil || s.InArea(*areaID) {
			include[s.ID] = true
		}
	}

	data := make([]domain.StaffShifts, len(e.days))
	for i, day := range e.days {
		data[i] = domain.StaffShifts{}
		for staffID, assignment := range day.StaffShifts {
			if include[staffID] {
				data[i][staffID] = assignment.Clone()
			}
		}
	}

	return data
}
