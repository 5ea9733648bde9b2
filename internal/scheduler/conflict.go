package scheduler

import (
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/utils"
)

func findTemplate(templates []*domain.ShiftTemplate, id string) *domain.ShiftTemplate {
	for _, t := range templates {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// HasConflict 判断员工在 dayIndex 这一天已有的班次是否与候选模板时间重叠
// 只比较模板的整体跨度（第一段开始到最后一段结束），不考虑两头班中间的空档
// 任意一方没有配置时间段时视为没有冲突
func HasConflict(days []domain.DaySchedule, dayIndex int, staffID string, candidateTemplateID string, templates []*domain.ShiftTemplate) bool {
	if dayIndex < 0 || dayIndex >= len(days) {
		return false
	}

	candidate := findTemplate(templates, candidateTemplateID)
	if candidate == nil {
		return false
	}
	cStart, cEnd, ok := utils.Envelope(candidate.Ranges)
	if !ok {
		return false
	}

	for id, assignment := range days[dayIndex].StaffShifts {
		if id != staffID {
			continue
		}

		existing := findTemplate(templates, assignment.TemplateID)
		if existing == nil {
			continue
		}
		eStart, eEnd, ok := utils.Envelope(existing.Ranges)
		if !ok {
			continue
		}

		if utils.RangesOverlap(eStart, eEnd, cStart, cEnd) {
			return true
		}
	}

	return false
}
