package scheduler

import (
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// BulkGenerate 为当前筛选下的员工在所有营业日填充空位，已有的排班不会被覆盖
// 返回新填充的空位数量
func (e *Engine) BulkGenerate(mode GenerateMode, pool []string) (int, error) {
	if !mode.Valid() {
		return 0, ErrInvalidMode
	}
	if len(e.templates) == 0 {
		return 0, ErrNoTemplates
	}

	// pattern 模式忽略候选池
	if mode != GeneratePattern {
		if len(pool) == 0 {
			return 0, ErrEmptyPool
		}
		for _, id := range pool {
			if findTemplate(e.templates, id) == nil {
				return 0, ErrUnknownTemplate
			}
		}
	}

	roster := e.filteredStaff()
	filled := 0

	for dayIndex := range e.days {
		day := &e.days[dayIndex]
		if day.Status != domain.DayStatusOpen {
			continue
		}
		if day.StaffShifts == nil {
			day.StaffShifts = domain.StaffShifts{}
		}

		for staffIndex, staff := range roster {
			if _, exists := day.StaffShifts[staff.ID]; exists {
				continue
			}

			var templateID string
			switch mode {
			case GenerateUniform:
				templateID = pool[0]
			case GenerateRandom:
				templateID = pool[e.intn(len(pool))]
			case GeneratePattern:
				// 按 (天下标 + 员工下标) 轮换，形成斜向的轮班
				templateID = e.templates[(dayIndex+staffIndex)%len(e.templates)].ID
			}

			day.StaffShifts[staff.ID] = domain.ShiftAssignment{
				TemplateID: templateID,
				AreaID:     e.defaultAreaID(staff),
			}
			filled++
		}
	}

	return filled, nil
}
