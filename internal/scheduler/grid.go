package scheduler

import (
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

var dayNames = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// BuildGrid 从 anchor 开始生成连续 windowSize 天的排班表
// 存储中明确的 open / closed 状态优先于每周休息日规则；
// 没有记录或者记录为 disabled 时，按照当前的休息日规则重新推导
func BuildGrid(records []domain.ScheduleRecord, anchor time.Time, windowSize int, policy ClosedDayPolicy) []domain.DaySchedule {
	byDate := make(map[string]domain.ScheduleRecord, len(records))
	for _, record := range records {
		byDate[record.Date] = record
	}

	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	days := make([]domain.DaySchedule, 0, max(windowSize, 0))

	for i := 0; i < windowSize; i++ {
		t := anchor.AddDate(0, 0, i)
		date := t.Format(time.DateOnly)

		day := domain.DaySchedule{
			Date:        date,
			DayName:     dayNames[t.Weekday()],
			DayNumber:   t.Day(),
			Status:      domain.DayStatusOpen,
			StaffShifts: domain.StaffShifts{},
		}
		if policy.Matches(t) {
			day.Status = domain.DayStatusDisabled
		}

		if record, exists := byDate[date]; exists {
			switch record.Status {
			case domain.DayStatusOpen, domain.DayStatusClosed:
				day.Status = record.Status
			}
			if record.StaffShifts != nil {
				day.StaffShifts = record.StaffShifts.Clone()
			}
		}

		days = append(days, day)
	}

	return days
}

// DefaultGrid 在读取失败时使用：所有天都营业且没有任何排班
func DefaultGrid(anchor time.Time, windowSize int) []domain.DaySchedule {
	return BuildGrid(nil, anchor, windowSize, ClosedDayPolicy{})
}
