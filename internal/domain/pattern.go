package domain

import "time"

// SchedulePattern 是保存下来的排班模式，ShiftData 按照窗口内的日期下标排列
type SchedulePattern struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	AreaID    *string       `json:"areaId"` // 为 nil 时表示“通用”，即覆盖所有区域
	ShiftData []StaffShifts `json:"shiftData"`
	CreatedAt time.Time     `json:"createdAt"`
}
