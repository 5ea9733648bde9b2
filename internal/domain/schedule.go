package domain

import (
	"bytes"
	"encoding/json"
)

type DayStatus string

const (
	DayStatusOpen     DayStatus = "open"
	DayStatusClosed   DayStatus = "closed"
	DayStatusDisabled DayStatus = "disabled" // 由每周休息日规则推导出来的关闭状态
)

// ShiftAssignment 表示某位员工在某天被安排的班次
// AreaID 为 nil 表示安排时正在查看“全部区域”，读取时按员工自身的区域解析
type ShiftAssignment struct {
	TemplateID string  `json:"templateId"`
	AreaID     *string `json:"areaId"`
}

// GetShiftData 将存储中的原始值规范化为 ShiftAssignment
// 旧数据中的值是一个裸的模板 ID 字符串，这里统一转换为 {templateId, areaId: null}
// 无法识别的值返回零值，不会返回错误
func GetShiftData(raw json.RawMessage) ShiftAssignment {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ShiftAssignment{}
	}

	switch raw[0] {
	case '"':
		var templateID string
		if err := json.Unmarshal(raw, &templateID); err != nil {
			return ShiftAssignment{}
		}
		return ShiftAssignment{TemplateID: templateID}
	case '{':
		var v struct {
			TemplateID string  `json:"templateId"`
			AreaID     *string `json:"areaId"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ShiftAssignment{}
		}
		return ShiftAssignment{TemplateID: v.TemplateID, AreaID: v.AreaID}
	default:
		return ShiftAssignment{}
	}
}

func (a *ShiftAssignment) UnmarshalJSON(data []byte) error {
	*a = GetShiftData(data)
	return nil
}

func (a ShiftAssignment) Clone() ShiftAssignment {
	if a.AreaID == nil {
		return a
	}
	areaID := *a.AreaID
	return ShiftAssignment{TemplateID: a.TemplateID, AreaID: &areaID}
}

// StaffShifts: staffID -> ShiftAssignment
type StaffShifts map[string]ShiftAssignment

func (s StaffShifts) Clone() StaffShifts {
	c := make(StaffShifts, len(s))
	for staffID, assignment := range s {
		c[staffID] = assignment.Clone()
	}
	return c
}

type DaySchedule struct {
	Date        string      `json:"date"` // YYYY-MM-DD
	DayName     string      `json:"dayName"`
	DayNumber   int         `json:"dayNumber"`
	Status      DayStatus   `json:"status"`
	StaffShifts StaffShifts `json:"staffShifts"`
}

func (d DaySchedule) Clone() DaySchedule {
	d.StaffShifts = d.StaffShifts.Clone()
	return d
}

// ScheduleRecord 是持久化到存储中的单日排班记录，以日期为键整体覆盖
type ScheduleRecord struct {
	Date        string      `json:"date"`
	Status      DayStatus   `json:"status"`
	StaffShifts StaffShifts `json:"staffShifts"`
}
