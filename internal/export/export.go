package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

const sheetName = "排班表"

const (
	closedMark   = "休"
	disabledMark = "停"
)

// ScheduleWorkbook 把排班窗口导出为 xlsx
// 每个员工一行，每天一列，单元格内容为班次简称；休息日和停用日整列标记
// 离职员工只有在窗口内有排班时才会出现
func ScheduleWorkbook(days []domain.DaySchedule, staff []*domain.StaffMember, templates []*domain.ShiftTemplate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("无法创建工作表: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("无法删除默认工作表: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("无法创建表头样式: %w", err)
	}
	closedStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#888888"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#EEEEEE"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("无法创建休息日样式: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("无法创建单元格样式: %w", err)
	}

	// 表头
	header := make([]any, 0, len(days)+1)
	header = append(header, "员工")
	for _, day := range days {
		header = append(header, fmt.Sprintf("%s %s", day.Date[5:], day.DayName))
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("无法写入表头: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(days) + 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("无法设置表头样式: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "A", 14); err != nil {
		return nil, err
	}
	if len(days) > 0 {
		if err := f.SetColWidth(sheetName, "B", lastCol, 11); err != nil {
			return nil, err
		}
	}

	codes := make(map[string]string, len(templates))
	for _, t := range templates {
		code := t.ShortCode
		if code == "" {
			code = t.Name
		}
		codes[t.ID] = code
	}

	row := 2
	for _, s := range exportedStaff(days, staff) {
		values := make([]any, 0, len(days)+1)
		values = append(values, s.Name)
		for _, day := range days {
			switch day.Status {
			case domain.DayStatusClosed:
				values = append(values, closedMark)
			case domain.DayStatusDisabled:
				values = append(values, disabledMark)
			default:
				assignment, ok := day.StaffShifts[s.ID]
				if !ok {
					values = append(values, "")
					continue
				}
				values = append(values, codes[assignment.TemplateID])
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("无法写入第 %d 行: %w", row, err)
		}
		row++
	}

	// 数据区域样式，休息日整列置灰
	for i, day := range days {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return nil, err
		}
		style := cellStyle
		if day.Status != domain.DayStatusOpen {
			style = closedStyle
		}
		if row > 2 {
			if err := f.SetCellStyle(sheetName, col+"2", fmt.Sprintf("%s%d", col, row-1), style); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("无法生成 xlsx 文件: %w", err)
	}

	return buf.Bytes(), nil
}

func exportedStaff(days []domain.DaySchedule, staff []*domain.StaffMember) []*domain.StaffMember {
	assigned := map[string]bool{}
	for _, day := range days {
		for staffID := range day.StaffShifts {
			assigned[staffID] = true
		}
	}

	result := make([]*domain.StaffMember, 0, len(staff))
	for _, s := range staff {
		if s.IsActive || assigned[s.ID] {
			result = append(result, s)
		}
	}
	return result
}
