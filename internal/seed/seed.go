package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/utils"
)

// 花名册 CSV 的表头
const (
	HeaderName  = "姓名"
	HeaderRole  = "职位"
	HeaderAreas = "区域"
)

// 一个员工属于多个区域时用顿号分隔
const areaSeparator = "、"

type Repository interface {
	ListAreas() ([]*domain.Area, error)
	CreateArea(area *domain.Area) error
	CreateStaff(member *domain.StaffMember) error
	ListActiveStaff() ([]*domain.StaffMember, error)
	ListShiftTemplates() ([]*domain.ShiftTemplate, error)
	UpsertSchedules(records []domain.ScheduleRecord) error
}

// ImportRoster 从 CSV 导入员工花名册，返回成功插入的员工数量
// 花名册中出现但数据库中不存在的区域会被自动创建；单行插入失败只记录日志并跳过
func ImportRoster(r io.Reader, repo Repository) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("读取表头失败: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(headers[i], "\ufeff"))
	}
	if !slices.Contains(headers, HeaderName) {
		return 0, fmt.Errorf("没有找到%s列", HeaderName)
	}

	// 已有区域按名称索引
	areas, err := repo.ListAreas()
	if err != nil {
		return 0, err
	}
	areaIDByName := make(map[string]string, len(areas))
	for _, area := range areas {
		areaIDByName[area.Name] = area.ID
	}

	cnt := 0
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return cnt, fmt.Errorf("读取第 %d 行失败: %w", line+1, err)
		}
		line++

		record := make(map[string]string, len(headers))
		for i, value := range row {
			if i < len(headers) {
				record[headers[i]] = strings.TrimSpace(value)
			}
		}

		name := record[HeaderName]
		if name == "" {
			slog.Warn("没有找到姓名，跳过", "line", line)
			continue
		}

		member := &domain.StaffMember{
			Name:     name,
			Role:     record[HeaderRole],
			AreaIDs:  make([]string, 0),
			IsActive: true,
		}

		for _, areaName := range strings.Split(record[HeaderAreas], areaSeparator) {
			areaName = strings.TrimSpace(areaName)
			if areaName == "" {
				continue
			}

			areaID, ok := areaIDByName[areaName]
			if !ok {
				area := &domain.Area{Name: areaName, Color: "#64748b"}
				if err := repo.CreateArea(area); err != nil {
					return cnt, fmt.Errorf("创建区域 %s 失败: %w", areaName, err)
				}
				areaID = area.ID
				areaIDByName[areaName] = areaID
			}

			if !slices.Contains(member.AreaIDs, areaID) {
				member.AreaIDs = append(member.AreaIDs, areaID)
			}
		}

		if err := repo.CreateStaff(member); err != nil {
			slog.Error("插入员工失败", "line", line, "name", name, "error", err)
			continue
		}

		cnt++
	}

	return cnt, nil
}

// FillSchedule 为从 anchor 开始的 days 天随机排班并写入数据库，返回填充的空位数量
// 休息日规则和手动保存的排班一样生效；已有的排班会被覆盖
func FillSchedule(repo Repository, anchor time.Time, days int, policy scheduler.ClosedDayPolicy) (int, error) {
	staff, err := repo.ListActiveStaff()
	if err != nil {
		return 0, err
	}
	templates, err := repo.ListShiftTemplates()
	if err != nil {
		return 0, err
	}

	pool := make([]string, 0, len(templates))
	for _, st := range templates {
		pool = append(pool, st.ID)
	}

	engine := scheduler.New(scheduler.BuildGrid(nil, anchor, days, policy), staff, templates)
	filled, err := engine.BulkGenerate(scheduler.GenerateRandom, pool)
	if err != nil {
		return 0, err
	}

	if err := repo.UpsertSchedules(engine.Records()); err != nil {
		return 0, err
	}

	slog.Info("已生成随机排班", "start", utils.FormatDate(anchor), "days", days, "filled", filled)

	return filled, nil
}
