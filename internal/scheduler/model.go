package scheduler

import (
	"errors"
	"fmt"
	"time"
)

// GenerateMode 批量填充空位的方式
type GenerateMode string

const (
	GenerateUniform GenerateMode = "uniform" // 所有空位都使用候选池中的第一个模板
	GenerateRandom  GenerateMode = "random"  // 每个空位从候选池中随机挑选一个模板
	GeneratePattern GenerateMode = "pattern" // 忽略候选池，按 (天下标 + 员工下标) 轮换所有模板
)

func (m GenerateMode) Valid() bool {
	switch m {
	case GenerateUniform, GenerateRandom, GeneratePattern:
		return true
	}
	return false
}

// ClosedDayPolicy 每周固定休息日规则，例如每周日不营业
type ClosedDayPolicy struct {
	Enabled bool
	Weekday time.Weekday
}

func (p ClosedDayPolicy) Matches(t time.Time) bool {
	return p.Enabled && t.Weekday() == p.Weekday
}

// 校验失败，操作不会修改排班表
var (
	ErrInvalidDay      = errors.New("日期下标超出排班窗口")
	ErrDayClosed       = errors.New("当天不营业，无法排班")
	ErrNoTemplates     = errors.New("还没有配置任何班次模板")
	ErrUnknownStaff    = errors.New("员工不存在")
	ErrUnknownTemplate = errors.New("班次模板不存在")
	ErrNoAssignment    = errors.New("该员工当天没有排班")
	ErrNoPreviousDay   = errors.New("第一天没有可以复制的前一天")
	ErrEmptyPool       = errors.New("请至少选择一个班次模板")
	ErrInvalidMode     = errors.New("无效的生成方式")
)

// ErrConflict 同一员工同一天的班次时间重叠
var ErrConflict = errors.New("班次时间冲突")

type ConflictError struct {
	StaffID   string
	StaffName string
	Date      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s 在 %s 已有时间重叠的班次", e.StaffName, e.Date)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

var rejections = []error{
	ErrInvalidDay,
	ErrDayClosed,
	ErrNoTemplates,
	ErrUnknownStaff,
	ErrUnknownTemplate,
	ErrNoAssignment,
	ErrNoPreviousDay,
	ErrEmptyPool,
	ErrInvalidMode,
	ErrConflict,
}

// IsRejection 判断错误是否是操作被拒绝（校验失败或时间冲突），而不是系统错误
func IsRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
