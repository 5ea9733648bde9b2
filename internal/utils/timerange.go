package utils

import (
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// ToMinutes 将 "HH:MM" 转换为从零点开始的分钟数
// 输入在模板编辑时已经校验过，格式错误时返回 0
func ToMinutes(t string) int {
	hh, mm, ok := strings.Cut(t, ":")
	if !ok {
		return 0
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}

// RangesOverlap 判断两个半开区间是否重叠，首尾相接不算重叠
func RangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// Envelope 返回模板的整体时间跨度：第一段的开始时间到最后一段的结束时间
// 模板没有配置任何时间段时 ok 为 false
func Envelope(ranges []domain.TimeRange) (start int, end int, ok bool) {
	if len(ranges) == 0 {
		return 0, 0, false
	}
	return ToMinutes(ranges[0].Start), ToMinutes(ranges[len(ranges)-1].End), true
}
