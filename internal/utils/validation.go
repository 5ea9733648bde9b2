package utils

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

const MaxShortCodeLength = 3

func ValidateShiftTemplate(st *domain.ShiftTemplate) error {
	if len(st.Ranges) == 0 {
		return errors.New("班次模板至少需要一个时间段")
	}

	if utf8.RuneCountInString(st.ShortCode) > MaxShortCodeLength {
		return fmt.Errorf("简称不能超过 %d 个字符", MaxShortCodeLength)
	}

	// 检查每一个时间段的结束时间是不是都大于开始时间
	for i, r := range st.Ranges {
		startTime, err := time.Parse("15:04", r.Start)
		if err != nil {
			return fmt.Errorf("时间段 %d 的开始时间格式错误", i+1)
		}
		endTime, err := time.Parse("15:04", r.End)
		if err != nil {
			return fmt.Errorf("时间段 %d 的结束时间格式错误", i+1)
		}
		if !endTime.After(startTime) {
			return fmt.Errorf("时间段 %d 的结束时间必须晚于开始时间", i+1)
		}
	}

	// 时间段按展示顺序排列，后一段必须在前一段结束之后开始
	for i := 1; i < len(st.Ranges); i++ {
		prevEnd := ToMinutes(st.Ranges[i-1].End)
		start := ToMinutes(st.Ranges[i].Start)
		if start < prevEnd {
			return fmt.Errorf("时间段 %d 和时间段 %d 之间的时间冲突", i, i+1)
		}
	}

	return nil
}

// ParseDate 解析 YYYY-MM-DD 格式的日期
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期 %q 格式错误，应为 YYYY-MM-DD", s)
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
