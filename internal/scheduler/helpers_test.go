package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func testTemplates() []*domain.ShiftTemplate {
	return []*domain.ShiftTemplate{
		{ID: "morning", Name: "早班", ShortCode: "ZB", Ranges: []domain.TimeRange{{Start: "09:00", End: "14:00"}}},
		{ID: "late", Name: "晚班", ShortCode: "WB", Ranges: []domain.TimeRange{{Start: "13:00", End: "18:00"}}},
		{ID: "evening", Name: "夜班", ShortCode: "YB", Ranges: []domain.TimeRange{{Start: "14:00", End: "18:00"}}},
	}
}

func testStaff() []*domain.StaffMember {
	return []*domain.StaffMember{
		{ID: "alice", Name: "王芳", AreaIDs: []string{"front"}, IsActive: true},
		{ID: "bob", Name: "李强", AreaIDs: []string{"kitchen", "front"}, IsActive: true},
		{ID: "carol", Name: "张静", IsActive: true},
		{ID: "dave", Name: "刘伟", AreaIDs: []string{"kitchen"}, IsActive: false},
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	require.NoError(t, err)
	return d
}

// newTestEngine 生成从 2024-03-04（周一）开始的 7 天排班表
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	days := BuildGrid(nil, mustDate(t, "2024-03-04"), 7, ClosedDayPolicy{})
	return New(days, testStaff(), testTemplates())
}
