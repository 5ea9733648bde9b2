package session

import (
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// Store 是编辑会话依赖的持久化操作，由 repository.Repository 实现
type Store interface {
	ListActiveStaff() ([]*domain.StaffMember, error)
	ListAreas() ([]*domain.Area, error)
	ListShiftTemplates() ([]*domain.ShiftTemplate, error)
	GetScheduleInRange(startDate string, endDate string) ([]domain.ScheduleRecord, error)
	UpsertSchedules(records []domain.ScheduleRecord) error
	GetPattern(id string) (*domain.SchedulePattern, error)
	CreatePattern(pattern *domain.SchedulePattern) error
	DeletePattern(id string) error
}

// NoticeStore 暂存展示给管理员的提示，由 notice.Store 实现
type NoticeStore interface {
	Push(sessionID string, n domain.Notice) error
	List(sessionID string) ([]domain.Notice, error)
	Delete(sessionID string) error
}

// Publisher 在手动保存后发送通知，由 event.Publisher 实现
type Publisher interface {
	ScheduleCommitted(to string, data domain.ScheduleCommittedMailData) error
}
