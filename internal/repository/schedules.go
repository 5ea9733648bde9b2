package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// GetScheduleInRange 返回 [startDate, endDate] 范围内所有已保存的排班记录
// staff_shifts 中的旧格式值在反序列化时统一转换为 ShiftAssignment
func (r *Repository) GetScheduleInRange(startDate string, endDate string) ([]domain.ScheduleRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT to_char(date, 'YYYY-MM-DD'), status, staff_shifts
		FROM schedules
		WHERE date BETWEEN $1::date AND $2::date
		ORDER BY date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.ScheduleRecord, 0)
	for rows.Next() {
		var (
			record domain.ScheduleRecord
			raw    []byte
		)
		if err := rows.Scan(&record.Date, &record.Status, &raw); err != nil {
			return nil, err
		}

		record.StaffShifts = domain.StaffShifts{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &record.StaffShifts); err != nil {
				// 整个字段无法解析时按没有排班处理，不影响其他日期
				slog.Warn("无法解析排班数据", slog.String("date", record.Date), slog.String("error", err.Error()))
				record.StaffShifts = domain.StaffShifts{}
			}
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// UpsertSchedules 在一个事务中按日期整体覆盖排班记录
// 失败时按固定次数重试，超过次数后返回最后一次的错误
func (r *Repository) UpsertSchedules(records []domain.ScheduleRecord) error {
	if len(records) == 0 {
		return nil
	}

	attempts := r.cfg.Database.CommitRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = r.upsertSchedules(records); err == nil {
			return nil
		}

		slog.Warn("保存排班表失败，准备重试", slog.Int("attempt", attempt), slog.String("error", err.Error()))
	}

	return err
}

func (r *Repository) upsertSchedules(records []domain.ScheduleRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO schedules (date, status, staff_shifts)
		VALUES ($1::date, $2, $3::jsonb)
		ON CONFLICT (date) DO UPDATE
		SET
			status = EXCLUDED.status,
			staff_shifts = EXCLUDED.staff_shifts,
			updated_at = NOW()
	`

	for _, record := range records {
		shifts := record.StaffShifts
		if shifts == nil {
			shifts = domain.StaffShifts{}
		}
		data, err := json.Marshal(shifts)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, record.Date, string(record.Status), string(data)); err != nil {
			return err
		}
	}

	return tx.Commit()
}
