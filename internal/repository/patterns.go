package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

func scanPattern(scan func(dst ...any) error) (*domain.SchedulePattern, error) {
	var (
		pattern domain.SchedulePattern
		areaID  sql.NullString
		raw     []byte
	)
	if err := scan(&pattern.ID, &pattern.Name, &areaID, &raw, &pattern.CreatedAt); err != nil {
		return nil, err
	}

	if areaID.Valid {
		pattern.AreaID = &areaID.String
	}
	pattern.ShiftData = make([]domain.StaffShifts, 0)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &pattern.ShiftData); err != nil {
			return nil, err
		}
	}

	return &pattern, nil
}

func (r *Repository) ListPatterns() ([]*domain.SchedulePattern, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, area_id, shift_data, created_at
		FROM schedule_patterns
		ORDER BY created_at DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patterns := make([]*domain.SchedulePattern, 0)
	for rows.Next() {
		pattern, err := scanPattern(rows.Scan)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return patterns, nil
}

func (r *Repository) GetPattern(id string) (*domain.SchedulePattern, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, area_id, shift_data, created_at
		FROM schedule_patterns
		WHERE id = $1
	`

	return scanPattern(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

func (r *Repository) CreatePattern(pattern *domain.SchedulePattern) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	data, err := json.Marshal(pattern.ShiftData)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO schedule_patterns (name, area_id, shift_data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING id, created_at
	`

	return r.dbpool.QueryRowContext(ctx, query, pattern.Name, pattern.AreaID, string(data)).Scan(&pattern.ID, &pattern.CreatedAt)
}

// DeletePattern 删除排班模式，模式不存在时返回 sql.ErrNoRows
func (r *Repository) DeletePattern(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM schedule_patterns WHERE id = $1`

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
