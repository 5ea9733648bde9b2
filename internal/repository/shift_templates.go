package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// ListShiftTemplates 按 position、名称排序返回所有班次模板
// 这个顺序决定了轮换班次和 pattern 生成时使用模板的顺序
func (r *Repository) ListShiftTemplates() ([]*domain.ShiftTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT 
			st.id,
			st.name,
			st.short_code,
			st.color,
			st.position,
			st.created_at,
			st.version,
			str.start_time,
			str.end_time
		FROM shift_templates st
		LEFT JOIN shift_template_ranges str ON st.id = str.template_id
		ORDER BY st.position, st.name, st.id, str.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]*domain.ShiftTemplate, 0)
	templatesMap := make(map[string]*domain.ShiftTemplate)

	for rows.Next() {
		var row struct {
			ID        string
			Name      string
			ShortCode string
			Color     string
			Position  int32
			CreatedAt time.Time
			Version   int32

			StartTime sql.NullString
			EndTime   sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.ShortCode,
			&row.Color,
			&row.Position,
			&row.CreatedAt,
			&row.Version,
			&row.StartTime,
			&row.EndTime,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		template, exists := templatesMap[row.ID]
		if !exists {
			// 第一次查到这个模板
			template = &domain.ShiftTemplate{
				ID:        row.ID,
				Name:      row.Name,
				ShortCode: row.ShortCode,
				Color:     row.Color,
				Position:  row.Position,
				CreatedAt: row.CreatedAt,
				Version:   row.Version,
				Ranges:    make([]domain.TimeRange, 0),
			}
			templatesMap[row.ID] = template
			templates = append(templates, template)
		}

		// 模板没有任何时间段，冲突检测时视为不冲突
		if !row.StartTime.Valid {
			continue
		}

		template.Ranges = append(template.Ranges, domain.TimeRange{
			Start: row.StartTime.String,
			End:   row.EndTime.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) CreateShiftTemplate(st *domain.ShiftTemplate) error {
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
		INSERT INTO shift_templates (name, short_code, color, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`
	params := []any{st.Name, st.ShortCode, st.Color, st.Position}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&st.ID, &st.CreatedAt, &st.Version); err != nil {
		return err
	}

	for _, tr := range st.Ranges {
		query = `
			INSERT INTO shift_template_ranges (template_id, start_time, end_time)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, st.ID, tr.Start, tr.End); err != nil {
			return err
		}
	}

	return tx.Commit()
}
