package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// ListActiveStaff 返回所有在职员工，按花名册顺序排列
// 员工所属的区域按 staff_areas.position 排列，第一个区域即默认区域
func (r *Repository) ListActiveStaff() ([]*domain.StaffMember, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			s.id,
			s.name,
			s.role,
			s.is_active,
			sa.area_id
		FROM staff s
		LEFT JOIN staff_areas sa ON s.id = sa.staff_id
		WHERE s.is_active = TRUE
		ORDER BY s.position, s.name, s.id, sa.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// 用切片保持顺序，用 map 找到已经解析过的员工
	staff := make([]*domain.StaffMember, 0)
	staffMap := make(map[string]*domain.StaffMember)

	for rows.Next() {
		var row struct {
			ID       string
			Name     string
			Role     string
			IsActive bool
			AreaID   sql.NullString
		}

		if err := rows.Scan(&row.ID, &row.Name, &row.Role, &row.IsActive, &row.AreaID); err != nil {
			return nil, err
		}

		member, exists := staffMap[row.ID]
		if !exists {
			member = &domain.StaffMember{
				ID:       row.ID,
				Name:     row.Name,
				Role:     row.Role,
				IsActive: row.IsActive,
				AreaIDs:  make([]string, 0),
			}
			staffMap[row.ID] = member
			staff = append(staff, member)
		}

		// 员工不属于任何区域
		if !row.AreaID.Valid {
			continue
		}

		member.AreaIDs = append(member.AreaIDs, row.AreaID.String)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staff, nil
}

func (r *Repository) CreateStaff(member *domain.StaffMember) error {
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
		INSERT INTO staff (name, role, position)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM staff))
		RETURNING id, is_active
	`
	if err := tx.QueryRowContext(ctx, query, member.Name, member.Role).Scan(&member.ID, &member.IsActive); err != nil {
		return err
	}

	for i, areaID := range member.AreaIDs {
		query = `
			INSERT INTO staff_areas (staff_id, area_id, position)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, member.ID, areaID, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}
