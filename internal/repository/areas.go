package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

func (r *Repository) ListAreas() ([]*domain.Area, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT id, name, color, created_at FROM areas ORDER BY name`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := make([]*domain.Area, 0)
	for rows.Next() {
		area := &domain.Area{}
		if err := rows.Scan(&area.ID, &area.Name, &area.Color, &area.CreatedAt); err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return areas, nil
}

func (r *Repository) CreateArea(area *domain.Area) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO areas (name, color)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	return r.dbpool.QueryRowContext(ctx, query, area.Name, area.Color).Scan(&area.ID, &area.CreatedAt)
}
