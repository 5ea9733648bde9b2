package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

func (h *Handler) GetAllPatterns(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.repository.ListPatterns()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有排班模式成功", patterns)
}

// CreatePattern 直接上传一个排班模式，ShiftData 按日期下标排列
func (h *Handler) CreatePattern(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string               `json:"name" validate:"required,max=64"`
		AreaID    *string              `json:"areaId" validate:"omitnil,uuid"`
		ShiftData []domain.StaffShifts `json:"shiftData" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	pattern := &domain.SchedulePattern{
		Name:      req.Name,
		AreaID:    req.AreaID,
		ShiftData: req.ShiftData,
	}

	if err := h.repository.CreatePattern(pattern); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "schedule_patterns_area_id_fkey":
				h.errorResponse(w, r, "区域不存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建排班模式成功", pattern)
}

func (h *Handler) DeletePattern(w http.ResponseWriter, r *http.Request) {
	if err := h.repository.DeletePattern(chi.URLParam(r, "id")); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班模式不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除排班模式成功", nil)
}
