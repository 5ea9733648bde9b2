package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

func (h *Handler) GetAllAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.repository.ListAreas()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有区域成功", areas)
}

func (h *Handler) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required,max=32"`
		Color string `json:"color" validate:"required,hexcolor"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	area := &domain.Area{
		Name:  req.Name,
		Color: req.Color,
	}

	if err := h.repository.CreateArea(area); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "areas_name_key":
				h.errorResponse(w, r, "区域名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建区域成功", area)
}

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.repository.ListActiveStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有员工成功", staff)
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string   `json:"name" validate:"required,max=32"`
		Role    string   `json:"role" validate:"max=32"`
		AreaIDs []string `json:"areaIds" validate:"dive,uuid"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	member := &domain.StaffMember{
		Name:     req.Name,
		Role:     req.Role,
		AreaIDs:  req.AreaIDs,
		IsActive: true,
	}
	if member.AreaIDs == nil {
		member.AreaIDs = []string{}
	}

	if err := h.repository.CreateStaff(member); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "staff_areas_area_id_fkey":
				h.errorResponse(w, r, "区域不存在")
			case "staff_areas_pkey":
				h.errorResponse(w, r, "区域重复")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建员工成功", member)
}
