package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/utils"
)

func (h *Handler) GetAllShiftTemplates(w http.ResponseWriter, r *http.Request) {
	sts, err := h.repository.ListShiftTemplates()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有班次模板成功", sts)
}

func (h *Handler) CreateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required,max=32"`
		ShortCode string `json:"shortCode"`
		Color     string `json:"color" validate:"required,hexcolor"`
		Position  int32  `json:"position" validate:"gte=0"`
		Ranges    []struct {
			Start string `json:"start" validate:"required"`
			End   string `json:"end" validate:"required"`
		} `json:"ranges" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	st := &domain.ShiftTemplate{
		Name:      req.Name,
		ShortCode: req.ShortCode,
		Color:     req.Color,
		Position:  req.Position,
		Ranges:    make([]domain.TimeRange, 0, len(req.Ranges)),
	}
	for _, tr := range req.Ranges {
		st.Ranges = append(st.Ranges, domain.TimeRange{Start: tr.Start, End: tr.End})
	}

	// 没有填写简称时根据名称生成
	if st.ShortCode == "" {
		st.ShortCode = utils.ShortCodeFromName(st.Name)
	}

	if err := utils.ValidateShiftTemplate(st); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShiftTemplate(st); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shift_templates_name_key":
				h.errorResponse(w, r, "班次模板名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建班次模板成功", st)
}
