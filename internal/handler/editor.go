package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/autosave"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/history"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/session"
)

func editorSessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(SessionCtx).(*session.Session)
}

// respondView 操作成功后返回最新的排班表，前端据此整体重绘
func (h *Handler) respondView(w http.ResponseWriter, r *http.Request, s *session.Session, msg string) {
	view, err := s.View()
	if err != nil {
		h.editorError(w, r, err)
		return
	}

	h.successResponse(w, r, msg, view)
}

// mutation 解析请求体，执行一次排班修改并返回最新的排班表
func (h *Handler) mutation(w http.ResponseWriter, r *http.Request, req any, msg string, op func(s *session.Session) error) {
	if req != nil {
		if err := h.readJSON(r, req); err != nil {
			h.badRequest(w, r, err)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	s := editorSessionFrom(r)
	if err := op(s); err != nil {
		h.editorError(w, r, err)
		return
	}

	h.respondView(w, r, s, msg)
}

type windowRequest struct {
	AnchorDate string `json:"anchorDate" validate:"omitempty,datetime=2006-01-02"`
	WindowSize int    `json:"windowSize" validate:"gte=0"`
}

func (h *Handler) OpenEditor(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req windowRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s, err := h.sessions.Open(myInfo, req.AnchorDate, req.WindowSize)
	if err != nil {
		h.editorError(w, r, err)
		return
	}

	h.respondView(w, r, s, "打开排班表成功")
}

func (h *Handler) GetEditor(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, editorSessionFrom(r), "获取排班表成功")
}

func (h *Handler) CloseEditor(w http.ResponseWriter, r *http.Request) {
	s := editorSessionFrom(r)

	if err := h.sessions.Close(s.ID()); err != nil {
		h.editorError(w, r, err)
		return
	}

	h.successResponse(w, r, "关闭排班表成功", nil)
}

func (h *Handler) ChangeWindow(w http.ResponseWriter, r *http.Request) {
	var req windowRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s := editorSessionFrom(r)
	if err := s.ChangeWindow(req.AnchorDate, req.WindowSize); err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidWindow), errors.Is(err, session.ErrSessionClosed),
			errors.Is(err, session.ErrWindowChanging):
			h.editorError(w, r, err)
		default:
			// 未保存的修改写入失败，保留当前窗口
			h.logInternalServerError(r, err)
			h.errorResponse(w, r, "保存排班表失败，未切换排班窗口")
		}
		return
	}

	h.respondView(w, r, s, "切换排班窗口成功")
}

func (h *Handler) SetView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AreaFilter *string `json:"areaFilter"`
		Brush      *string `json:"brush"`
	}

	h.mutation(w, r, &req, "更新视图成功", func(s *session.Session) error {
		return s.SetView(req.AreaFilter, req.Brush)
	})
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID    string `json:"staffId" validate:"required"`
		DayIndex   int    `json:"dayIndex" validate:"gte=0"`
		TemplateID string `json:"templateId"`
	}

	h.mutation(w, r, &req, "排班成功", func(s *session.Session) error {
		return s.Assign(req.StaffID, req.DayIndex, req.TemplateID)
	})
}

func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID        string `json:"staffId" validate:"required"`
		SourceDayIndex int    `json:"sourceDayIndex" validate:"gte=0"`
		TargetDayIndex int    `json:"targetDayIndex" validate:"gte=0"`
	}

	h.mutation(w, r, &req, "移动排班成功", func(s *session.Session) error {
		return s.Move(req.StaffID, req.SourceDayIndex, req.TargetDayIndex)
	})
}

func (h *Handler) Cycle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayIndex   int    `json:"dayIndex" validate:"gte=0"`
		StaffID    string `json:"staffId" validate:"required"`
		TemplateID string `json:"templateId"`
	}

	h.mutation(w, r, &req, "切换班次成功", func(s *session.Session) error {
		return s.Cycle(req.DayIndex, req.StaffID, req.TemplateID)
	})
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayIndex int    `json:"dayIndex" validate:"gte=0"`
		StaffID  string `json:"staffId" validate:"required"`
	}

	h.mutation(w, r, &req, "移除排班成功", func(s *session.Session) error {
		return s.Remove(req.DayIndex, req.StaffID)
	})
}

type dayRequest struct {
	DayIndex int `json:"dayIndex" validate:"gte=0"`
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req dayRequest

	h.mutation(w, r, &req, "切换营业状态成功", func(s *session.Session) error {
		return s.Toggle(req.DayIndex)
	})
}

func (h *Handler) CopyPrevious(w http.ResponseWriter, r *http.Request) {
	var req dayRequest

	h.mutation(w, r, &req, "复制前一天排班成功", func(s *session.Session) error {
		return s.CopyPrevious(req.DayIndex)
	})
}

func (h *Handler) ClearDay(w http.ResponseWriter, r *http.Request) {
	var req dayRequest

	h.mutation(w, r, &req, "清空当天排班成功", func(s *session.Session) error {
		return s.ClearDay(req.DayIndex)
	})
}

func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, nil, "清空所有排班成功", func(s *session.Session) error {
		return s.ClearAll()
	})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string   `json:"mode" validate:"required,oneof=uniform random pattern"`
		Pool []string `json:"pool"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s := editorSessionFrom(r)
	filled, err := s.Generate(scheduler.GenerateMode(req.Mode), req.Pool)
	if err != nil {
		h.editorError(w, r, err)
		return
	}

	h.respondView(w, r, s, fmt.Sprintf("已填充 %d 个空位", filled))
}

func (h *Handler) ApplyPattern(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatternID string `json:"patternId" validate:"required"`
	}

	h.mutation(w, r, &req, "应用排班模式成功", func(s *session.Session) error {
		return s.ApplyPattern(req.PatternID)
	})
}

func (h *Handler) SavePattern(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string  `json:"name" validate:"required,max=64"`
		AreaID *string `json:"areaId" validate:"omitnil,uuid"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	pattern, err := editorSessionFrom(r).SavePattern(req.Name, req.AreaID)
	if err != nil {
		h.editorError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存排班模式成功", pattern)
}

func (h *Handler) DeleteEditorPattern(w http.ResponseWriter, r *http.Request) {
	if err := editorSessionFrom(r).DeletePattern(chi.URLParam(r, "patternID")); err != nil {
		h.editorError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班模式成功", nil)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	s := editorSessionFrom(r)

	if err := s.Save(); err != nil {
		switch {
		case errors.Is(err, autosave.ErrClosed):
			h.editorError(w, r, session.ErrSessionClosed)
		default:
			// 修改仍然保留在会话中，可以稍后重试
			h.logInternalServerError(r, err)
			h.errorResponse(w, r, "保存排班表失败")
		}
		return
	}

	h.respondView(w, r, s, "保存排班表成功")
}

func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, nil, "撤销成功", func(s *session.Session) error {
		return s.Undo()
	})
}

func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, nil, "重做成功", func(s *session.Session) error {
		return s.Redo()
	})
}

// Shortcut 处理前端转发的按键，没有匹配到撤销或重做时 action 为空
func (h *Handler) Shortcut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key         string `json:"key" validate:"required"`
		InTextInput bool   `json:"inTextInput"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s := editorSessionFrom(r)
	action, changed, err := s.Shortcut(req.Key, req.InTextInput)
	if err != nil {
		h.editorError(w, r, err)
		return
	}

	view, err := s.View()
	if err != nil {
		h.editorError(w, r, err)
		return
	}

	h.successResponse(w, r, "已处理快捷键", struct {
		Action  history.Action `json:"action"`
		Changed bool           `json:"changed"`
		View    *session.View  `json:"view"`
	}{action, changed, view})
}

func (h *Handler) GetNotices(w http.ResponseWriter, r *http.Request) {
	notices, err := editorSessionFrom(r).Notices()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取提示信息成功", notices)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	s := editorSessionFrom(r)

	data, err := s.Export()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	view, err := s.View()
	if err != nil {
		h.editorError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="schedule-%s.xlsx"`, view.AnchorDate))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logInternalServerError(r, err)
	}
}
