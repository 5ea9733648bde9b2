package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/session"
)

// Repository 是 handler 直接使用的存储操作，由 repository.Repository 实现
type Repository interface {
	GetUserByID(id string) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	UpdateUser(user *domain.User) error
	ListAreas() ([]*domain.Area, error)
	CreateArea(area *domain.Area) error
	ListActiveStaff() ([]*domain.StaffMember, error)
	CreateStaff(member *domain.StaffMember) error
	ListShiftTemplates() ([]*domain.ShiftTemplate, error)
	CreateShiftTemplate(st *domain.ShiftTemplate) error
	ListPatterns() ([]*domain.SchedulePattern, error)
	CreatePattern(pattern *domain.SchedulePattern) error
	DeletePattern(id string) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository Repository
	translator ut.Translator
	sessions   *session.Manager

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, sessions *session.Manager) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		sessions:   sessions,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Patch("/", h.UpdateMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/areas", func(r chi.Router) {
			r.Get("/", h.GetAllAreas)
			r.Post("/", h.CreateArea)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", h.GetAllStaff)
			r.Post("/", h.CreateStaff)
		})

		r.Route("/shift-templates", func(r chi.Router) {
			r.Get("/", h.GetAllShiftTemplates)
			r.Post("/", h.CreateShiftTemplate)
		})

		r.Route("/patterns", func(r chi.Router) {
			r.Get("/", h.GetAllPatterns)
			r.Post("/", h.CreatePattern)
			r.Delete("/{id}", h.DeletePattern)
		})

		r.Route("/editor", func(r chi.Router) {
			r.Post("/", h.OpenEditor)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.editorSession)
				r.Get("/", h.GetEditor)
				r.Delete("/", h.CloseEditor)
				r.Patch("/window", h.ChangeWindow)
				r.Patch("/view", h.SetView)
				r.Post("/assign", h.Assign)
				r.Post("/move", h.Move)
				r.Post("/cycle", h.Cycle)
				r.Post("/remove", h.Remove)
				r.Post("/toggle", h.Toggle)
				r.Post("/copy-previous", h.CopyPrevious)
				r.Post("/clear-day", h.ClearDay)
				r.Post("/clear-all", h.ClearAll)
				r.Post("/generate", h.Generate)
				r.Post("/apply-pattern", h.ApplyPattern)
				r.Post("/save-pattern", h.SavePattern)
				r.Delete("/patterns/{patternID}", h.DeleteEditorPattern)
				r.Post("/save", h.Save)
				r.Post("/undo", h.Undo)
				r.Post("/redo", h.Redo)
				r.Post("/shortcut", h.Shortcut)
				r.Get("/notices", h.GetNotices)
				r.Get("/export", h.Export)
			})
		})
	})
}
