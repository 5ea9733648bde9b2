package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/session"
)

const tokenCookieName = "__shift_board_token"

// statusRecorder 记录响应的状态码和字节数，用于请求日志
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.Info("已处理请求",
			slog.Int("status", rec.status),
			slog.Int("bytes", rec.bytes),
			slog.String("ip", r.RemoteAddr),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", v))
				// 调用栈直接写到标准错误，放进 slog 的属性里不方便阅读
				os.Stderr.Write(debug.Stack())
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// auth 校验登录令牌，把用户 ID 放进 context，由 myInfo 读取
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(tokenCookieName)
		if errors.Is(err, http.ErrNoCookie) {
			h.errorResponse(w, r, "用户未登录")
			return
		}
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		sub, err := h.parseToken(cookie.Value)
		if err != nil {
			h.errorResponse(w, r, "无效的令牌")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), SubCtxKey, sub)))
	})
}

func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub := r.Context().Value(SubCtxKey).(string)

		myInfo, err := h.repository.GetUserByID(sub)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 令牌有效但账号已被删除
			h.errorResponse(w, r, "个人信息不存在")
			return
		case err != nil:
			h.internalServerError(w, r, err)
			return
		case !myInfo.IsActive:
			// 停用前签发的令牌在这里失效
			h.errorResponse(w, r, "账号已停用")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), MyInfoCtx, myInfo)))
	})
}

// editorSession 加载编辑会话，只有打开会话的管理员可以操作它
func (h *Handler) editorSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

		s, err := h.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			h.editorError(w, r, err)
			return
		}
		if s.Owner() == nil || s.Owner().ID != myInfo.ID {
			h.editorError(w, r, session.ErrSessionNotFound)
			return
		}

		ctx := context.WithValue(r.Context(), SessionCtx, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
