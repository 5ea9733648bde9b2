package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/history"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/session"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// fakeRepository 同时实现 handler 和编辑会话需要的存储操作
type fakeRepository struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	areas     []*domain.Area
	staff     []*domain.StaffMember
	templates []*domain.ShiftTemplate
	records   map[string]domain.ScheduleRecord
	patterns  map[string]*domain.SchedulePattern
	nextID    int
}

func newFakeRepository(t *testing.T) *fakeRepository {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	return &fakeRepository{
		users: map[string]*domain.User{
			"admin-1": {ID: "admin-1", Username: "admin", PasswordHash: string(hash), FullName: "管理员", Email: "admin@example.com", IsActive: true},
			"admin-2": {ID: "admin-2", Username: "other", PasswordHash: string(hash), FullName: "另一位管理员", Email: "other@example.com", IsActive: true},
		},
		areas: []*domain.Area{{ID: "front", Name: "前厅", Color: "#ff0000"}},
		staff: []*domain.StaffMember{
			{ID: "alice", Name: "王芳", AreaIDs: []string{"front"}, IsActive: true},
			{ID: "bob", Name: "李强", AreaIDs: []string{"front"}, IsActive: true},
		},
		templates: []*domain.ShiftTemplate{
			{ID: "morning", Name: "早班", ShortCode: "ZB", Ranges: []domain.TimeRange{{Start: "09:00", End: "14:00"}}},
			{ID: "late", Name: "晚班", ShortCode: "WB", Ranges: []domain.TimeRange{{Start: "13:00", End: "18:00"}}},
		},
		records:  map[string]domain.ScheduleRecord{},
		patterns: map[string]*domain.SchedulePattern{},
	}
}

func (f *fakeRepository) GetUserByID(id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepository) GetUserByUsername(username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) UpdateUser(user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeRepository) ListAreas() ([]*domain.Area, error) {
	return f.areas, nil
}

func (f *fakeRepository) CreateArea(area *domain.Area) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	area.ID = "area-new"
	f.areas = append(f.areas, area)
	return nil
}

func (f *fakeRepository) ListActiveStaff() ([]*domain.StaffMember, error) {
	return f.staff, nil
}

func (f *fakeRepository) CreateStaff(member *domain.StaffMember) error {
	member.ID = "staff-new"
	return nil
}

func (f *fakeRepository) ListShiftTemplates() ([]*domain.ShiftTemplate, error) {
	return f.templates, nil
}

func (f *fakeRepository) CreateShiftTemplate(st *domain.ShiftTemplate) error {
	st.ID = "template-new"
	return nil
}

func (f *fakeRepository) GetScheduleInRange(startDate string, endDate string) ([]domain.ScheduleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records := make([]domain.ScheduleRecord, 0)
	for date, record := range f.records {
		if date >= startDate && date <= endDate {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records, nil
}

func (f *fakeRepository) UpsertSchedules(records []domain.ScheduleRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, record := range records {
		f.records[record.Date] = record
	}
	return nil
}

func (f *fakeRepository) ListPatterns() ([]*domain.SchedulePattern, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	patterns := make([]*domain.SchedulePattern, 0, len(f.patterns))
	for _, p := range f.patterns {
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func (f *fakeRepository) GetPattern(id string) (*domain.SchedulePattern, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.patterns[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeRepository) CreatePattern(pattern *domain.SchedulePattern) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	pattern.ID = fmt.Sprintf("pattern-%d", f.nextID)
	f.patterns[pattern.ID] = pattern
	return nil
}

func (f *fakeRepository) DeletePattern(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.patterns[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.patterns, id)
	return nil
}

func (f *fakeRepository) recordCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type testServer struct {
	handler  *Handler
	repo     *fakeRepository
	sessions *session.Manager
}

func newTestServer(t *testing.T) *testServer {
	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.JWT.Expiration = 3600

	repo := newFakeRepository(t)
	sessions := session.NewManager(repo, nil, nil, session.Options{
		WindowSize:    7,
		MaxWindowSize: 31,
		QuietPeriod:   time.Hour,
		HistoryDepth:  history.DefaultMaxDepth,
		KeyMap:        history.DefaultKeyMap(),
	}, slog.Default())
	t.Cleanup(sessions.CloseAll)

	h, err := NewHandler(cfg, repo, sessions)
	require.NoError(t, err)
	h.RegisterRoutes()

	return &testServer{handler: h, repo: repo, sessions: sessions}
}

func tokenCookie(t *testing.T, userID string) *http.Cookie {
	return signedCookie(t, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		Subject:   userID,
	})
}

func signedCookie(t *testing.T, claims jwt.RegisteredClaims) *http.Cookie {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return &http.Cookie{Name: tokenCookieName, Value: ss}
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (ts *testServer) do(t *testing.T, method string, path string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, testResponse) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader([]byte("{}"))
	}

	req := httptest.NewRequest(method, path, reader)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.handler.Mux.ServeHTTP(rec, req)

	var resp testResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func (ts *testServer) openEditor(t *testing.T, cookie *http.Cookie) *session.View {
	_, resp := ts.do(t, http.MethodPost, "/editor", map[string]any{"anchorDate": "2024-03-04", "windowSize": 7}, cookie)
	require.True(t, resp.Success, resp.Message)

	var view session.View
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	return &view
}

func decodeView(t *testing.T, resp testResponse) *session.View {
	var view session.View
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	return &view
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "password123"}, nil)
	require.True(t, resp.Success, resp.Message)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokenCookieName {
			found = true
			assert.True(t, c.HttpOnly)
			assert.NotEmpty(t, c.Value)
		}
	}
	assert.True(t, found)

	_, resp = ts.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "wrong"}, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "用户名不存在或密码错误", resp.Message)

	_, resp = ts.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "nobody", "password": "wrong"}, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "用户名不存在或密码错误", resp.Message)
}

func TestLoginValidationMessageIsTranslated(t *testing.T) {
	ts := newTestServer(t)

	_, resp := ts.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin"}, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "Password为必填字段", resp.Message)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	_, resp := ts.do(t, http.MethodGet, "/areas", nil, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "用户未登录", resp.Message)

	_, resp = ts.do(t, http.MethodGet, "/areas", nil, &http.Cookie{Name: tokenCookieName, Value: "garbage"})
	assert.False(t, resp.Success)
	assert.Equal(t, "无效的令牌", resp.Message)

	// 缺少签发者或过期时间的令牌都不接受
	_, resp = ts.do(t, http.MethodGet, "/areas", nil, signedCookie(t, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		Subject:   "admin-1",
	}))
	assert.Equal(t, "无效的令牌", resp.Message)
	_, resp = ts.do(t, http.MethodGet, "/areas", nil, signedCookie(t, jwt.RegisteredClaims{
		Issuer:  tokenIssuer,
		Subject: "admin-1",
	}))
	assert.Equal(t, "无效的令牌", resp.Message)
	_, resp = ts.do(t, http.MethodGet, "/areas", nil, signedCookie(t, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		Subject:   "admin-1",
	}))
	assert.Equal(t, "无效的令牌", resp.Message)

	_, resp = ts.do(t, http.MethodGet, "/areas", nil, tokenCookie(t, "admin-1"))
	assert.True(t, resp.Success)
}

func TestLoginTokenIsAcceptedAndLogoutClearsIt(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "password123"}, nil)
	require.True(t, resp.Success, resp.Message)

	var issued *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokenCookieName {
			issued = c
		}
	}
	require.NotNil(t, issued)

	_, resp = ts.do(t, http.MethodGet, "/my-info", nil, issued)
	require.True(t, resp.Success, resp.Message)

	rec, resp = ts.do(t, http.MethodPost, "/auth/logout", nil, issued)
	require.True(t, resp.Success, resp.Message)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
}

func TestUpdateMyPassword(t *testing.T) {
	ts := newTestServer(t)
	cookie := tokenCookie(t, "admin-1")

	_, resp := ts.do(t, http.MethodPatch, "/my-info/password", map[string]string{"oldPassword": "wrong", "newPassword": "newpassword"}, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "旧密码错误", resp.Message)

	_, resp = ts.do(t, http.MethodPatch, "/my-info/password", map[string]string{"oldPassword": "password123", "newPassword": "newpassword"}, cookie)
	require.True(t, resp.Success, resp.Message)

	_, resp = ts.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "newpassword"}, nil)
	assert.True(t, resp.Success, resp.Message)
}

func TestUpdateMyInfo(t *testing.T) {
	ts := newTestServer(t)
	cookie := tokenCookie(t, "admin-1")

	_, resp := ts.do(t, http.MethodPatch, "/my-info", map[string]string{"email": "not-an-email"}, cookie)
	assert.False(t, resp.Success)

	_, resp = ts.do(t, http.MethodPatch, "/my-info", map[string]string{"email": "boss@example.com"}, cookie)
	require.True(t, resp.Success, resp.Message)

	_, resp = ts.do(t, http.MethodGet, "/my-info", nil, cookie)
	require.True(t, resp.Success, resp.Message)
	var me domain.User
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	assert.Equal(t, "boss@example.com", me.Email)
	assert.Equal(t, "管理员", me.FullName)
}

func TestCreateShiftTemplateDerivesShortCode(t *testing.T) {
	ts := newTestServer(t)
	cookie := tokenCookie(t, "admin-1")

	_, resp := ts.do(t, http.MethodPost, "/shift-templates", map[string]any{
		"name":   "早班",
		"color":  "#00ff00",
		"ranges": []map[string]string{{"start": "08:00", "end": "12:00"}},
	}, cookie)
	require.True(t, resp.Success, resp.Message)

	var st domain.ShiftTemplate
	require.NoError(t, json.Unmarshal(resp.Data, &st))
	assert.Equal(t, "ZB", st.ShortCode)

	_, resp = ts.do(t, http.MethodPost, "/shift-templates", map[string]any{
		"name":   "倒班",
		"color":  "#00ff00",
		"ranges": []map[string]string{{"start": "12:00", "end": "08:00"}},
	}, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "时间段 1 的结束时间必须晚于开始时间", resp.Message)
}

func TestEditorAssignAndConflict(t *testing.T) {
	ts := newTestServer(t)
	cookie := tokenCookie(t, "admin-1")

	view := ts.openEditor(t, cookie)
	require.Len(t, view.Days, 7)
	assert.Equal(t, "2024-03-04", view.AnchorDate)
	assert.Empty(t, view.Cells)

	base := "/editor/" + view.ID

	_, resp := ts.do(t, http.MethodPost, base+"/assign", map[string]any{"staffId": "alice", "dayIndex": 0, "templateId": "morning"}, cookie)
	require.True(t, resp.Success, resp.Message)
	view = decodeView(t, resp)
	require.Len(t, view.Cells, 1)
	assert.Equal(t, "morning", view.Cells[0].TemplateID)
	assert.True(t, view.Dirty)
	assert.True(t, view.CanUndo)

	_, resp = ts.do(t, http.MethodPost, base+"/assign", map[string]any{"staffId": "alice", "dayIndex": 0, "templateId": "late"}, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "王芳 在 2024-03-04 已有时间重叠的班次", resp.Message)

	_, resp = ts.do(t, http.MethodPost, base+"/assign", map[string]any{"staffId": "alice", "dayIndex": 9}, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "日期下标超出排班窗口", resp.Message)

	_, resp = ts.do(t, http.MethodGet, base, nil, cookie)
	require.True(t, resp.Success)
	view = decodeView(t, resp)
	assert.Equal(t, "morning", view.Days[0].StaffShifts["alice"].TemplateID)
}

func TestEditorUndoRedoAndShortcut(t *testing.T) {
	ts := newTestServer(t)
	cookie := tokenCookie(t, "admin-1")

	base := "/editor/" + ts.openEditor(t, cookie).ID

	_, resp := ts.do(t, http.MethodPost, base+"/undo", nil, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "没有可以撤销的操作", resp.Message)

	_, resp = ts.do(t, http.MethodPost, base+"/assign", map[string]any{"staffId": "bob", "dayIndex": 2}, cookie)
	require.True(t, resp.Success, resp.Message)

	_, resp = ts.do(t, http.MethodPost, base+"/undo", nil, cookie)
	require.True(t, resp.Success, resp.Message)
	view := decodeView(t, resp)
	assert.Empty(t, view.Cells)
	assert.True(t, view.CanRedo)

	_, resp = ts.do(t, http.MethodPost, base+"/shortcut", map[string]any{"key": "ctrl+y"}, cookie)
	require.True(t, resp.Success, resp.Message)

	var result struct {
		Action  string        `json:"action"`
		Changed bool          `json:"changed"`
		View    *session.View `json:"view"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "redo", result.Action)
	assert.True(t, result.Changed)
	require.Len(t, result.View.Cells, 1)
	assert.Equal(t, "bob", result.View.Cells[0].StaffID)

	_, resp = ts.do(t, http.MethodPost, base+"/shortcut", map[string]any{"key": "ctrl+z", "inTextInput": true}, cookie)
	require.True(t, resp.Success, resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "", result.Action)
	assert.False(t, result.Changed)
}

func TestEditorSaveAndGenerate(t *testing.T) {
	ts := newTestServer(t)
	cookie := tokenCookie(t, "admin-1")

	base := "/editor/" + ts.openEditor(t, cookie).ID

	_, resp := ts.do(t, http.MethodPost, base+"/generate", map[string]any{"mode": "uniform", "pool": []string{"late"}}, cookie)
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, "已填充 14 个空位", resp.Message)

	_, resp = ts.do(t, http.MethodPost, base+"/generate", map[string]any{"mode": "sideways"}, cookie)
	assert.False(t, resp.Success)

	_, resp = ts.do(t, http.MethodPost, base+"/save", nil, cookie)
	require.True(t, resp.Success, resp.Message)
	assert.False(t, decodeView(t, resp).Dirty)
	assert.Equal(t, 7, ts.repo.recordCount())
}

func TestEditorPatterns(t *testing.T) {
	ts := newTestServer(t)
	cookie := tokenCookie(t, "admin-1")

	base := "/editor/" + ts.openEditor(t, cookie).ID

	_, resp := ts.do(t, http.MethodPost, base+"/assign", map[string]any{"staffId": "alice", "dayIndex": 1, "templateId": "late"}, cookie)
	require.True(t, resp.Success, resp.Message)

	_, resp = ts.do(t, http.MethodPost, base+"/save-pattern", map[string]any{"name": "常规周"}, cookie)
	require.True(t, resp.Success, resp.Message)
	var pattern domain.SchedulePattern
	require.NoError(t, json.Unmarshal(resp.Data, &pattern))
	require.NotEmpty(t, pattern.ID)

	_, resp = ts.do(t, http.MethodPost, base+"/clear-all", nil, cookie)
	require.True(t, resp.Success, resp.Message)
	assert.Empty(t, decodeView(t, resp).Cells)

	_, resp = ts.do(t, http.MethodPost, base+"/apply-pattern", map[string]any{"patternId": pattern.ID}, cookie)
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, "late", decodeView(t, resp).Days[1].StaffShifts["alice"].TemplateID)

	_, resp = ts.do(t, http.MethodPost, base+"/apply-pattern", map[string]any{"patternId": "missing"}, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "排班模式不存在", resp.Message)

	_, resp = ts.do(t, http.MethodDelete, "/patterns/"+pattern.ID, nil, cookie)
	require.True(t, resp.Success, resp.Message)

	_, resp = ts.do(t, http.MethodDelete, "/patterns/"+pattern.ID, nil, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "排班模式不存在", resp.Message)
}

func TestEditorBelongsToOwner(t *testing.T) {
	ts := newTestServer(t)

	base := "/editor/" + ts.openEditor(t, tokenCookie(t, "admin-1")).ID

	_, resp := ts.do(t, http.MethodGet, base, nil, tokenCookie(t, "admin-2"))
	assert.False(t, resp.Success)
	assert.Equal(t, session.ErrSessionNotFound.Error(), resp.Message)

	_, resp = ts.do(t, http.MethodDelete, base, nil, tokenCookie(t, "admin-1"))
	require.True(t, resp.Success, resp.Message)
	assert.Zero(t, ts.sessions.Len())

	_, resp = ts.do(t, http.MethodGet, base, nil, tokenCookie(t, "admin-1"))
	assert.False(t, resp.Success)
	assert.Equal(t, session.ErrSessionNotFound.Error(), resp.Message)
}

func TestEditorChangeWindow(t *testing.T) {
	ts := newTestServer(t)
	cookie := tokenCookie(t, "admin-1")

	base := "/editor/" + ts.openEditor(t, cookie).ID

	_, resp := ts.do(t, http.MethodPatch, base+"/window", map[string]any{"anchorDate": "2024/03/11"}, cookie)
	assert.False(t, resp.Success)

	_, resp = ts.do(t, http.MethodPatch, base+"/window", map[string]any{"anchorDate": "2024-03-11", "windowSize": 100}, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, session.ErrInvalidWindow.Error(), resp.Message)

	_, resp = ts.do(t, http.MethodPost, base+"/assign", map[string]any{"staffId": "alice", "dayIndex": 0}, cookie)
	require.True(t, resp.Success, resp.Message)

	_, resp = ts.do(t, http.MethodPatch, base+"/window", map[string]any{"anchorDate": "2024-03-11", "windowSize": 14}, cookie)
	require.True(t, resp.Success, resp.Message)
	view := decodeView(t, resp)
	assert.Equal(t, "2024-03-11", view.AnchorDate)
	assert.Len(t, view.Days, 14)
	assert.False(t, view.CanUndo)
	assert.Equal(t, 7, ts.repo.recordCount())
}

func TestEditorExport(t *testing.T) {
	ts := newTestServer(t)
	cookie := tokenCookie(t, "admin-1")

	base := "/editor/" + ts.openEditor(t, cookie).ID

	rec, _ := ts.do(t, http.MethodGet, base+"/export", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="schedule-2024-03-04.xlsx"`, rec.Header().Get("Content-Disposition"))
	// xlsx 是 zip 文件
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestEditorErrorFallsBackToInternalServerError(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ts.handler.editorError(rec, req, errors.New("连接已断开"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
