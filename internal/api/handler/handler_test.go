package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"feedback-system/backend/config"
	"feedback-system/backend/internal/api/middleware"
	"feedback-system/backend/internal/dto"
	"feedback-system/backend/internal/model"
	"feedback-system/backend/internal/service"
	pkgerrors "feedback-system/backend/pkg/errors"
	"feedback-system/backend/pkg/mail"
	"feedback-system/backend/pkg/response"
	"feedback-system/backend/pkg/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validator.Register(); err != nil {
		panic(err)
	}
}

var errUnavailable = fmt.Errorf("%w: connection refused", pkgerrors.ErrStoreUnavailable)

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult  *dto.LoginResponse
	loginErr     error
	registerUser *model.User
	registerErr  error
	currentUser  *model.User
	currentErr   error
	logoutErr    error
	loggedOutJTI string
	lastLoginReq *dto.LoginRequest
}

func (m *mockAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	m.lastLoginReq = req
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RegisterUser(_ context.Context, _ *dto.RegisterUserRequest) (*model.User, error) {
	return m.registerUser, m.registerErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*model.User, error) {
	return m.currentUser, m.currentErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.loggedOutJTI = jti
	return m.logoutErr
}
func (m *mockAuthService) EnsureBootstrapAdmin(_ context.Context, _ config.BootstrapAdminConfig) error {
	return nil
}

// ── Mock FeedbackService ──

type mockFeedbackService struct {
	feedback    *model.Feedback
	list        []model.Feedback
	err         error
	createReq   *dto.CreateFeedbackRequest
	studentArg  string
	lastWeek    bool
	recentLimit int
	urgentArg   *bool
	avg         float64
}

func (m *mockFeedbackService) CreateFeedback(_ context.Context, req *dto.CreateFeedbackRequest) (*model.Feedback, error) {
	m.createReq = req
	return m.feedback, m.err
}
func (m *mockFeedbackService) GetFeedbackByID(_ context.Context, _ string) (*model.Feedback, error) {
	return m.feedback, m.err
}
func (m *mockFeedbackService) GetFeedbacksByStudent(_ context.Context, email string) ([]model.Feedback, error) {
	m.studentArg = email
	return m.list, m.err
}
func (m *mockFeedbackService) GetFeedbacksByCourse(_ context.Context, _ string) ([]model.Feedback, error) {
	return m.list, m.err
}
func (m *mockFeedbackService) GetAllFeedbacks(_ context.Context) ([]model.Feedback, error) {
	return m.list, m.err
}
func (m *mockFeedbackService) GetUrgentFeedbacks(_ context.Context) ([]model.Feedback, error) {
	return m.list, m.err
}
func (m *mockFeedbackService) GetLastWeekFeedbacks(_ context.Context) ([]model.Feedback, error) {
	m.lastWeek = true
	return m.list, m.err
}
func (m *mockFeedbackService) GetFeedbacksBetween(_ context.Context, _, _ time.Time) ([]model.Feedback, error) {
	return m.list, m.err
}
func (m *mockFeedbackService) GetRecentFeedbacks(_ context.Context, limit int) ([]model.Feedback, error) {
	m.recentLimit = limit
	return m.list, m.err
}
func (m *mockFeedbackService) UpdateUrgency(_ context.Context, _ string, urgent bool) (*model.Feedback, error) {
	m.urgentArg = &urgent
	return m.feedback, m.err
}
func (m *mockFeedbackService) CountAllFeedbacks(_ context.Context) (int64, error) {
	return int64(len(m.list)), m.err
}
func (m *mockFeedbackService) CountUrgentFeedbacks(_ context.Context) (int64, error) {
	return 0, m.err
}
func (m *mockFeedbackService) CalculateOverallAverageRating(_ context.Context) (float64, error) {
	return m.avg, m.err
}
func (m *mockFeedbackService) CalculateAverageRatingByCourse(_ context.Context, _ string) (float64, error) {
	return m.avg, m.err
}

// ── Mock ReportService ──

type mockReportService struct {
	weekly *dto.WeeklyReport
	full   *dto.FullReport
	text   string
	stats  *dto.StatsResponse
	buf    *bytes.Buffer
	sent   *dto.SendReportResponse
	err    error
}

func (m *mockReportService) GenerateWeeklyReport(_ context.Context) (*dto.WeeklyReport, error) {
	return m.weekly, m.err
}
func (m *mockReportService) GenerateFullReport(_ context.Context) (*dto.FullReport, error) {
	return m.full, m.err
}
func (m *mockReportService) GenerateWeeklyReportText(_ context.Context) (string, error) {
	return m.text, m.err
}
func (m *mockReportService) GetStats(_ context.Context) (*dto.StatsResponse, error) {
	return m.stats, m.err
}
func (m *mockReportService) ExportWeeklyReport(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, "weekly_report_20260309.xlsx", m.err
}
func (m *mockReportService) SendWeeklyReport(_ context.Context) (*dto.SendReportResponse, error) {
	return m.sent, m.err
}

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

// withIdentity 模拟 JWT 中间件注入的身份
func withIdentity(userID, email, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxEmail, email)
		c.Set(middleware.CtxRole, role)
		c.Set(middleware.CtxTokenJTI, "jti-1")
		c.Set(middleware.CtxTokenExp, time.Now().Add(time.Minute))
		c.Next()
	}
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析错误响应失败: %v (%s)", err, w.Body.String())
	}
	return body
}

func sampleFeedback() *model.Feedback {
	fb := &model.Feedback{
		FeedbackID:   "fb-1",
		StudentName:  "Ana",
		StudentEmail: "ana@uni.edu",
		Course:       "CS101",
		Rating:       1,
		Comment:      "bad",
		Urgent:       true,
	}
	fb.Stamp(time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
	return fb
}

// ═══════════════════════════════════════════════════════════
// AuthHandler
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login(t *testing.T) {
	svc := &mockAuthService{loginResult: &dto.LoginResponse{Token: "tok", Type: "Bearer", Email: "ana@uni.edu", Name: "Ana", Role: "STUDENT"}}
	r := gin.New()
	r.POST("/login", NewAuthHandler(svc).Login)

	w := doRequest(r, http.MethodPost, "/login", `{"email":"ana@uni.edu","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["token"] != "tok" || resp["type"] != "Bearer" || resp["role"] != "STUDENT" {
		t.Errorf("期望顶层返回 token/type/role，实际 %v", resp)
	}
}

func TestAuthHandler_LoginErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   int
	}{
		{"邮箱格式错误", `{"email":"nope","password":"x"}`, nil, http.StatusBadRequest, 10001},
		{"缺少密码", `{"email":"ana@uni.edu"}`, nil, http.StatusBadRequest, 10001},
		{"凭证错误", `{"email":"ana@uni.edu","password":"x"}`, service.ErrInvalidCredentials, http.StatusUnauthorized, 11001},
		{"存储不可用", `{"email":"ana@uni.edu","password":"x"}`, errUnavailable, http.StatusServiceUnavailable, 50300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/login", NewAuthHandler(&mockAuthService{loginErr: tt.err}).Login)

			w := doRequest(r, http.MethodPost, "/login", tt.body)
			if w.Code != tt.status {
				t.Fatalf("期望 %d，实际 %d", tt.status, w.Code)
			}
			if body := decodeError(t, w); body.Code != tt.code {
				t.Errorf("期望 code=%d，实际 %d", tt.code, body.Code)
			}
		})
	}
}

func TestAuthHandler_Health(t *testing.T) {
	r := gin.New()
	r.GET("/health", NewAuthHandler(&mockAuthService{}).Health)

	w := doRequest(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || w.Body.String() != AuthHealthMessage {
		t.Errorf("期望固定可用性文本，实际 %d %q", w.Code, w.Body.String())
	}
}

func TestAuthHandler_LogoutAndMe(t *testing.T) {
	svc := &mockAuthService{currentUser: &model.User{UserID: "u1", Email: "ana@uni.edu", Name: "Ana", Role: model.RoleStudent, Active: true}}
	h := NewAuthHandler(svc)
	r := gin.New()
	r.Use(withIdentity("u1", "ana@uni.edu", "STUDENT"))
	r.POST("/logout", h.Logout)
	r.GET("/me", h.Me)

	if w := doRequest(r, http.MethodPost, "/logout", ""); w.Code != http.StatusNoContent {
		t.Errorf("登出期望 204，实际 %d", w.Code)
	}
	if svc.loggedOutJTI != "jti-1" {
		t.Errorf("期望注销 jti-1，实际 %q", svc.loggedOutJTI)
	}

	w := doRequest(r, http.MethodGet, "/me", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"email":"ana@uni.edu"`) {
		t.Errorf("期望返回当前用户，实际 %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("响应不应包含密码字段")
	}
}

// ═══════════════════════════════════════════════════════════
// FeedbackHandler
// ═══════════════════════════════════════════════════════════

func TestFeedbackHandler_Create(t *testing.T) {
	svc := &mockFeedbackService{feedback: sampleFeedback()}
	r := gin.New()
	r.POST("/feedbacks", NewFeedbackHandler(svc).Create)

	w := doRequest(r, http.MethodPost, "/feedbacks",
		`{"studentName":"Ana","studentEmail":"ana@uni.edu","course":"CS101","rating":1,"comment":"bad","urgent":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际 %d: %s", w.Code, w.Body.String())
	}
	if svc.createReq == nil || !svc.createReq.Urgent || svc.createReq.Rating != 1 {
		t.Errorf("请求未正确传入 Service: %+v", svc.createReq)
	}

	var resp dto.FeedbackResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ID != "fb-1" || resp.CreatedAt != "2026-03-09T12:00:00Z" {
		t.Errorf("响应字段错误: %+v", resp)
	}
}

func TestFeedbackHandler_CreateValidation(t *testing.T) {
	valid := map[string]interface{}{
		"studentName":  "Ana",
		"studentEmail": "ana@uni.edu",
		"course":       "CS101",
		"rating":       3,
		"comment":      "ok",
	}
	tests := []struct {
		name  string
		field string
		value interface{}
	}{
		{"空白姓名", "studentName", "   "},
		{"邮箱格式错误", "studentEmail", "not-an-email"},
		{"空白课程", "course", " "},
		{"评分为 0", "rating", 0},
		{"评分为 6", "rating", 6},
		{"空白评论", "comment", "  "},
		{"评论过长", "comment", strings.Repeat("a", 2001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockFeedbackService{feedback: sampleFeedback()}
			r := gin.New()
			r.POST("/feedbacks", NewFeedbackHandler(svc).Create)

			body := map[string]interface{}{}
			for k, v := range valid {
				body[k] = v
			}
			body[tt.field] = tt.value
			raw, _ := json.Marshal(body)

			w := doRequest(r, http.MethodPost, "/feedbacks", string(raw))
			if w.Code != http.StatusBadRequest {
				t.Errorf("期望 400，实际 %d", w.Code)
			}
			if svc.createReq != nil {
				t.Error("校验失败时不应调用 Service")
			}
		})
	}
}

func TestFeedbackHandler_CreateBoundaryRatings(t *testing.T) {
	for _, rating := range []int{1, 5} {
		svc := &mockFeedbackService{feedback: sampleFeedback()}
		r := gin.New()
		r.POST("/feedbacks", NewFeedbackHandler(svc).Create)

		body := fmt.Sprintf(`{"studentName":"Ana","studentEmail":"ana@uni.edu","course":"CS101","rating":%d,"comment":"ok"}`, rating)
		if w := doRequest(r, http.MethodPost, "/feedbacks", body); w.Code != http.StatusCreated {
			t.Errorf("rating=%d 期望 201，实际 %d", rating, w.Code)
		}
	}
}

func TestFeedbackHandler_MineUsesTokenEmail(t *testing.T) {
	svc := &mockFeedbackService{list: []model.Feedback{*sampleFeedback()}}
	r := gin.New()
	r.Use(withIdentity("u1", "ana@uni.edu", "STUDENT"))
	r.GET("/feedbacks/me", NewFeedbackHandler(svc).Mine)

	w := doRequest(r, http.MethodGet, "/feedbacks/me", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if svc.studentArg != "ana@uni.edu" {
		t.Errorf("期望按 Token 中的 email 查询，实际 %q", svc.studentArg)
	}
}

func TestFeedbackHandler_GetByIDErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   int
	}{
		{service.ErrFeedbackNotFound, http.StatusNotFound, 12001},
		{errUnavailable, http.StatusServiceUnavailable, 50300},
		{errors.New("boom"), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		r := gin.New()
		r.GET("/feedbacks/:id", NewFeedbackHandler(&mockFeedbackService{err: tt.err}).GetByID)

		w := doRequest(r, http.MethodGet, "/feedbacks/missing", "")
		if w.Code != tt.status {
			t.Errorf("%v 期望 %d，实际 %d", tt.err, tt.status, w.Code)
		}
		if body := decodeError(t, w); body.Code != tt.code {
			t.Errorf("%v 期望 code=%d，实际 %d", tt.err, tt.code, body.Code)
		}
	}
}

func TestFeedbackHandler_EmptyListIsArray(t *testing.T) {
	r := gin.New()
	r.Use(withIdentity("u1", "ana@uni.edu", "STUDENT"))
	r.GET("/feedbacks/me", NewFeedbackHandler(&mockFeedbackService{}).Mine)

	w := doRequest(r, http.MethodGet, "/feedbacks/me", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("期望空数组，实际 %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// AdminHandler
// ═══════════════════════════════════════════════════════════

func newAdminRouter(auth *mockAuthService, fb *mockFeedbackService, rep *mockReportService) *gin.Engine {
	h := NewAdminHandler(auth, fb, rep)
	r := gin.New()
	r.POST("/users", h.RegisterUser)
	r.GET("/feedbacks", h.ListFeedbacks)
	r.GET("/feedbacks/recent", h.ListRecent)
	r.PATCH("/feedbacks/:id/urgent", h.UpdateUrgency)
	r.GET("/courses/:course/average", h.CourseAverage)
	r.POST("/report/weekly", h.WeeklyReport)
	r.GET("/report/weekly/text", h.WeeklyReportText)
	r.GET("/report/weekly/export", h.ExportWeeklyReport)
	r.POST("/report/weekly/send", h.SendWeeklyReport)
	r.POST("/report/full", h.FullReport)
	r.GET("/stats", h.Stats)
	return r
}

func TestAdminHandler_ListFeedbacksLastWeek(t *testing.T) {
	fb := &mockFeedbackService{}
	r := newAdminRouter(&mockAuthService{}, fb, &mockReportService{})

	doRequest(r, http.MethodGet, "/feedbacks", "")
	if fb.lastWeek {
		t.Error("未传 lastWeek 时应返回全部反馈")
	}
	doRequest(r, http.MethodGet, "/feedbacks?lastWeek=true", "")
	if !fb.lastWeek {
		t.Error("lastWeek=true 时应调用最近一周查询")
	}
}

func TestAdminHandler_ListRecentLimit(t *testing.T) {
	fb := &mockFeedbackService{}
	r := newAdminRouter(&mockAuthService{}, fb, &mockReportService{})

	if w := doRequest(r, http.MethodGet, "/feedbacks/recent?limit=5", ""); w.Code != http.StatusOK || fb.recentLimit != 5 {
		t.Errorf("期望 limit=5，实际 %d / %d", w.Code, fb.recentLimit)
	}
	if w := doRequest(r, http.MethodGet, "/feedbacks/recent?limit=1000", ""); w.Code != http.StatusBadRequest {
		t.Errorf("limit 超限期望 400，实际 %d", w.Code)
	}
}

func TestAdminHandler_UpdateUrgency(t *testing.T) {
	fb := &mockFeedbackService{feedback: sampleFeedback()}
	r := newAdminRouter(&mockAuthService{}, fb, &mockReportService{})

	if w := doRequest(r, http.MethodPatch, "/feedbacks/fb-1/urgent", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("缺少 urgent 期望 400，实际 %d", w.Code)
	}
	w := doRequest(r, http.MethodPatch, "/feedbacks/fb-1/urgent", `{"urgent":false}`)
	if w.Code != http.StatusOK || fb.urgentArg == nil || *fb.urgentArg {
		t.Errorf("期望以 urgent=false 调用，实际 %d %v", w.Code, fb.urgentArg)
	}
}

func TestAdminHandler_RegisterUser(t *testing.T) {
	auth := &mockAuthService{registerUser: &model.User{UserID: "u2", Email: "new@uni.edu", Name: "New", Role: model.RoleStudent, Active: true}}
	r := newAdminRouter(auth, &mockFeedbackService{}, &mockReportService{})

	body := `{"email":"new@uni.edu","password":"secret123","name":"New","role":"STUDENT"}`
	if w := doRequest(r, http.MethodPost, "/users", body); w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际 %d: %s", w.Code, w.Body.String())
	}

	if w := doRequest(r, http.MethodPost, "/users", strings.Replace(body, "STUDENT", "ROOT", 1)); w.Code != http.StatusBadRequest {
		t.Errorf("未知角色期望 400，实际 %d", w.Code)
	}

	auth.registerErr = service.ErrEmailExists
	w := doRequest(r, http.MethodPost, "/users", body)
	if w.Code != http.StatusConflict || decodeError(t, w).Code != 11002 {
		t.Errorf("重复邮箱期望 409/11002，实际 %d %s", w.Code, w.Body.String())
	}
}

func TestAdminHandler_Reports(t *testing.T) {
	rep := &mockReportService{
		weekly: &dto.WeeklyReport{PeriodStart: "2026-03-02T12:00:00Z", AverageRating: "3.50", RatingDistribution: map[int]int{5: 1}},
		full:   &dto.FullReport{TotalFeedbacks: 10, OverallAverageRating: "4.10", TotalUrgentFeedbacks: 2},
		text:   "report text",
		stats:  &dto.StatsResponse{TotalFeedbacks: 3, UrgentFeedbacks: 1, AverageRating: 10.0 / 3.0},
		buf:    bytes.NewBufferString("xlsx"),
		sent:   &dto.SendReportResponse{Recipients: 2},
	}
	r := newAdminRouter(&mockAuthService{}, &mockFeedbackService{}, rep)

	w := doRequest(r, http.MethodPost, "/report/weekly", "")
	if !strings.Contains(w.Body.String(), `"periodStart":"2026-03-02T12:00:00Z"`) || !strings.Contains(w.Body.String(), `"ratingDistribution":{"5":1}`) {
		t.Errorf("周报字段应位于顶层，实际 %s", w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/report/weekly/text", "")
	if w.Body.String() != "report text" || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("期望纯文本周报，实际 %q %s", w.Body.String(), w.Header().Get("Content-Type"))
	}

	w = doRequest(r, http.MethodPost, "/report/full", "")
	if !strings.Contains(w.Body.String(), `"totalUrgentFeedbacks":2`) {
		t.Errorf("全量报表字段错误: %s", w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/stats", "")
	var stats map[string]float64
	_ = json.Unmarshal(w.Body.Bytes(), &stats)
	if stats["averageRating"] != 10.0/3.0 {
		t.Errorf("统计平均分应不舍入，实际 %v", stats["averageRating"])
	}

	w = doRequest(r, http.MethodGet, "/report/weekly/export", "")
	if w.Header().Get("Content-Type") != xlsxContentType || !strings.Contains(w.Header().Get("Content-Disposition"), "weekly_report_20260309.xlsx") {
		t.Errorf("导出响应头错误: %v", w.Header())
	}

	if w = doRequest(r, http.MethodPost, "/report/weekly/send", ""); w.Code != http.StatusOK {
		t.Errorf("发送周报期望 200，实际 %d", w.Code)
	}
}

func TestAdminHandler_ReportErrors(t *testing.T) {
	r := newAdminRouter(&mockAuthService{}, &mockFeedbackService{}, &mockReportService{err: errUnavailable})
	if w := doRequest(r, http.MethodPost, "/report/weekly", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("存储不可用期望 503，实际 %d", w.Code)
	}

	r = newAdminRouter(&mockAuthService{}, &mockFeedbackService{}, &mockReportService{err: mail.ErrNoRecipients})
	if w := doRequest(r, http.MethodPost, "/report/weekly/send", ""); w.Code != http.StatusBadRequest {
		t.Errorf("未配置收件人期望 400，实际 %d", w.Code)
	}

	r = newAdminRouter(&mockAuthService{}, &mockFeedbackService{}, &mockReportService{err: errors.New("resend: 500")})
	if w := doRequest(r, http.MethodPost, "/report/weekly/send", ""); w.Code != http.StatusBadGateway {
		t.Errorf("邮件服务失败期望 502，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// HealthHandler
// ═══════════════════════════════════════════════════════════

func TestHealthHandler(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name   string
		db     Pinger
		rdb    Pinger
		status int
		redis  string
	}{
		{"全部正常", up, up, http.StatusOK, "up"},
		{"数据库不可用", down, nil, http.StatusServiceUnavailable, ""},
		{"Redis 不可用不影响状态码", up, down, http.StatusOK, "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthHandler(tt.db, tt.rdb).Check)

			w := doRequest(r, http.MethodGet, "/health", "")
			if w.Code != tt.status {
				t.Errorf("期望 %d，实际 %d", tt.status, w.Code)
			}
			var resp dto.HealthResponse
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			if resp.Redis != tt.redis {
				t.Errorf("期望 redis=%q，实际 %q", tt.redis, resp.Redis)
			}
		})
	}
}
