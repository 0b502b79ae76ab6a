package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"feedback-system/backend/internal/dto"
	"feedback-system/backend/internal/service"
	pkgerrors "feedback-system/backend/pkg/errors"
	"feedback-system/backend/pkg/mail"
	"feedback-system/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler 管理端 HTTP 处理器（路由层已限定 ADMIN）
type AdminHandler struct {
	authSvc     service.AuthService
	feedbackSvc service.FeedbackService
	reportSvc   service.ReportService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(authSvc service.AuthService, feedbackSvc service.FeedbackService, reportSvc service.ReportService) *AdminHandler {
	return &AdminHandler{authSvc: authSvc, feedbackSvc: feedbackSvc, reportSvc: reportSvc}
}

// ── 用户 ──

// RegisterUser 创建用户
// POST /api/admin/users
func (h *AdminHandler) RegisterUser(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authSvc.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.Created(c, dto.NewUserResponse(user))
}

// ── 反馈 ──

// ListFeedbacks 全部反馈，lastWeek=true 时只返回最近 7 天
// GET /api/admin/feedbacks?lastWeek=
func (h *AdminHandler) ListFeedbacks(c *gin.Context) {
	var req dto.FeedbackListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	fetch := h.feedbackSvc.GetAllFeedbacks
	if req.LastWeek {
		fetch = h.feedbackSvc.GetLastWeekFeedbacks
	}

	list, err := fetch(c.Request.Context())
	if err != nil {
		handleFeedbackError(c, err)
		return
	}
	response.OK(c, dto.NewFeedbackListResponse(list))
}

// ListUrgent 紧急反馈
// GET /api/admin/feedbacks/urgent
func (h *AdminHandler) ListUrgent(c *gin.Context) {
	list, err := h.feedbackSvc.GetUrgentFeedbacks(c.Request.Context())
	if err != nil {
		handleFeedbackError(c, err)
		return
	}
	response.OK(c, dto.NewFeedbackListResponse(list))
}

// ListRecent 最近 N 条反馈
// GET /api/admin/feedbacks/recent?limit=
func (h *AdminHandler) ListRecent(c *gin.Context) {
	var req dto.RecentFeedbackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.feedbackSvc.GetRecentFeedbacks(c.Request.Context(), req.Limit)
	if err != nil {
		handleFeedbackError(c, err)
		return
	}
	response.OK(c, dto.NewFeedbackListResponse(list))
}

// UpdateUrgency 修改紧急标记
// PATCH /api/admin/feedbacks/:id/urgent
func (h *AdminHandler) UpdateUrgency(c *gin.Context) {
	var req dto.UpdateUrgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	fb, err := h.feedbackSvc.UpdateUrgency(c.Request.Context(), c.Param("id"), *req.Urgent)
	if err != nil {
		handleFeedbackError(c, err)
		return
	}
	response.OK(c, dto.NewFeedbackResponse(fb))
}

// ListByCourse 课程反馈
// GET /api/admin/courses/:course/feedbacks
func (h *AdminHandler) ListByCourse(c *gin.Context) {
	list, err := h.feedbackSvc.GetFeedbacksByCourse(c.Request.Context(), c.Param("course"))
	if err != nil {
		handleFeedbackError(c, err)
		return
	}
	response.OK(c, dto.NewFeedbackListResponse(list))
}

// CourseAverage 课程平均分
// GET /api/admin/courses/:course/average
func (h *AdminHandler) CourseAverage(c *gin.Context) {
	course := c.Param("course")
	avg, err := h.feedbackSvc.CalculateAverageRatingByCourse(c.Request.Context(), course)
	if err != nil {
		handleFeedbackError(c, err)
		return
	}
	response.OK(c, dto.CourseAverageResponse{Course: course, AverageRating: avg})
}

// ── 报表 ──

// WeeklyReport 周报
// POST /api/admin/report/weekly
func (h *AdminHandler) WeeklyReport(c *gin.Context) {
	report, err := h.reportSvc.GenerateWeeklyReport(c.Request.Context())
	if err != nil {
		handleReportError(c, err)
		return
	}
	response.OK(c, report)
}

// WeeklyReportText 周报文本
// GET /api/admin/report/weekly/text
func (h *AdminHandler) WeeklyReportText(c *gin.Context) {
	text, err := h.reportSvc.GenerateWeeklyReportText(c.Request.Context())
	if err != nil {
		handleReportError(c, err)
		return
	}
	response.Text(c, text)
}

// FullReport 全量报表
// POST /api/admin/report/full
func (h *AdminHandler) FullReport(c *gin.Context) {
	report, err := h.reportSvc.GenerateFullReport(c.Request.Context())
	if err != nil {
		handleReportError(c, err)
		return
	}
	response.OK(c, report)
}

// ExportWeeklyReport 导出周报 Excel
// GET /api/admin/report/weekly/export
func (h *AdminHandler) ExportWeeklyReport(c *gin.Context) {
	buf, filename, err := h.reportSvc.ExportWeeklyReport(c.Request.Context())
	if err != nil {
		handleReportError(c, err)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// SendWeeklyReport 立即发送周报邮件
// POST /api/admin/report/weekly/send
func (h *AdminHandler) SendWeeklyReport(c *gin.Context) {
	result, err := h.reportSvc.SendWeeklyReport(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, mail.ErrNoRecipients):
			response.BadRequest(c, 13001, "未配置周报收件人")
		case errors.Is(err, pkgerrors.ErrStoreUnavailable):
			response.ServiceUnavailable(c)
		default:
			response.Error(c, http.StatusBadGateway, 13002, "周报发送失败")
		}
		return
	}
	response.OK(c, result)
}

// Stats 统计（平均分不舍入）
// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.reportSvc.GetStats(c.Request.Context())
	if err != nil {
		handleReportError(c, err)
		return
	}
	response.OK(c, stats)
}

func handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrStoreUnavailable):
		response.ServiceUnavailable(c)
	default:
		response.InternalError(c)
	}
}
