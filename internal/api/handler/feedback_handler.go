package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"feedback-system/backend/internal/dto"
	"feedback-system/backend/internal/service"
	pkgerrors "feedback-system/backend/pkg/errors"
	"feedback-system/backend/pkg/response"
)

// FeedbackHandler 反馈模块 HTTP 处理器（学生与管理员共用）
type FeedbackHandler struct {
	feedbackSvc service.FeedbackService
}

// NewFeedbackHandler 创建 FeedbackHandler
func NewFeedbackHandler(feedbackSvc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackSvc: feedbackSvc}
}

// Create 提交反馈
// POST /api/feedbacks
func (h *FeedbackHandler) Create(c *gin.Context) {
	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	fb, err := h.feedbackSvc.CreateFeedback(c.Request.Context(), &req)
	if err != nil {
		handleFeedbackError(c, err)
		return
	}

	response.Created(c, dto.NewFeedbackResponse(fb))
}

// Mine 当前学生自己的反馈，按时间倒序
// GET /api/feedbacks/me
func (h *FeedbackHandler) Mine(c *gin.Context) {
	email, ok := MustGetEmail(c)
	if !ok {
		return
	}

	list, err := h.feedbackSvc.GetFeedbacksByStudent(c.Request.Context(), email)
	if err != nil {
		handleFeedbackError(c, err)
		return
	}

	response.OK(c, dto.NewFeedbackListResponse(list))
}

// GetByID 反馈详情
// GET /api/feedbacks/:id
func (h *FeedbackHandler) GetByID(c *gin.Context) {
	fb, err := h.feedbackSvc.GetFeedbackByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleFeedbackError(c, err)
		return
	}

	response.OK(c, dto.NewFeedbackResponse(fb))
}

func handleFeedbackError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFeedbackNotFound):
		response.NotFound(c, 12001, "反馈不存在")
	case errors.Is(err, service.ErrInvalidFeedback):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
	case errors.Is(err, pkgerrors.ErrStoreUnavailable):
		response.ServiceUnavailable(c)
	default:
		response.InternalError(c)
	}
}
