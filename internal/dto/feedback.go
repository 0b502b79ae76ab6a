package dto

import "feedback-system/backend/internal/model"

// ── 反馈模块 DTO ──

// CreateFeedbackRequest 提交反馈请求
type CreateFeedbackRequest struct {
	StudentName  string `json:"studentName"  binding:"required,notblank"`
	StudentEmail string `json:"studentEmail" binding:"required,email"`
	Course       string `json:"course"       binding:"required,notblank"`
	Rating       int    `json:"rating"       binding:"required,min=1,max=5"`
	Comment      string `json:"comment"      binding:"required,notblank,max=2000"`
	Urgent       bool   `json:"urgent"`
}

// UpdateUrgencyRequest 修改紧急标记请求
// 使用指针区分 "未传" 与 false
type UpdateUrgencyRequest struct {
	Urgent *bool `json:"urgent" binding:"required"`
}

// FeedbackListRequest 管理员反馈列表查询参数
type FeedbackListRequest struct {
	LastWeek bool `form:"lastWeek"`
}

// RecentFeedbackRequest 最近反馈查询参数
type RecentFeedbackRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ── 反馈模块响应 ──

// FeedbackResponse 反馈详情
type FeedbackResponse struct {
	ID           string `json:"id"`
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
	Course       string `json:"course"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	Urgent       bool   `json:"urgent"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// NewFeedbackResponse 由模型构造反馈响应
func NewFeedbackResponse(f *model.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:           f.FeedbackID,
		StudentName:  f.StudentName,
		StudentEmail: f.StudentEmail,
		Course:       f.Course,
		Rating:       f.Rating,
		Comment:      f.Comment,
		Urgent:       f.Urgent,
		CreatedAt:    f.CreatedAt.Format(TimeFormat),
		UpdatedAt:    f.UpdatedAt.Format(TimeFormat),
	}
}

// NewFeedbackListResponse 批量转换，空结果返回 [] 而非 null
func NewFeedbackListResponse(list []model.Feedback) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(list))
	for i := range list {
		out = append(out, NewFeedbackResponse(&list[i]))
	}
	return out
}

// CourseAverageResponse 课程平均分
type CourseAverageResponse struct {
	Course        string  `json:"course"`
	AverageRating float64 `json:"averageRating"`
}
