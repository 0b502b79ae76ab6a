package dto

// ── 报表模块响应 ──
// 周报与全量报表字段不同，不共用结构

// WeeklyReport 周报（最近 7 天滚动窗口）
type WeeklyReport struct {
	ReportGeneratedAt  string          `json:"reportGeneratedAt"`
	PeriodStart        string          `json:"periodStart"`
	PeriodEnd          string          `json:"periodEnd"`
	TotalFeedbacks     int             `json:"totalFeedbacks"`
	UrgentFeedbacks    int             `json:"urgentFeedbacks"`
	AverageRating      string          `json:"averageRating"`      // 两位小数
	RatingDistribution map[int]int     `json:"ratingDistribution"` // 未出现的评分不填充
	TopCourses         map[string]int  `json:"topCourses"`
	RecentComments     []RecentComment `json:"recentComments"`
	CriticalFeedbacks  int             `json:"criticalFeedbacks"`
}

// RecentComment 周报中的最近评论
type RecentComment struct {
	Course  string `json:"course"`
	Rating  string `json:"rating"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

// FullReport 全量报表
type FullReport struct {
	ReportGeneratedAt    string `json:"reportGeneratedAt"`
	TotalFeedbacks       int64  `json:"totalFeedbacks"`
	OverallAverageRating string `json:"overallAverageRating"`
	TotalUrgentFeedbacks int64  `json:"totalUrgentFeedbacks"`
}

// StatsResponse 管理端统计（平均分不做舍入）
type StatsResponse struct {
	TotalFeedbacks  int64   `json:"totalFeedbacks"`
	UrgentFeedbacks int64   `json:"urgentFeedbacks"`
	AverageRating   float64 `json:"averageRating"`
}

// SendReportResponse 周报邮件发送结果
type SendReportResponse struct {
	Recipients int    `json:"recipients"`
	SentAt     string `json:"sentAt"`
}
