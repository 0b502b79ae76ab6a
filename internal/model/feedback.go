package model

// 反馈字段约束
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
	// CriticalRating 评分不高于该值视为差评
	CriticalRating = 2
)

// Feedback 课程反馈表 — 对应 feedbacks
// student_email 不要求对应已注册用户
type Feedback struct {
	FeedbackID   string `gorm:"type:varchar(36);primaryKey"        json:"id"`
	StudentName  string `gorm:"type:varchar(100);not null"         json:"studentName"`
	StudentEmail string `gorm:"type:varchar(255);not null;index"   json:"studentEmail"`
	Course       string `gorm:"type:varchar(200);not null;index"   json:"course"`
	Rating       int    `gorm:"not null"                           json:"rating"`
	Comment      string `gorm:"type:varchar(2000);not null"        json:"comment"`
	Urgent       bool   `gorm:"not null;index"                     json:"urgent"`
	BaseModel
}

// TableName 指定表名
func (Feedback) TableName() string { return "feedbacks" }

// IsCritical 是否为差评（评分 ≤ 2）
func (f *Feedback) IsCritical() bool {
	return f.Rating <= CriticalRating
}
