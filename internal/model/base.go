package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
// 时间戳由 Service 层显式赋值，关闭 GORM 的自动写入，保证 created_at ≤ updated_at 可预测
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;index;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

// Stamp 创建时写入时间戳，created_at 与 updated_at 相等
func (b *BaseModel) Stamp(now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now
}

// Touch 变更时刷新 updated_at；时钟回拨时不早于 created_at
func (b *BaseModel) Touch(now time.Time) {
	if now.Before(b.CreatedAt) {
		now = b.CreatedAt
	}
	b.UpdatedAt = now
}
