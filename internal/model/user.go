package model

// Role 用户角色
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:varchar(36);primaryKey"            json:"id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"             json:"-"`
	Name         string `gorm:"type:varchar(100);not null"             json:"name"`
	Role         Role   `gorm:"type:varchar(20);not null"              json:"role"`
	Active       bool   `gorm:"not null"                               json:"active"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
