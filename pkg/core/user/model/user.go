package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleRunner = "runner"
	RoleAdmin  = "admin"
)

type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string         `gorm:"type:varchar(255)"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	Role         string         `gorm:"type:varchar(20);default:runner;not null"`
	IsActive     bool           `gorm:"default:true;index"`
	Version      int            `gorm:"default:1;not null"` // 乐观锁
	CreatedAt    time.Time      `gorm:"index;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"` // 软删除标记
}

// TableName 定义映射表名
func (User) TableName() string {
	return "runner_users"
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func AutoMigrate(db *gorm.DB) error {
	return db.Set("gorm:table_options", "COMMENT='跑者账号表'").
		AutoMigrate(&User{})
}
