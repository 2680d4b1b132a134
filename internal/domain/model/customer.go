package model

import "time"

// 顧客。削除はせず Active=false にする（論理削除）。
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	Active    bool      `gorm:"not null;index" json:"active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
