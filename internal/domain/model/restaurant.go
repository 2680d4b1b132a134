package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Category            string          `gorm:"type:varchar(100);index" json:"category"`
	Address             string          `gorm:"type:varchar(255)" json:"address"`
	Phone               string          `gorm:"type:varchar(30)" json:"phone"`
	DeliveryFee         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	Rating              decimal.Decimal `gorm:"type:decimal(3,2);not null" json:"rating"`
	Active              bool            `gorm:"not null;index" json:"active"`
	DeliveryTimeMinutes int             `gorm:"not null" json:"delivery_time_minutes"`
	OpeningHours        string          `gorm:"type:varchar(100)" json:"opening_hours"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
