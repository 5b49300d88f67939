package models

import "time"

type Summary struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:uidx_summaries_user_week" json:"userId"`
	Achievements string    `gorm:"not null" json:"achievements"`
	Patterns     string    `gorm:"not null" json:"patterns"`
	Themes       string    `gorm:"not null" json:"themes"`
	WeekStarting time.Time `gorm:"not null;uniqueIndex:uidx_summaries_user_week" json:"weekStarting"`
	CreatedAt    time.Time `json:"createdAt"`
}
