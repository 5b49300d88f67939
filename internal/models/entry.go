package models

import "time"

const MaxTaskLength = 60

// Entry is one daily check-in. Date is assigned by the server on creation.
type Entry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_entries_user_date" json:"userId"`
	Task       string    `gorm:"not null" json:"task"`
	AIResponse string    `gorm:"column:ai_response;not null" json:"aiResponse"`
	Completed  bool      `gorm:"not null;default:false" json:"completed"`
	Date       time.Time `gorm:"not null;index:idx_entries_user_date" json:"date"`
}
