package models

const (
	DefaultReminderTime      = "09:00"
	DefaultPushNotifications = true
	DefaultWeeklySummary     = true
)

type Setting struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	UserID            uint   `gorm:"not null;uniqueIndex" json:"userId"`
	ReminderTime      string `gorm:"not null;default:09:00" json:"reminderTime"`
	PushNotifications bool   `gorm:"not null;default:true" json:"pushNotifications"`
	WeeklySummary     bool   `gorm:"not null;default:true" json:"weeklySummary"`
	AITone            Tone   `gorm:"column:ai_tone;not null;default:motivational" json:"aiTone"`
}

func DefaultSetting(userID uint) Setting {
	return Setting{
		UserID:            userID,
		ReminderTime:      DefaultReminderTime,
		PushNotifications: DefaultPushNotifications,
		WeeklySummary:     DefaultWeeklySummary,
		AITone:            ToneMotivational,
	}
}
