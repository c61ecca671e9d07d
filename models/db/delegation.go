package dbmodels

import (
	"time"
)

type ApprovalDelegation struct {
	BaseModel
	FromUserID string `gorm:"type:varchar(36);index"`
	FromUser   *User  `gorm:"foreignKey:FromUserID"`
	ToUserID   string `gorm:"type:varchar(36);index"`
	ToUser     *User  `gorm:"foreignKey:ToUserID"`
	StartDate  time.Time
	EndDate    *time.Time
	IsActive   bool
	Reason     string
}

// InEffect делегирование действует в момент t: активно, уже началось и ещё не истекло
func (d ApprovalDelegation) InEffect(t time.Time) bool {
	if !d.IsActive {
		return false
	}
	if d.StartDate.After(t) {
		return false
	}
	return d.EndDate == nil || !d.EndDate.Before(t)
}
