package dbmodels

import (
	"time"

	"approval-routing-backend/models"
)

type Vacation struct {
	BaseModel
	UserID           string `gorm:"type:varchar(36);index"`
	StartDate        time.Time
	EndDate          time.Time
	SubstituteUserID string                `gorm:"type:varchar(36)"`
	Status           models.VacationStatus `gorm:"type:varchar(20)"`
}

// Covers проверяет попадание календарной даты в период отпуска (границы включительно)
func (v Vacation) Covers(date time.Time) bool {
	day := TruncateToDay(date)
	return !day.Before(TruncateToDay(v.StartDate)) && !day.After(TruncateToDay(v.EndDate))
}

func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
