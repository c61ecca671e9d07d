package vacationstore

import (
	"time"

	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Vacation) (id string, err error)
	// ListCovering утверждённые отпуска сотрудника, в которые попадает дата
	ListCovering(userID string, date time.Time) ([]dbmodels.Vacation, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Vacation) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListCovering(userID string, date time.Time) ([]dbmodels.Vacation, error) {
	day := dbmodels.TruncateToDay(date)
	list := []dbmodels.Vacation{}
	err := i.db.
		Where("user_id = ?", userID).
		Where("status = ?", models.VacationStatusApproved).
		Where("start_date < ?", day.AddDate(0, 0, 1)).
		Where("end_date >= ?", day).
		Order("start_date DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
