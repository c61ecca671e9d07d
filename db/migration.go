package db

import (
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func AutoMigrateDB(tx *gorm.DB) error {
	log.Info("Запуск миграций")
	entities := []struct {
		name  string
		model interface{}
	}{
		{"Department", &dbmodels.Department{}},
		{"User", &dbmodels.User{}},
		{"UserGroup", &dbmodels.UserGroup{}},
		{"UserGroupMember", &dbmodels.UserGroupMember{}},
		{"Vacation", &dbmodels.Vacation{}},
		{"RequestTemplate", &dbmodels.RequestTemplate{}},
		{"StepTemplate", &dbmodels.StepTemplate{}},
		{"StepInstance", &dbmodels.StepInstance{}},
		{"ApprovalDelegation", &dbmodels.ApprovalDelegation{}},
	}
	for _, entity := range entities {
		if err := tx.AutoMigrate(entity.model); err != nil {
			return errors.Wrapf(err, "ошибка создания структуры %v", entity.name)
		}
	}
	log.Info("Миграция прошла успешно")
	return nil
}
