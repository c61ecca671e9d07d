package db

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InitPreload первичное заполнение оргструктуры из csv, если справочник сотрудников пуст
func InitPreload(dir string) {
	if err := FillDirectory(DB, dir); err != nil {
		log.WithError(err).Error("ошибка предзаполнения оргструктуры")
	}
}

// FillDirectory файлы departments.csv, users.csv, groups.csv; разделитель ";", первая строка - заголовок
func FillDirectory(tx *gorm.DB, dir string) error {
	var count int64
	if err := tx.Model(&dbmodels.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("оргструктура заполнена")
		return nil
	}
	log.Info("предзаполнение оргструктуры")

	departments, err := readCsvFile(filepath.Join(dir, "departments.csv"), ';', 7)
	if err != nil {
		return errors.Wrap(err, "ошибка загрузки файла с подразделениями")
	}
	users, err := readCsvFile(filepath.Join(dir, "users.csv"), ';', 6)
	if err != nil {
		return errors.Wrap(err, "ошибка загрузки файла с сотрудниками")
	}
	groups, err := readCsvFile(filepath.Join(dir, "groups.csv"), ';', 3)
	if err != nil {
		return errors.Wrap(err, "ошибка загрузки файла с группами")
	}

	return tx.Transaction(func(tx *gorm.DB) error {
		for _, line := range departments {
			rec := dbmodels.Department{
				BaseModel:                    dbmodels.BaseModel{ID: line[0]},
				Name:                         line[1],
				ParentID:                     line[2],
				HeadOfDepartmentID:           line[3],
				HeadOfDepartmentSubstituteID: line[4],
				DirectorID:                   line[5],
				DirectorSubstituteID:         line[6],
			}
			if err := rec.Validate(); err != nil {
				return errors.Wrapf(err, "подразделение %v", rec.ID)
			}
			if err := tx.Create(&rec).Error; err != nil {
				return errors.Wrapf(err, "ошибка добавления подразделения %v", rec.ID)
			}
		}
		for _, line := range users {
			rec := dbmodels.User{
				BaseModel:    dbmodels.BaseModel{ID: line[0]},
				FirstName:    line[1],
				LastName:     line[2],
				Email:        line[3],
				IsActive:     true,
				DepartmentID: line[4],
				Role:         models.UserRole(line[5]),
			}
			if err := tx.Create(&rec).Error; err != nil {
				return errors.Wrapf(err, "ошибка добавления сотрудника %v", rec.ID)
			}
		}
		groupIDs := map[string]bool{}
		for _, line := range groups {
			groupID := line[0]
			if !groupIDs[groupID] {
				groupIDs[groupID] = true
				group := dbmodels.UserGroup{BaseModel: dbmodels.BaseModel{ID: groupID}, Name: groupID}
				if err := tx.Create(&group).Error; err != nil {
					return errors.Wrapf(err, "ошибка добавления группы %v", groupID)
				}
			}
			position, err := strconv.Atoi(line[2])
			if err != nil {
				return errors.Wrapf(err, "некорректная позиция в группе %v", groupID)
			}
			member := dbmodels.UserGroupMember{GroupID: groupID, UserID: line[1], Position: position}
			if err := tx.Omit("User").Create(&member).Error; err != nil {
				return errors.Wrapf(err, "ошибка добавления участника группы %v", groupID)
			}
		}
		log.WithField("departments", len(departments)).
			WithField("users", len(users)).
			Info("оргструктура заполнена")
		return nil
	})
}

func readCsvFile(filePath string, comma rune, fields int) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = fields
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}
	return records[1:], nil
}
