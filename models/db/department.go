package dbmodels

import (
	"github.com/pkg/errors"
)

type Department struct {
	BaseModel
	Name                         string `gorm:"type:varchar(255)"`
	ParentID                     string `gorm:"type:varchar(36);index"`
	HeadOfDepartmentID           string `gorm:"type:varchar(36)"`
	HeadOfDepartmentSubstituteID string `gorm:"type:varchar(36)"`
	DirectorID                   string `gorm:"type:varchar(36)"`
	DirectorSubstituteID         string `gorm:"type:varchar(36)"`
}

func (d *Department) Validate() error {
	if d.Name == "" {
		return errors.New("не указано название подразделения")
	}
	if d.ParentID != "" && d.ParentID == d.ID {
		return errors.New("подразделение не может быть родителем самому себе")
	}
	return nil
}
