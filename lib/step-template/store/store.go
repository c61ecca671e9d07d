package steptemplatestore

import (
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.StepTemplate) (id string, err error)
	GetByID(id string) (rec *dbmodels.StepTemplate, err error)
	ListByRequestTemplate(requestTemplateID string) (list []dbmodels.StepTemplate, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.StepTemplate) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.StepTemplate, error) {
	rec := dbmodels.StepTemplate{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByRequestTemplate(requestTemplateID string) (list []dbmodels.StepTemplate, err error) {
	list = []dbmodels.StepTemplate{}
	err = i.db.
		Where("request_template_id = ?", requestTemplateID).
		Order("step_order ASC").
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
