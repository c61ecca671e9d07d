package stepinstancestore

import (
	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.StepInstance) (id string, err error)
	GetByID(id string) (rec *dbmodels.StepInstance, err error)
	Update(id string, updMap map[string]interface{}) error
	ListByRequest(requestID string) (list []dbmodels.StepInstance, err error)
	// ListByParallelGroup этапы заявки, шаблоны которых входят в параллельную группу
	ListByParallelGroup(requestID, parallelGroupID string) (list []dbmodels.StepInstance, err error)
	// ListPendingWithEscalation ожидающие решения этапы, для шаблона которых настроена эскалация
	ListPendingWithEscalation() (list []dbmodels.StepInstance, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.StepInstance) (id string, err error) {
	err = i.db.
		Omit("StepTemplate", "AssignedApprover").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.StepInstance, error) {
	rec := dbmodels.StepInstance{}
	err := i.db.
		Where("id = ?", id).
		Preload("StepTemplate").
		Preload("AssignedApprover").
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.StepInstance{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListByRequest(requestID string) (list []dbmodels.StepInstance, err error) {
	list = []dbmodels.StepInstance{}
	err = i.db.
		Where("request_id = ?", requestID).
		Order("step_order ASC").
		Order("created_at ASC").
		Preload("StepTemplate").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByParallelGroup(requestID, parallelGroupID string) (list []dbmodels.StepInstance, err error) {
	list = []dbmodels.StepInstance{}
	groupTemplates := i.db.
		Model(&dbmodels.StepTemplate{}).
		Select("id").
		Where("parallel_group_id = ?", parallelGroupID)
	err = i.db.
		Where("request_id = ?", requestID).
		Where("step_template_id IN (?)", groupTemplates).
		Order("step_order ASC").
		Order("created_at ASC").
		Preload("StepTemplate").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListPendingWithEscalation() (list []dbmodels.StepInstance, err error) {
	list = []dbmodels.StepInstance{}
	escalatingTemplates := i.db.
		Model(&dbmodels.StepTemplate{}).
		Select("id").
		Where("escalation_timeout IS NOT NULL").
		Where("escalation_user_id <> ''")
	err = i.db.
		Where("status = ?", models.StepStatusPending).
		Where("step_template_id IN (?)", escalatingTemplates).
		Order("created_at ASC").
		Preload("StepTemplate").
		Preload("AssignedApprover").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
