package parallelquorum

import (
	"approval-routing-backend/db"
	stepinstancestore "approval-routing-backend/lib/step-instance/store"
	"approval-routing-backend/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// IsGroupSatisfied набран ли кворум согласований в параллельной группе заявки.
	// Отклонения не вычитаются: достаточно minimumApprovals согласований из всех этапов группы
	IsGroupSatisfied(parallelGroupID, requestID string) (bool, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(stepinstancestore.NewInstance(db.DB))
}

func NewInstance(steps stepinstancestore.Provider) Provider {
	return impl{
		steps: steps,
	}
}

type impl struct {
	steps stepinstancestore.Provider
}

func (i impl) GetLogger(parallelGroupID, requestID string) *log.Entry {
	return log.
		WithField("parallel_group_id", parallelGroupID).
		WithField("request_id", requestID)
}

func (i impl) IsGroupSatisfied(parallelGroupID, requestID string) (bool, error) {
	list, err := i.steps.ListByParallelGroup(requestID, parallelGroupID)
	if err != nil {
		return false, errors.Wrap(err, "ошибка получения этапов параллельной группы")
	}
	if len(list) == 0 {
		return false, nil
	}

	minimum := 0
	approved := 0
	for _, step := range list {
		if step.StepTemplate != nil {
			if minimum == 0 {
				minimum = step.StepTemplate.MinimumApprovals
			} else if step.StepTemplate.MinimumApprovals != minimum {
				i.GetLogger(parallelGroupID, requestID).
					WithField("step_template_id", step.StepTemplateID).
					Warnf("Разное минимальное количество согласований в группе: %v и %v, используется %v",
						minimum, step.StepTemplate.MinimumApprovals, minimum)
			}
		}
		if step.Status == models.StepStatusApproved {
			approved++
		}
	}
	if minimum < 1 {
		minimum = 1
	}
	return approved >= minimum, nil
}
