package escalationhandler

import (
	"time"

	"approval-routing-backend/db"
	directorystore "approval-routing-backend/lib/directory/store"
	notifyhandler "approval-routing-backend/lib/notify"
	stepinstancestore "approval-routing-backend/lib/step-instance/store"
	steptemplatestore "approval-routing-backend/lib/step-template/store"
	apperrors "approval-routing-backend/lib/utils/app-errors"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// ShouldEscalate этап ждёт решения дольше таймаута эскалации шаблона
	ShouldEscalate(step dbmodels.StepInstance) (bool, error)
	// Escalate переназначает этап на сотрудника эскалации; статус этапа не меняется
	Escalate(stepID string) (*dbmodels.StepInstance, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(
		stepinstancestore.NewInstance(db.DB),
		steptemplatestore.NewInstance(db.DB),
		directorystore.NewInstance(db.DB),
		notifyhandler.Instance,
	)
}

// NewHandlerWithTx обработчик без уведомлений, после фиксации транзакции вызывающий отправляет их через NotifyEscalated
func NewHandlerWithTx(tx *gorm.DB) Provider {
	return NewInstance(
		stepinstancestore.NewInstance(tx),
		steptemplatestore.NewInstance(tx),
		directorystore.NewInstance(tx),
		nil,
	)
}

func NotifyEscalated(notifier notifyhandler.Provider, step *dbmodels.StepInstance) {
	if notifier == nil || step == nil || step.AssignedApprover == nil {
		return
	}
	notifier.StepEscalated(*step, *step.AssignedApprover)
}

func NewInstance(steps stepinstancestore.Provider, templates steptemplatestore.Provider,
	directory directorystore.Provider, notifier notifyhandler.Provider) Provider {
	return &impl{
		steps:     steps,
		templates: templates,
		directory: directory,
		notifier:  notifier,
		now:       time.Now,
	}
}

type impl struct {
	steps     stepinstancestore.Provider
	templates steptemplatestore.Provider
	directory directorystore.Provider
	notifier  notifyhandler.Provider
	now       func() time.Time
}

func (i impl) GetLogger(step dbmodels.StepInstance) *log.Entry {
	return log.
		WithField("step_id", step.ID).
		WithField("request_id", step.RequestID)
}

func (i impl) ShouldEscalate(step dbmodels.StepInstance) (bool, error) {
	tmpl, err := i.templateOf(step)
	if err != nil {
		return false, err
	}
	if tmpl == nil || !tmpl.HasEscalation() {
		return false, nil
	}
	return i.now().Sub(step.CreatedAt) >= *tmpl.EscalationTimeout, nil
}

func (i impl) Escalate(stepID string) (*dbmodels.StepInstance, error) {
	step, err := i.steps.GetByID(stepID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения этапа согласования")
	}
	if step == nil {
		return nil, apperrors.NotFound("этап согласования", stepID)
	}
	tmpl, err := i.templateOf(*step)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, apperrors.NotFound("шаблон этапа", step.StepTemplateID)
	}
	if tmpl.EscalationUserID == "" {
		return nil, apperrors.InvalidState("для этапа %v не настроен сотрудник для эскалации", tmpl.StepOrder)
	}
	escalationUser, err := i.directory.GetUserByID(tmpl.EscalationUserID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудника для эскалации")
	}
	if escalationUser == nil {
		return nil, apperrors.NotFound("сотрудник для эскалации", tmpl.EscalationUserID)
	}

	now := i.now()
	updMap := map[string]interface{}{
		"assigned_approver_id": escalationUser.ID,
		"escalated_at":         now,
	}
	if err = i.steps.Update(step.ID, updMap); err != nil {
		return nil, errors.Wrap(err, "ошибка сохранения эскалации этапа")
	}
	previousID := step.AssignedApproverID
	step.AssignedApproverID = escalationUser.ID
	step.AssignedApprover = escalationUser
	step.EscalatedAt = &now
	step.StepTemplate = tmpl

	i.GetLogger(*step).
		WithField("previous_approver_id", previousID).
		WithField("escalation_user_id", escalationUser.ID).
		Info("Этап согласования эскалирован")
	NotifyEscalated(i.notifier, step)
	return step, nil
}

func (i impl) templateOf(step dbmodels.StepInstance) (*dbmodels.StepTemplate, error) {
	if step.StepTemplate != nil {
		return step.StepTemplate, nil
	}
	tmpl, err := i.templates.GetByID(step.StepTemplateID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения шаблона этапа")
	}
	return tmpl, nil
}
