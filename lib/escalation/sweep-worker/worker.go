package escalationsweepworker

import (
	"context"
	"time"

	"approval-routing-backend/db"
	escalationhandler "approval-routing-backend/lib/escalation"
	notifyhandler "approval-routing-backend/lib/notify"
	stepinstancestore "approval-routing-backend/lib/step-instance/store"
	baseworker "approval-routing-backend/lib/utils/base-worker"
	"approval-routing-backend/lib/utils/helpers"
	"approval-routing-backend/lib/utils/lock"
	dbmodels "approval-routing-backend/models/db"

	"gorm.io/gorm"
)

type escalateFunc func(stepID string) (*dbmodels.StepInstance, error)

// Задача эскалации этапов согласования, ожидающих решения дольше таймаута
func StartWorker(ctx context.Context, firstRunDelay, runInterval, lockWait time.Duration) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("EscalationSweepWorker", firstRunDelay, runInterval),
		steps:    stepinstancestore.NewInstance(db.DB),
		monitor:  escalationhandler.Instance,
		escalate: escalateInTx,
		notifier: notifyhandler.Instance,
		lockWait: lockWait,
	}
	go i.Run(ctx, i.handle)
}

func escalateInTx(stepID string) (rec *dbmodels.StepInstance, err error) {
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		rec, err = escalationhandler.NewHandlerWithTx(tx).Escalate(stepID)
		return err
	})
	return rec, err
}

type impl struct {
	baseworker.BaseImpl
	steps    stepinstancestore.Provider
	monitor  escalationhandler.Provider
	escalate escalateFunc
	notifier notifyhandler.Provider
	lockWait time.Duration
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, err := i.steps.ListPendingWithEscalation()
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка этапов для эскалации")
		return
	}
	escalated := 0
	for _, step := range list {
		if helpers.IsContextDone(ctx) {
			return
		}
		stepLogger := logger.WithField("step_id", step.ID).WithField("request_id", step.RequestID)
		if alreadyEscalated(step) {
			continue
		}
		should, err := i.monitor.ShouldEscalate(step)
		if err != nil {
			stepLogger.WithError(err).Error("ошибка проверки необходимости эскалации")
			continue
		}
		if !should {
			continue
		}
		var escalatedStep *dbmodels.StepInstance
		ok, err := lock.WithDelay(ctx, "escalation:"+step.ID, i.lockWait, func() (escErr error) {
			escalatedStep, escErr = i.escalate(step.ID)
			return escErr
		})
		if err != nil {
			stepLogger.WithError(err).Error("ошибка эскалации этапа согласования")
			continue
		}
		if !ok {
			stepLogger.Warn("этап согласования уже обрабатывается, эскалация отложена")
			continue
		}
		escalationhandler.NotifyEscalated(i.notifier, escalatedStep)
		escalated++
	}
	if escalated > 0 {
		logger.WithField("escalated", escalated).Info("Эскалированы этапы согласования")
	}
}

// alreadyEscalated этап уже передан сотруднику эскалации, повторное переназначение ничего не изменит
func alreadyEscalated(step dbmodels.StepInstance) bool {
	return step.EscalatedAt != nil &&
		step.StepTemplate != nil &&
		step.AssignedApproverID == step.StepTemplate.EscalationUserID
}
