package notifyhandler

import (
	"fmt"

	"approval-routing-backend/lib/smtp"
	dbmodels "approval-routing-backend/models/db"

	log "github.com/sirupsen/logrus"
)

// Provider уведомления участников согласования. Ошибки доставки только логируются
type Provider interface {
	StepEscalated(step dbmodels.StepInstance, escalationUser dbmodels.User)
	DelegationGranted(rec dbmodels.ApprovalDelegation, from, to dbmodels.User)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(smtp.Instance)
}

func NewInstance(mail smtp.Provider) Provider {
	return impl{
		mail: mail,
	}
}

type impl struct {
	mail smtp.Provider
}

func (i impl) StepEscalated(step dbmodels.StepInstance, escalationUser dbmodels.User) {
	message := fmt.Sprintf("Этап %v заявки %v не был рассмотрен вовремя и передан вам на согласование.",
		step.StepOrder, step.RequestID)
	i.send(escalationUser, "эскалация этапа согласования", message,
		log.WithField("step_id", step.ID).WithField("request_id", step.RequestID))
}

func (i impl) DelegationGranted(rec dbmodels.ApprovalDelegation, from, to dbmodels.User) {
	period := "бессрочно"
	if rec.EndDate != nil {
		period = "до " + rec.EndDate.Format("02.01.2006")
	}
	message := fmt.Sprintf("Сотрудник %v передал вам полномочия по согласованию заявок (%v).", from.GetFullName(), period)
	if rec.Reason != "" {
		message += "\r\nПричина: " + rec.Reason
	}
	i.send(to, "делегирование полномочий", message, log.WithField("delegation_id", rec.ID))
}

func (i impl) send(to dbmodels.User, subject, message string, logger *log.Entry) {
	if i.mail == nil {
		logger.Warn("Уведомление не отправлено, почтовый клиент не инициализирован")
		return
	}
	if err := i.mail.SendEMail(to.Email, subject, message); err != nil {
		logger.WithError(err).WithField("user_id", to.ID).Error("Ошибка отправки уведомления")
	}
}
